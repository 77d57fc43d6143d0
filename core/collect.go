package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"gopkg.in/yaml.v3"
)

// DashboardMeta converts model metadata into the dashboard's meta.yml form.
// The link points at the descriptor inside the published forecast repository.
func DashboardMeta(meta schema.ModelMeta, modelDir, rootDir, repoURL string) schema.DashboardMeta {
	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(rootDir)), modelDir)
	if err != nil {
		rel = modelDir
	}
	return schema.DashboardMeta{
		Name:        meta.TeamName + " - " + meta.ModelName,
		Description: schema.TruncateDescription(meta.Methods, contract.DescriptionMaxLen),
		URL:         repoURL + "/blob/master/" + filepath.ToSlash(filepath.Join(rel, schema.MetadataFileName)),
	}
}

// CollectDashboardData copies every submission of the configured model types
// into dataDir/<season>/<model-id>/<year*100+epiweek>.csv, with a meta.yml next
// to each model's files. An existing meta.yml is left untouched.
func CollectDashboardData(cfg *contract.Config) (schema.CollectOutput, error) {
	var out schema.CollectOutput
	dirs, err := ListChildDirs(cfg.RootDir, cfg.CollectModelTypes)
	if err != nil {
		return out, err
	}

	for _, dir := range dirs {
		model, err := LoadModelDir(dir)
		if err != nil {
			contract.LogWarn("Skipping model "+filepath.Base(dir), err)
			out.Skipped++
			continue
		}
		meta := DashboardMeta(model.Meta, dir, cfg.RootDir, cfg.RepoURL)

		files, err := ListModelCSVs(dir, nil)
		if err != nil {
			return out, err
		}
		copied := 0
		for _, path := range files {
			csvTime, err := ParseCSVTime(path)
			if err != nil {
				contract.LogWarn("Skipping file", err)
				out.Skipped++
				continue
			}
			targetDir := filepath.Join(cfg.DataDir, csvTime.Season, model.ID)
			if err := os.MkdirAll(targetDir, 0o755); err != nil {
				return out, fmt.Errorf("failed to create %s: %w", targetDir, err)
			}
			target := filepath.Join(targetDir, strconv.Itoa(csvTime.Timestamp())+schema.CSVExtension)
			if err := copyFile(path, target); err != nil {
				return out, err
			}
			if err := ensureDashboardMeta(filepath.Join(targetDir, schema.DashboardMetaFile), meta); err != nil {
				return out, err
			}
			copied++
		}
		out.Files += copied
		if copied > 0 {
			out.Models++
		}
	}
	return out, nil
}

// ensureDashboardMeta writes meta.yml only when it does not exist yet.
func ensureDashboardMeta(path string, meta schema.DashboardMeta) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// copyFile copies src over dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
