package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/logscore/schema"
	"gopkg.in/yaml.v3"
)

// ListChildDirs returns the immediate child directories of each root/subdir,
// in subdir order and then name order. A missing subdir is an error.
func ListChildDirs(root string, subdirs []string) ([]string, error) {
	var dirs []string
	for _, sub := range subdirs {
		parent := filepath.Join(root, sub)
		entries, err := os.ReadDir(parent)
		if err != nil {
			return nil, fmt.Errorf("failed to read model directory %s: %w", parent, err)
		}
		for _, entry := range entries {
			if isDir(filepath.Join(parent, entry.Name()), entry) {
				dirs = append(dirs, filepath.Join(parent, entry.Name()))
			}
		}
	}
	return dirs, nil
}

// ListModelDirs returns the child directories of each root/subdir that hold a
// metadata descriptor.
func ListModelDirs(root string, subdirs []string) ([]string, error) {
	children, err := ListChildDirs(root, subdirs)
	if err != nil {
		return nil, err
	}
	dirs := children[:0]
	for _, dir := range children {
		if info, err := os.Stat(filepath.Join(dir, schema.MetadataFileName)); err == nil && info.Mode().IsRegular() {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// isDir follows symlinks so linked model directories are included.
func isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	}
	return false
}

// MetadataPath returns the descriptor path of a model directory.
func MetadataPath(modelDir string) string {
	return filepath.Join(modelDir, schema.MetadataFileName)
}

// ReadModelMeta parses a model's metadata descriptor.
func ReadModelMeta(modelDir string) (schema.ModelMeta, error) {
	var meta schema.ModelMeta
	data, err := os.ReadFile(MetadataPath(modelDir))
	if err != nil {
		return meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse metadata %s: %w", MetadataPath(modelDir), err)
	}
	return meta, nil
}

// ModelID derives the model identifier from metadata.
func ModelID(meta schema.ModelMeta) (string, error) {
	team := strings.TrimSpace(meta.TeamName)
	abbr := strings.TrimSpace(meta.ModelAbbr)
	switch {
	case team == "":
		return "", fmt.Errorf("%w: team_name", ErrMissingMetadata)
	case abbr == "":
		return "", fmt.Errorf("%w: model_abbr", ErrMissingMetadata)
	}
	return schema.ModelID(team, abbr), nil
}

// LoadModelDir reads the metadata of a model directory and derives its ID.
func LoadModelDir(modelDir string) (schema.ModelDir, error) {
	meta, err := ReadModelMeta(modelDir)
	if err != nil {
		return schema.ModelDir{}, err
	}
	id, err := ModelID(meta)
	if err != nil {
		return schema.ModelDir{}, err
	}
	return schema.ModelDir{Path: modelDir, ID: id, Meta: meta}, nil
}

// ListModelCSVs returns the CSV files of a model directory in name order,
// skipping any the blacklist names. A nil blacklist skips nothing.
func ListModelCSVs(modelDir string, blacklist *Blacklist) ([]string, error) {
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", modelDir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), schema.CSVExtension) {
			continue
		}
		path := filepath.Join(modelDir, entry.Name())
		if blacklist.Contains(path) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// ParseCSVTime reads the epiweek and year encoded in a submission filename of
// the form EW<ww>-<yyyy>-<anything>.csv.
func ParseCSVTime(path string) (schema.CSVTime, error) {
	base := filepath.Base(path)
	parts := strings.Split(base, "-")
	if len(parts) < 2 || len(parts[0]) <= 2 {
		return schema.CSVTime{}, fmt.Errorf("%w: %s", ErrBadFilename, base)
	}
	epiweek, err := strconv.Atoi(parts[0][2:])
	if err != nil || epiweek < 1 || epiweek > 53 {
		return schema.CSVTime{}, fmt.Errorf("%w: %s", ErrBadFilename, base)
	}
	year, err := strconv.Atoi(strings.TrimSuffix(parts[1], schema.CSVExtension))
	if err != nil {
		return schema.CSVTime{}, fmt.Errorf("%w: %s", ErrBadFilename, base)
	}
	return schema.CSVTime{
		Epiweek: epiweek,
		Year:    year,
		Season:  schema.Season(year, epiweek),
	}, nil
}
