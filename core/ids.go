package core

import (
	"path/filepath"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
)

// BuildModelIDMap pairs each model ID under root/parent with its directory name.
// Models whose metadata cannot produce an ID are skipped with a warning.
func BuildModelIDMap(root, parent string) ([]schema.ModelIDPair, error) {
	dirs, err := ListModelDirs(root, []string{parent})
	if err != nil {
		return nil, err
	}
	pairs := make([]schema.ModelIDPair, 0, len(dirs))
	for _, dir := range dirs {
		model, err := LoadModelDir(dir)
		if err != nil {
			contract.LogWarn("Skipping model "+filepath.Base(dir), err)
			continue
		}
		pairs = append(pairs, schema.ModelIDPair{ModelID: model.ID, ModelDir: filepath.Base(dir)})
	}
	return pairs, nil
}

// ModelIDMapPath returns where the model-id map of a parent directory is written.
func ModelIDMapPath(root, parent string) string {
	return filepath.Join(root, parent, schema.ModelIDMapFile)
}
