package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/snedea/arcane-auditor/pkg/model"
)

// collectFiles walks root and reads every recognized definition file into
// a path -> text map. Files whose base name matches an exclude pattern are
// skipped. Unreadable files are returned as "<path>: <message>" entries so
// the caller can fold them into the batch's parsing errors.
func collectFiles(root string, exclude []string) (map[string]string, []string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read input path: %w", err)
	}

	var paths []string
	if info.IsDir() {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if model.KindForPath(path) == model.KindUnknown {
				return nil
			}
			for _, pattern := range exclude {
				if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
					return nil
				}
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", root, err)
		}
	} else {
		paths = []string{root}
	}

	files := make(map[string]string, len(paths))
	var readErrors []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			readErrors = append(readErrors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		files[path] = string(data)
	}
	return files, readErrors, nil
}
