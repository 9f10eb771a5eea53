// Package seed ships a few example recipes and an aisle mapping for starting
// a new recipe directory.
package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed recipes
var embedded embed.FS

// Files returns the example files rooted at the recipe directory.
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "recipes")
	if err != nil {
		panic(err)
	}
	return sub
}

// Write copies the example files into dir, creating it and any
// subdirectories as needed. Existing files with the same name are
// overwritten. It returns the slash separated paths written, relative to dir.
func Write(dir string) ([]string, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	src := Files()
	var written []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed %s: %w", dir, err)
	}
	return written, nil
}
