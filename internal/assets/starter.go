package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const starterRoot = "starter"

// StarterFiles lists the files written by init, relative to the target
// directory, with forward slashes.
func StarterFiles() []string {
	var files []string
	_ = fs.WalkDir(starter, starterRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, strings.TrimPrefix(p, starterRoot+"/"))
		return nil
	})
	return files
}

// WriteStarter copies the starter project into dir, creating it if needed.
// Nothing is written when any target already exists; the error lists them.
// Returns the paths written.
func WriteStarter(dir string) ([]string, error) {
	files := StarterFiles()

	var existing []string
	for _, name := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if _, err := os.Lstat(target); err == nil {
			existing = append(existing, target)
		}
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStarterExists, strings.Join(existing, ", "))
	}

	written := make([]string, 0, len(files))
	for _, name := range files {
		data, err := starter.ReadFile(path.Join(starterRoot, name))
		if err != nil {
			return written, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return written, fmt.Errorf("%w: %v", ErrStarterWrite, err)
		}
		// O_EXCL guards against a file appearing since the check above.
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G304 -- target built from embedded names
		if err != nil {
			return written, fmt.Errorf("%w: %v", ErrStarterWrite, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return written, fmt.Errorf("%w: %v", ErrStarterWrite, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("%w: %v", ErrStarterWrite, err)
		}
		written = append(written, target)
	}
	return written, nil
}
