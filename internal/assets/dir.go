package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdmerge/internal/fileutil"
)

// maxStyleSize caps a stylesheet read from disk.
const maxStyleSize = 256 << 10

// DirLoader reads stylesheets from a user directory as {dir}/{name}.css.
type DirLoader struct {
	dir string
}

// Compile-time interface check.
var _ StyleLoader = (*DirLoader)(nil)

// NewDirLoader resolves dir to an absolute, symlink-free path.
// Returns ErrInvalidStylesDir unless dir is an existing directory.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidStylesDir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStylesDir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if !fileutil.DirExists(abs) {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidStylesDir, abs)
	}
	return &DirLoader{dir: abs}, nil
}

// Dir returns the resolved directory.
func (l *DirLoader) Dir() string { return l.dir }

// LoadStyle reads {dir}/{name}.css. A symlink leading out of the directory
// is refused with ErrPathTraversal.
func (l *DirLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	path := filepath.Join(l.dir, name+".css")
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		rel, err := filepath.Rel(l.dir, resolved)
		if err != nil || !filepath.IsLocal(rel) {
			return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
		}
		path = resolved
	}

	f, err := os.Open(path) // #nosec G304 -- name validated, path contained in dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q in %s", ErrStyleNotFound, name, l.dir)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxStyleSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if len(data) > maxStyleSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrAssetRead, path, maxStyleSize)
	}
	return string(data), nil
}
