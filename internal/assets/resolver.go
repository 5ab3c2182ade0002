package assets

import "errors"

// StyleResolver looks a style up in the user styles directory first and
// falls back to the built-in style of the same name.
type StyleResolver struct {
	overrides StyleLoader // nil without a styles directory
	builtin   StyleLoader
}

// Compile-time interface check.
var _ StyleLoader = (*StyleResolver)(nil)

// NewStyleResolver creates a StyleResolver. An empty dir means built-in
// styles only; a dir that is not a directory is an error.
func NewStyleResolver(dir string) (*StyleResolver, error) {
	r := &StyleResolver{builtin: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}

	overrides, err := NewDirLoader(dir)
	if err != nil {
		return nil, err
	}
	r.overrides = overrides
	return r, nil
}

// LoadStyle loads a style by name. Only a missing override falls back;
// invalid names and read errors are returned as is.
func (r *StyleResolver) LoadStyle(name string) (string, error) {
	if r.overrides == nil {
		return r.builtin.LoadStyle(name)
	}

	css, err := r.overrides.LoadStyle(name)
	if err == nil || !errors.Is(err, ErrStyleNotFound) {
		return css, err
	}
	return r.builtin.LoadStyle(name)
}

// HasOverrides reports whether a styles directory is configured.
func (r *StyleResolver) HasOverrides() bool {
	return r.overrides != nil
}
