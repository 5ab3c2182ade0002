package assets

import (
	"fmt"
	"strings"
)

// maxStyleNameLength bounds style names, which end up in file names.
const maxStyleNameLength = 64

// StyleLoader returns draft stylesheets by name.
type StyleLoader interface {
	// LoadStyle returns the CSS named name (no .css extension).
	// Returns ErrStyleNotFound or ErrInvalidStyleName.
	LoadStyle(name string) (string, error)
}

// ValidateStyleName accepts names made of ASCII letters, digits, '-' and '_'.
// Anything else could name a file outside the styles directory.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if len(name) > maxStyleNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidStyleName, maxStyleNameLength)
	}
	if i := strings.IndexFunc(name, invalidStyleRune); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidStyleName, name, name[i])
	}
	return nil
}

func invalidStyleRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '-' || r == '_':
		return false
	}
	return true
}
