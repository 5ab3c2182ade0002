package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidStyleName = errors.New("invalid style name")
	ErrInvalidStylesDir = errors.New("invalid styles directory")
	ErrAssetRead        = errors.New("failed to read asset")

	// ErrPathTraversal indicates a style resolving outside the styles directory.
	ErrPathTraversal = errors.New("style escapes styles directory")

	// ErrStarterExists indicates init would overwrite existing files.
	ErrStarterExists = errors.New("starter files already exist")

	// ErrStarterWrite indicates a starter file could not be written.
	ErrStarterWrite = errors.New("failed to write starter files")
)
