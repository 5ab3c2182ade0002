package mdmerge

import "errors"

// Sentinel errors for library operations.
var (
	ErrMissingInput   = errors.New("missing input")
	ErrTemplateDecode = errors.New("template is not valid UTF-8")
	ErrTemplateRead   = errors.New("failed to read template")
	ErrPartialFailure = errors.New("some drafts could not be created")

	// Sink errors.
	ErrSinkOpen      = errors.New("failed to open output")
	ErrSinkSave      = errors.New("failed to save draft")
	ErrInvalidFormat = errors.New("invalid output format")
	ErrNoRecipients  = errors.New("draft has no recipients")
	ErrHeaderBreak   = errors.New("header value contains a line break")

	// Browser errors (pdf output).
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
