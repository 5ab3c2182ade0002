package pipeline

import "errors"

// Sentinel errors for rendering.
var (
	ErrRender         = errors.New("render failed")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrEnvelopeRender = errors.New("envelope header rendering failed")
)
