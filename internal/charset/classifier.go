package charset

import (
	"fmt"

	"github.com/saintfish/chardet"
)

// Classifier guesses the encoding of a byte sample.
type Classifier interface {
	Classify(sample []byte) (Guess, error)
}

// ChardetClassifier classifies samples by byte distribution using chardet.
type ChardetClassifier struct {
	detector *chardet.Detector
}

// Compile-time interface check.
var _ Classifier = (*ChardetClassifier)(nil)

// NewChardetClassifier creates a classifier for plain text input.
func NewChardetClassifier() *ChardetClassifier {
	return &ChardetClassifier{detector: chardet.NewTextDetector()}
}

// Classify returns chardet's best guess with confidence scaled to [0,1].
func (c *ChardetClassifier) Classify(sample []byte) (Guess, error) {
	res, err := c.detector.DetectBest(sample)
	if err != nil {
		return Guess{}, fmt.Errorf("%w: %v", ErrNotDetected, err)
	}
	if res == nil {
		return Guess{}, ErrNotDetected
	}
	return Guess{
		Name:       res.Charset,
		Confidence: float64(res.Confidence) / 100,
	}, nil
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(sample []byte) (Guess, error)

// Classify calls f(sample).
func (f ClassifierFunc) Classify(sample []byte) (Guess, error) {
	return f(sample)
}
