package ner

import "context"

type noopEngine struct{}

// NewNoop returns an engine that reports entity recognition as unavailable.
// It stands in whenever no model bundle is configured.
func NewNoop() Engine {
	return &noopEngine{}
}

func (e *noopEngine) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return nil, ErrUnavailable
}
