package x12

import (
	"context"
	"fmt"
)

// Pipeline runs the full read, validate, transform sequence over one
// input. The zero value is usable.
type Pipeline struct {
	Validator   Validator
	Transformer Transformer
}

// Process tokenizes the input, validates it, and builds the semantic
// document. Validation findings never abort the run: the document is
// produced even for invalid content so callers can inspect both. The
// error is non-nil only when the input cannot be tokenized at all.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*ValidationResult, *Document, error) {
	msg, err := Read(data)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}

	result := p.Validator.Validate(ctx, msg)
	if err := ctx.Err(); err != nil {
		return result, nil, err
	}
	doc := p.Transformer.Transform(msg)
	return result, doc, nil
}
