// Package tokenizer counts model tokens for text content using tiktoken
// encodings.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncodingName = "cl100k_base"

// Counter reports token counts for text under a named model.
type Counter struct {
	modelName string
	encoding  *tiktoken.Tiktoken
}

// NewCounter creates a counter for modelName. Models without a registered
// encoding fall back to cl100k_base so counting always works.
func NewCounter(modelName string) (*Counter, error) {
	encoding, encodingError := tiktoken.EncodingForModel(modelName)
	if encodingError != nil {
		encoding, encodingError = tiktoken.GetEncoding(fallbackEncodingName)
		if encodingError != nil {
			return nil, fmt.Errorf("load token encoding for %s: %w", modelName, encodingError)
		}
	}
	return &Counter{modelName: modelName, encoding: encoding}, nil
}

// Name returns the model the counter was created for.
func (counter *Counter) Name() string {
	return counter.modelName
}

// CountString returns the number of tokens in text.
func (counter *Counter) CountString(text string) int {
	return len(counter.encoding.Encode(text, nil, nil))
}
