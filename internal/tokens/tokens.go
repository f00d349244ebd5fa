// Package tokens estimates prompt token counts for request logging. The
// upstream budget is computed from the requested word count, not from this
// estimate; this exists so logs show how large prompts actually are.
package tokens

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

const charsPerToken = 4

// Estimator counts tokens using the o200k_base encoding, which is the
// closest match for the models OpenRouter serves here. When the tokenizer
// is unavailable it falls back to a characters/4 approximation.
type Estimator struct {
	once  sync.Once
	codec tokenizer.Codec
}

// NewEstimator creates a new token estimator. The underlying tokenizer is
// loaded lazily on first use.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Count returns the estimated token count for text.
func (e *Estimator) Count(text string) int {
	e.once.Do(func() {
		codec, err := tokenizer.Get(tokenizer.O200kBase)
		if err == nil {
			e.codec = codec
		}
	})

	if e.codec == nil {
		return len(text) / charsPerToken
	}

	ids, _, err := e.codec.Encode(text)
	if err != nil {
		return len(text) / charsPerToken
	}
	return len(ids)
}
