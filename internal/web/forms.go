package web

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/collinsgpt/collinsgpt/internal/dixer"
)

const (
	minWordCount     = 100
	maxWordCount     = 400
	defaultWordCount = 200
)

// modelChoices is the fixed list offered in the form. The first entry is the
// fallback for anything unrecognized.
var modelChoices = []modelChoice{
	{ID: "anthropic/claude-sonnet-4.5", Label: "Claude Sonnet 4.5"},
	{ID: "google/gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	{ID: "openai/gpt-5-mini", Label: "GPT-5 Mini"},
	{ID: "openai/gpt-5.1", Label: "GPT-5.1"},
}

type modelChoice struct {
	ID    string
	Label string
}

// formInput holds raw user input from either the HTML form or the JSON body
// of the stream endpoint, before normalization.
type formInput struct {
	// json.Number so the JSON body may carry the count as a number or a
	// string; the HTML form always submits a string.
	WordCount  json.Number `json:"word_count"`
	Topic      string      `json:"topic"`
	MemberName string      `json:"member_name"`
	Electorate string      `json:"electorate"`
	Strategy   string      `json:"strategy"`
	Model      string      `json:"model"`
}

// toRequest normalizes raw input into a generation request: word count
// clamped to [100,400], strings trimmed, strategy and model defaulted.
// Topic emptiness is deliberately not rejected here; the generator reports
// it as a terminal error event so both entry points share one message.
func (f formInput) toRequest() dixer.Request {
	wc := defaultWordCount
	if n, err := strconv.Atoi(strings.TrimSpace(string(f.WordCount))); err == nil && n != 0 {
		wc = n
	}
	if wc < minWordCount {
		wc = minWordCount
	}
	if wc > maxWordCount {
		wc = maxWordCount
	}

	return dixer.Request{
		Topic:      strings.TrimSpace(f.Topic),
		WordCount:  wc,
		Strategy:   dixer.ParseStrategy(strings.TrimSpace(f.Strategy)),
		MemberName: strings.TrimSpace(f.MemberName),
		Electorate: strings.TrimSpace(f.Electorate),
		Model:      validModel(strings.TrimSpace(f.Model)),
	}
}

func validModel(id string) string {
	for _, m := range modelChoices {
		if m.ID == id {
			return id
		}
	}
	return ""
}
