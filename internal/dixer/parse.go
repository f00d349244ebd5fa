package dixer

import "strings"

const (
	questionHeader = "## QUESTION"
	answerHeader   = "## ANSWER"
)

// Result is the structured form of a finished generation.
type Result struct {
	Question string
	Answer   string
	// Raw is the untouched accumulated text, kept for display/debugging.
	Raw string
}

// Parse splits a finished generation into question and answer sections.
// It never fails; with no recognizable structure the whole text becomes the
// answer. Priority order:
//
//  1. Both ## QUESTION and ## ANSWER headers present: split once on
//     ## ANSWER.
//  2. Case-insensitive "question:" before "answer:" labels.
//  3. Everything is the answer.
//
// When both labels appear but "answer:" comes first, the result is left
// empty apart from Raw. That asymmetry is long-standing behavior the
// frontend relies on, so it is kept as is.
func Parse(text string) Result {
	result := Result{Raw: text}

	if strings.Contains(text, questionHeader) && strings.Contains(text, answerHeader) {
		parts := strings.SplitN(text, answerHeader, 2)
		result.Question = strings.TrimSpace(strings.ReplaceAll(parts[0], questionHeader, ""))
		if len(parts) > 1 {
			result.Answer = strings.TrimSpace(parts[1])
		}
		return result
	}

	lower := strings.ToLower(text)
	qIdx := strings.Index(lower, "question:")
	aIdx := strings.Index(lower, "answer:")
	if qIdx >= 0 && aIdx >= 0 {
		if qIdx < aIdx {
			result.Question = strings.TrimSpace(text[qIdx+len("question:") : aIdx])
			result.Answer = strings.TrimSpace(text[aIdx+len("answer:"):])
		}
		return result
	}

	result.Answer = text
	return result
}
