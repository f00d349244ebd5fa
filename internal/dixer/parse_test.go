package dixer

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantQuestion string
		wantAnswer   string
	}{
		{
			name:         "standard headers",
			text:         "## QUESTION\nQ_TEXT\n## ANSWER\nA_TEXT",
			wantQuestion: "Q_TEXT",
			wantAnswer:   "A_TEXT",
		},
		{
			name:         "headers with surrounding whitespace",
			text:         "## QUESTION\n\n  My question is to the Minister.  \n\n## ANSWER\n\n  I thank the member.  \n",
			wantQuestion: "My question is to the Minister.",
			wantAnswer:   "I thank the member.",
		},
		{
			name:         "no markers at all",
			text:         "Just some plain text.",
			wantQuestion: "",
			wantAnswer:   "Just some plain text.",
		},
		{
			name:         "secondary pattern",
			text:         "Question: what? Answer: that.",
			wantQuestion: "what?",
			wantAnswer:   "that.",
		},
		{
			name:         "secondary pattern is case-insensitive",
			text:         "QUESTION: what? ANSWER: that.",
			wantQuestion: "what?",
			wantAnswer:   "that.",
		},
		{
			name:         "answer label without question label falls through",
			text:         "Answer: just an answer.",
			wantQuestion: "",
			wantAnswer:   "Answer: just an answer.",
		},
		{
			// Both labels present but reversed: neither section is
			// extracted. Long-standing behavior, kept deliberately.
			name:         "labels in reverse order",
			text:         "Answer: that. Question: what?",
			wantQuestion: "",
			wantAnswer:   "",
		},
		{
			name:         "empty input",
			text:         "",
			wantQuestion: "",
			wantAnswer:   "",
		},
		{
			name:         "header split keeps only first answer section boundary",
			text:         "## QUESTION\nQ\n## ANSWER\nA1\n## ANSWER\nA2",
			wantQuestion: "Q",
			wantAnswer:   "A1\n## ANSWER\nA2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if got.Question != tt.wantQuestion {
				t.Errorf("Question = %q, want %q", got.Question, tt.wantQuestion)
			}
			if got.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", got.Answer, tt.wantAnswer)
			}
			if got.Raw != tt.text {
				t.Errorf("Raw = %q, want untouched input %q", got.Raw, tt.text)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	text := "## QUESTION\nQ\n## ANSWER\nA"
	if Parse(text) != Parse(text) {
		t.Error("Parse is not deterministic")
	}
}
