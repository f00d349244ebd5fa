// Package dixer generates parliamentary "Dorothy Dixer" question and answer
// pairs by streaming completions from the OpenRouter API. A Dorothy Dixer is
// a pre-arranged friendly question that lets a minister present favorable
// information during Question Time.
package dixer

import (
	"fmt"
	"strings"
)

// Strategy selects the rhetorical template for the generated answer.
type Strategy string

const (
	// StrategyGoodNews closes the answer with positive reinforcement.
	StrategyGoodNews Strategy = "option_a"
	// StrategyContrast closes the answer with a contrast/attack framing.
	StrategyContrast Strategy = "option_b"
)

// ParseStrategy maps a form value to a Strategy. Unrecognized values fall
// back to StrategyContrast, matching the two-way branch the tool has always
// had: anything that is not option_a gets the contrast template.
func ParseStrategy(s string) Strategy {
	if s == string(StrategyGoodNews) {
		return StrategyGoodNews
	}
	return StrategyContrast
}

// Request carries the validated user input for one generation.
type Request struct {
	Topic      string
	WordCount  int
	Strategy   Strategy
	MemberName string
	Electorate string
	Model      string
}

// PromptPair is the system and user instruction sent upstream. Built fresh
// per request and never mutated.
type PromptPair struct {
	System string
	User   string
}

// systemPrompt describes the output format and style rules. The ## QUESTION
// and ## ANSWER headers it mandates are what Parse splits on.
const systemPrompt = `You are an expert parliamentary speechwriter for the Australian Federal Government. Your task is to draft 'Dorothy Dixer' questions and ministerial answers following strict style guidelines.

### Guidance for Drafting 'Dorothy Dixer' Questions and Answers
**Model: Friendly Government Question & Minister Collins Style Response**

**1. The Structure of the Question**
* **Constraint:** No arguments or imputations. Must ask *about* policy.
* **Option A (Good News):**
  1. Address: "My question is to the Minister for [Portfolio]."
  2. Setup: "How is the Albanese Labor government [positive verb] [policy area]?"
  3. Link: "Why is this important for [specific group]?"
* **Option B (Contrast):**
  1. Address: "My question is to the Minister for [Portfolio]."
  2. Setup: "How is the Albanese Labor government delivering [policy outcome]?"
  3. Trigger: "How does this differ from other approaches?" (Keep neutral).

**2. The Structure of the Answer (Minister Collins Style)**
* **Phase 1: The Personal Praise (Mandatory):**
  * If the Member's name and electorate are provided: "I want to thank the terrific member for [Electorate]. She/He is a terrific representative who is always out there engaging with [stakeholders]..."
  * If the Member's name/electorate are NOT provided: Use placeholder text exactly as written: "I want to thank the member for [ELECTORATE] for their question." (Keep the brackets so it can be filled in later)
* **Phase 2: The Action Body:** Pivot to government action. Keywords: "Careful and considered," "restoring our place," "working night and day."
* **Phase 3: The Closing:**
  * If Option A: Reiterate benefits ("real and tangible benefits").
  * If Option B: Attack the Opposition ("cleaning up the mess," "reckless arrogance").

**Output Format:**
You must structure your response with clear sections:
1. First output the QUESTION (what the backbencher will ask)
2. Then output the ANSWER (what Minister Collins will respond)

Use these exact headers:
## QUESTION
[The question text]

## ANSWER
[The answer text]

**IMPORTANT - Formatting:**
- Break the ANSWER into multiple short paragraphs (3-5 sentences each) for readability.
- Use a blank line between each paragraph.
- Structure the answer with clear visual breaks between:
 1. The personal praise opening
 2. Each major policy point or action
 3. The closing statement
- This makes it easier for the Minister to read and deliver naturally.`

// BuildPrompt assembles the prompt pair for a request. Pure: no I/O, and
// deterministic for identical input.
func BuildPrompt(req Request) PromptPair {
	var strategyText string
	switch req.Strategy {
	case StrategyGoodNews:
		strategyText = "Option A: Good News (Positive)"
	default:
		// Includes StrategyContrast and anything unrecognized.
		strategyText = "Option B: Contrast (Attack)"
	}

	var memberInfo string
	if req.MemberName != "" && req.Electorate != "" {
		memberInfo = fmt.Sprintf(`**Member Asking:** %s

**Member's Electorate:** %s

Please personalise the answer with specific praise for this member and their electorate.`, req.MemberName, req.Electorate)
	} else {
		memberInfo = `**Member Asking:** Not specified

**Member's Electorate:** Not specified

Since the member is not specified, use placeholder text in the answer opening: "I want to thank the member for [ELECTORATE] for their question." Keep the brackets as a placeholder to be filled in later.`
	}

	strategyName, _, _ := strings.Cut(strategyText, ":")

	user := fmt.Sprintf(`Please draft a Dorothy Dixer question and ministerial answer with the following details:

**Topic/Announcement:** %s

%s

**Strategy:** %s

**Target Answer Length:** Approximately %d words for the answer (the question can be shorter, but aim for around %d words in the Minister's answer).

Generate a parliamentary question following the %s structure, and a Minister Collins-style answer.`,
		req.Topic, memberInfo, strategyText, req.WordCount, req.WordCount, strategyName)

	return PromptPair{System: systemPrompt, User: user}
}

// MaxTokens computes the upstream token budget for a target answer length.
// Words expand to roughly 1.3-1.5 tokens, so doubling plus headroom for the
// question and formatting is generous; the cap bounds cost and latency.
func MaxTokens(wordCount int) int {
	return min(wordCount*2+500, 4000)
}
