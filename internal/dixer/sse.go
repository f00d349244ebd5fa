package dixer

import "encoding/json"

// Wire payloads for the browser-facing SSE frames. The field shapes are a
// contract with the frontend JavaScript; do not change them.
type chunkPayload struct {
	Chunk string `json:"chunk"`
}

type donePayload struct {
	Done     bool   `json:"done"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// EncodeSSE renders an event as one SSE frame: `data: <JSON>\n\n`.
// The Raw field of a parsed result is never transmitted.
func EncodeSSE(ev Event) []byte {
	var payload any
	switch {
	case ev.Err != nil:
		payload = errorPayload{Error: ev.Err.Error()}
	case ev.Done != nil:
		payload = donePayload{Done: true, Question: ev.Done.Question, Answer: ev.Done.Answer}
	default:
		payload = chunkPayload{Chunk: ev.Chunk}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain strings and a bool; marshalling cannot fail.
		data = []byte(`{"error":"internal encoding error"}`)
	}

	frame := make([]byte, 0, len(data)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, data...)
	frame = append(frame, '\n', '\n')
	return frame
}
