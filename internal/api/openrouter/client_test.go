package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func collectResults(t *testing.T, stream <-chan StreamResult) []StreamResult {
	t.Helper()
	var got []StreamResult
	timeout := time.After(10 * time.Second)
	for {
		select {
		case res, ok := <-stream:
			if !ok {
				return got
			}
			got = append(got, res)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestStreamChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Path; got != "/chat/completions" {
			t.Errorf("path = %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		f := w.(http.Flusher)
		// Keep-alive comment lines must be skipped, not treated as data.
		fmt.Fprint(w, ": OPENROUTER PROCESSING\n\n")
		for _, content := range []string{"Hello", " world"} {
			payload, _ := json.Marshal(ChatCompletionChunk{
				Choices: []ChunkChoice{{Delta: ChunkDelta{Content: content}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			f.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		f.Flush()
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	stream, err := c.StreamChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "test/model",
		Messages: []ChatCompletionMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamChatCompletion() error = %v", err)
	}

	results := collectResults(t, stream)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	var text string
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected stream error: %v", res.Err)
		}
		text += res.Chunk.Choices[0].Delta.Content
	}
	if text != "Hello world" {
		t.Errorf("accumulated = %q", text)
	}
}

func TestStreamChatCompletion_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","code":429}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.StreamChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want API error message", err)
	}
}

func TestStreamChatCompletion_ErrorStatusNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.StreamChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Errorf("err = %v, want status in message", err)
	}
}

func TestStreamChatCompletion_MalformedChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {broken\n\n")
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	stream, err := c.StreamChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("StreamChatCompletion() error = %v", err)
	}

	results := collectResults(t, stream)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("results = %+v, want single error result", results)
	}
}

func TestCreateChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("blocking call must not set stream")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []Choice{{Message: ChatCompletionMessage{Role: "assistant", Content: "done"}}},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error = %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "done" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestParseErrorResponse(t *testing.T) {
	apiErr, err := ParseErrorResponse([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
	if err != nil || apiErr == nil || apiErr.Message != "nope" {
		t.Errorf("ParseErrorResponse = %+v, %v", apiErr, err)
	}

	apiErr, err = ParseErrorResponse([]byte(`{"ok":true}`))
	if err != nil || apiErr != nil {
		t.Errorf("non-error envelope should yield nil, nil; got %+v, %v", apiErr, err)
	}

	if _, err := ParseErrorResponse([]byte("not json")); err == nil {
		t.Error("invalid JSON should error")
	}
}
