package dixer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/collinsgpt/collinsgpt/internal/api/openrouter"
	"github.com/collinsgpt/collinsgpt/internal/tokens"
)

const (
	defaultTimeout = 120 * time.Second
	temperature    = 0.7
)

// These messages are shown verbatim in the UI, hence the sentence casing.
var (
	ErrTopicRequired     = errors.New("Please provide a topic or announcement.")
	ErrCredentialMissing = errors.New("OpenRouter API key not configured. Please set OPENROUTER_API_KEY environment variable.")
)

// Event is one element of a generation stream. Zero or more Chunk events are
// followed by exactly one terminal event: either Done or Err, never both.
// Nothing follows a terminal event.
type Event struct {
	Chunk string
	Done  *Result
	Err   error
}

// GeneratorConfig is the immutable configuration for a Generator.
type GeneratorConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	// Timeout bounds one whole upstream generation, so a stalled upstream
	// cannot hang a stream forever.
	Timeout time.Duration
}

// GeneratorOption configures the generator.
type GeneratorOption func(*Generator)

// WithHTTPClient sets a custom HTTP client for upstream calls.
func WithHTTPClient(httpClient *http.Client) GeneratorOption {
	return func(g *Generator) {
		g.httpClient = httpClient
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator produces dixer generation streams. Each call to Stream owns its
// accumulation buffer exclusively; concurrent streams share nothing mutable.
type Generator struct {
	client     *openrouter.Client
	cfg        GeneratorConfig
	httpClient *http.Client
	logger     *slog.Logger
	estimator  *tokens.Estimator
}

// NewGenerator creates a generator from an immutable config.
func NewGenerator(cfg GeneratorConfig, opts ...GeneratorOption) *Generator {
	g := &Generator{
		cfg:       cfg,
		logger:    slog.Default(),
		estimator: tokens.NewEstimator(),
	}
	if g.cfg.Timeout <= 0 {
		g.cfg.Timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(g)
	}

	var clientOpts []openrouter.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, openrouter.WithBaseURL(cfg.BaseURL))
	}
	if g.httpClient != nil {
		clientOpts = append(clientOpts, openrouter.WithHTTPClient(g.httpClient))
	}
	g.client = openrouter.NewClient(cfg.APIKey, clientOpts...)
	return g
}

// Stream runs one generation and returns a lazy, single-pass channel of
// events. Fragments are forwarded in upstream arrival order as they arrive.
// Cancelling ctx (the downstream client disconnecting) stops upstream reads
// and releases the connection.
func (g *Generator) Stream(ctx context.Context, req Request) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		g.run(ctx, req, out)
	}()
	return out
}

func (g *Generator) run(ctx context.Context, req Request, out chan<- Event) {
	emit := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if strings.TrimSpace(req.Topic) == "" {
		emit(Event{Err: ErrTopicRequired})
		return
	}
	if g.cfg.APIKey == "" {
		emit(Event{Err: ErrCredentialMissing})
		return
	}

	model := req.Model
	if model == "" {
		model = g.cfg.DefaultModel
	}

	pair := BuildPrompt(req)
	budget := MaxTokens(req.WordCount)

	g.logger.Debug("starting generation",
		slog.String("model", model),
		slog.Int("max_tokens", budget),
		slog.Int("prompt_tokens_est", g.estimator.Count(pair.System)+g.estimator.Count(pair.User)),
	)

	upstreamCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	temp := float32(temperature)
	stream, err := g.client.StreamChatCompletion(upstreamCtx, &openrouter.ChatCompletionRequest{
		Model: model,
		Messages: []openrouter.ChatCompletionMessage{
			{Role: "system", Content: pair.System},
			{Role: "user", Content: pair.User},
		},
		Temperature: &temp,
		MaxTokens:   budget,
	})
	if err != nil {
		emit(Event{Err: err})
		return
	}

	// On early return, cancelling the request context unblocks the client's
	// reader goroutine; draining lets it exit and close the channel.
	defer func() {
		cancel()
		for range stream {
		}
	}()

	var full strings.Builder
	for result := range stream {
		if result.Err != nil {
			emit(Event{Err: result.Err})
			return
		}
		if len(result.Chunk.Choices) == 0 {
			continue
		}
		content := result.Chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		full.WriteString(content)
		if !emit(Event{Chunk: content}) {
			return
		}
	}

	parsed := Parse(full.String())
	g.logger.Info("generation complete",
		slog.String("model", model),
		slog.Int("response_chars", len(parsed.Raw)),
	)
	emit(Event{Done: &parsed})
}

// Generate runs one generation to completion without streaming. Used by the
// plain form-POST path for clients without JavaScript.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrTopicRequired
	}
	if g.cfg.APIKey == "" {
		return nil, ErrCredentialMissing
	}

	model := req.Model
	if model == "" {
		model = g.cfg.DefaultModel
	}

	pair := BuildPrompt(req)

	upstreamCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	temp := float32(temperature)
	resp, err := g.client.CreateChatCompletion(upstreamCtx, &openrouter.ChatCompletionRequest{
		Model: model,
		Messages: []openrouter.ChatCompletionMessage{
			{Role: "system", Content: pair.System},
			{Role: "user", Content: pair.User},
		},
		Temperature: &temp,
		MaxTokens:   MaxTokens(req.WordCount),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("upstream returned no choices")
	}

	parsed := Parse(resp.Choices[0].Message.Content)
	return &parsed, nil
}
