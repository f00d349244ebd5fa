// Package web serves the HTML pages and the generation endpoints. It parses
// and validates user input, then hands validated requests to the dixer core
// and renders (or streams) whatever comes back.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/collinsgpt/collinsgpt/internal/config"
	"github.com/collinsgpt/collinsgpt/internal/dixer"
	"github.com/collinsgpt/collinsgpt/internal/server"
)

// pageTimeout bounds the non-streaming routes. The SSE route is exempt; the
// generator enforces its own upstream deadline there.
const pageTimeout = 3 * time.Minute

type Handler struct {
	gen    *dixer.Generator
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(gen *dixer.Generator, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{gen: gen, cfg: cfg, logger: logger, now: time.Now}
}

// Routes mounts all pages and endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(server.TimeoutMiddleware(pageTimeout))
		r.Get("/", h.Dashboard)
		r.Get("/dixer-writer", h.DixerWriter)
		r.Post("/dixer-writer", h.DixerWriter)
	})
	r.Post("/dixer-writer/stream", h.DixerWriterStream)
}

// greeting returns a time-appropriate salutation for the dashboard.
func (h *Handler) greeting() string {
	switch hour := h.now().Hour(); {
	case hour < 12:
		return "Good Morning"
	case hour < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// moduleCard describes one tool on the dashboard. URL is empty for tools
// that are not built yet.
type moduleCard struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Color       string
	URL         string
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Greeting string
		Modules  []moduleCard
	}{
		Greeting: h.greeting(),
		Modules: []moduleCard{
			{
				ID:          "dixer-writer",
				Title:       "Question Time Dixer Writer",
				Description: "Generates friendly constituency questions for backbenchers to ask during Question Time.",
				Icon:        "bi-mic-fill",
				Color:       "primary",
				URL:         "/dixer-writer",
			},
			{
				ID:          "hot-issues",
				Title:       "Hot Issues Brief Updater",
				Description: "Scans the latest news to update the daily briefing notes on emerging issues.",
				Icon:        "bi-newspaper",
				Color:       "info",
			},
		},
	}
	h.render(w, "dashboard.html", data)
}

// dixerPage is the template payload for the dixer writer page.
type dixerPage struct {
	Form      formInput
	Result    *dixer.Result
	Error     string
	Models    []modelChoice
	MinWords  int
	MaxWords  int
	Streaming bool
}

// DixerWriter renders the form on GET and runs a blocking generation on
// POST. Browsers with JavaScript use the stream endpoint instead; this path
// keeps the tool usable without it.
func (h *Handler) DixerWriter(w http.ResponseWriter, r *http.Request) {
	page := dixerPage{
		Form:     formInput{WordCount: "200", Strategy: string(dixer.StrategyGoodNews)},
		Models:   modelChoices,
		MinWords: minWordCount,
		MaxWords: maxWordCount,
	}

	if !h.cfg.CredentialConfigured() {
		page.Error = dixer.ErrCredentialMissing.Error()
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		page.Form = formInput{
			WordCount:  json.Number(r.PostFormValue("word_count")),
			Topic:      r.PostFormValue("topic"),
			MemberName: r.PostFormValue("member_name"),
			Electorate: r.PostFormValue("electorate"),
			Strategy:   r.PostFormValue("strategy"),
			Model:      r.PostFormValue("model"),
		}

		result, err := h.gen.Generate(r.Context(), page.Form.toRequest())
		if err != nil {
			server.AddError(r.Context(), err)
			page.Error = err.Error()
		} else {
			page.Result = result
		}
	}

	h.render(w, "dixer_writer.html", page)
}

// DixerWriterStream accepts a JSON body and streams generation progress as
// server-sent events. Validation failures arrive as error events on the
// stream itself, so the response is always 200 with an event payload.
func (h *Handler) DixerWriterStream(w http.ResponseWriter, r *http.Request) {
	var input formInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	// Tell nginx (and friends) not to buffer the event stream.
	w.Header().Set("X-Accel-Buffering", "no")

	for ev := range h.gen.Stream(r.Context(), input.toRequest()) {
		if ev.Err != nil {
			server.AddError(r.Context(), ev.Err)
		}
		if _, err := w.Write(dixer.EncodeSSE(ev)); err != nil {
			// Client went away; the range drains as the generator winds down.
			return
		}
		flusher.Flush()
	}
}
