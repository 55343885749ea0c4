// Package daemon implements the Aura daemon — the persistent event loop
// that listens for messages, infers intent, and keeps streaks honest.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aura-labs/aura/internal/channel/matrix"
	"github.com/aura-labs/aura/internal/llm"
	"github.com/aura-labs/aura/internal/tools"
	"github.com/aura-labs/aura/pkg/channel"
	"github.com/aura-labs/aura/pkg/habits"
	"github.com/aura-labs/aura/pkg/remind"
)

// Daemon is the main Aura process.
type Daemon struct {
	config    *Config
	engine    *habits.Engine
	store     habits.Store
	registry  *tools.Registry
	router    *llm.Router
	ch        channel.Channel
	scheduler *remind.Scheduler
	events    *EventBus

	// runCtx outlives per-message contexts; deferred reminders hang
	// off it so they survive the message that scheduled them.
	runCtx    context.Context
	startedAt time.Time
	healthy   bool
}

// New creates a new daemon instance.
func New(ctx context.Context, cfg *Config) (*Daemon, error) {
	store := habits.NewFileStore(cfg.StatePath)
	engine := habits.NewEngine(store)

	youtube := tools.NewYouTube(cfg.YouTube.APIKey)
	if !youtube.Configured() {
		slog.Info("no YouTube API key — research tool will serve canned answers")
	}

	var providers []llm.Provider
	if cfg.LLM.Gemini.APIKey != "" {
		gemini, err := llm.NewGemini(ctx, cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		providers = append(providers, gemini)
		slog.Info("LLM provider configured", "provider", "gemini", "model", cfg.LLM.Gemini.Model)
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		providers = append(providers, llm.NewAnthropic(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
		slog.Info("LLM provider configured", "provider", "anthropic", "model", cfg.LLM.Anthropic.Model)
	}
	if len(providers) == 0 {
		slog.Warn("no LLM providers configured — chat will be unavailable")
	}

	d := &Daemon{
		config:    cfg,
		engine:    engine,
		store:     store,
		registry:  tools.NewRegistry(engine, youtube),
		router:    llm.NewRouter(providers...),
		scheduler: remind.NewScheduler(),
		events:    NewEventBus(),
		startedAt: time.Now(),
	}

	d.ch = matrix.New(matrix.Config{
		Homeserver:   cfg.Matrix.Homeserver,
		UserID:       cfg.Matrix.UserID,
		Password:     cfg.Matrix.Password,
		ServerName:   cfg.Matrix.ServerName,
		AllowedUsers: cfg.Matrix.AllowedUsers,
		DataDir:      cfg.Matrix.DataDir,
	})

	return d, nil
}

// Run starts the daemon event loop. Blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.runCtx = ctx

	slog.Info("aura daemon running",
		"name", d.config.Name,
		"matrix", d.config.Matrix.Homeserver,
		"providers", d.router.HasProvider(),
		"state", d.config.StatePath,
	)

	// Start HTTP API in background
	go d.serveAPI(ctx)

	// Start channel listener in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting channel", "channel", d.ch.Name())
		if err := d.ch.Start(ctx, d.onMessage); err != nil {
			errCh <- err
		}
	}()

	// Mark healthy once the channel starts syncing (give it a moment)
	go func() {
		time.Sleep(2 * time.Second)
		d.healthy = true
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("channel fatal error: %w", err)
		}
	}

	d.healthy = false
	d.ch.Stop()

	slog.Info("aura daemon shutting down")
	return nil
}

// serveAPI runs the daemon's HTTP API.
// Endpoints:
//   - GET /health — health check
//   - GET /api/habits — raw state document (dashboard)
//   - GET /v1/events — SSE event stream
func (d *Daemon) serveAPI(ctx context.Context) {
	addr := d.config.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.healthy {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"status":"ok","uptime":"%s"}`, time.Since(d.startedAt).Round(time.Second))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"status":"starting"}`)
		}
	})
	mux.HandleFunc("/api/habits", d.handleHabits)
	mux.HandleFunc("/v1/events", d.handleEvents)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	slog.Info("API listening", "addr", addr, "endpoints", []string{"/health", "/api/habits", "/v1/events"})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		slog.Warn("API server error", "error", err)
	}
}

// handleHabits serves the full state document for the dashboard.
func (d *Daemon) handleHabits(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, `{"error":"method not allowed"}`)
		return
	}

	doc, err := d.store.Load()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
		return
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		slog.Warn("failed to encode habits response", "error", err)
	}
}

// handleEvents streams daemon events to dashboard clients via SSE.
func (d *Daemon) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	events, done := d.events.Subscribe()
	defer d.events.Unsubscribe(done)

	// Hydrate with recent events so new clients get context
	for _, e := range d.events.Recent(50) {
		fmt.Fprintf(w, "data: %s\n\n", e.MarshalEvent())
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", e.MarshalEvent())
			flusher.Flush()
		}
	}
}
