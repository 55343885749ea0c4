// Package llm provides model provider interfaces and implementations
// for Aura's intent inference.
package llm

import "context"

// CompletionRequest holds one turn sent to a model provider.
// Aura builds the full prompt per message (system prompt + user context),
// so there is no multi-turn history here.
type CompletionRequest struct {
	// System is the system prompt (persona, tool catalogue, user context).
	System string

	// Prompt is the user's text input. Empty for voice notes.
	Prompt string

	// Audio is raw voice-note bytes. When set, AudioMIMEType must be set
	// too, and only audio-capable providers can serve the request.
	Audio         []byte
	AudioMIMEType string

	MaxTokens   int
	Temperature float64
}

// CompletionResponse holds the model's raw text reply. The reply may
// contain TOOL_CALL / TOOL_CALLS markup; extracting it is the intent
// parser's job, not the provider's.
type CompletionResponse struct {
	Content string
	Model   string
}

// Provider is the interface for model providers.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "anthropic").
	Name() string

	// SupportsAudio reports whether the provider accepts inline audio.
	SupportsAudio() bool

	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Router tries providers in order: primary first, then fallbacks.
// Requests carrying audio skip providers that cannot accept it.
type Router struct {
	providers []Provider
}

// NewRouter creates a router over the given providers, in preference order.
func NewRouter(providers ...Provider) *Router {
	return &Router{providers: providers}
}

// HasProvider reports whether any provider is configured.
func (r *Router) HasProvider() bool { return len(r.providers) > 0 }

// Complete routes the request to the first capable provider, falling
// back down the chain on error.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for _, p := range r.providers {
		if len(req.Audio) > 0 && !p.SupportsAudio() {
			continue
		}
		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoProvider
}

// ErrNoProvider is returned when no configured provider can serve a request.
var ErrNoProvider = &ProviderError{Message: "no capable provider configured"}

// ProviderError represents a model provider error.
type ProviderError struct {
	Message    string
	StatusCode int
	Provider   string
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return e.Provider + ": " + e.Message
	}
	return e.Message
}
