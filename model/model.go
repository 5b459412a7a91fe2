package model

import (
	"context"
	"fmt"

	"github.com/animus-ai/animus/core"
)

// Message is a single conversational turn handed to a provider.
type Message struct {
	Role string `json:"role"` // user, assistant, system
	Text string `json:"text"`
}

// Request captures the normalized model input produced by the runtime.
type Request struct {
	System        string    `json:"system,omitempty"`
	Messages      []Message `json:"messages"`
	Temperature   float64   `json:"temperature,omitempty"`
	MaxTokens     int64     `json:"max_tokens,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	Stream        bool      `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
// Partial responses carry incremental text; the final response carries the
// full accumulated text plus the finish reason.
type Response struct {
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive text generation.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// HandlerFor bridges a Model into a core.ModelHandler so plugins can
// register providers in the runtime's model table. The handler requests a
// streaming generation and forwards partial text chunks; when a provider
// only emits a final response, that full text is forwarded as one chunk.
func HandlerFor(m Model) core.ModelHandler {
	return func(ctx context.Context, _ core.Runtime, call core.ModelCall) (<-chan string, <-chan error) {
		out := make(chan string, 16)
		errCh := make(chan error, 1)

		go func() {
			defer close(out)
			defer close(errCh)

			req := Request{
				System:        call.System,
				Messages:      []Message{{Role: "user", Text: call.Prompt}},
				Temperature:   call.Temperature,
				MaxTokens:     int64(call.MaxTokens),
				StopSequences: call.StopSequences,
				Stream:        true,
			}

			respCh, errs := m.Generate(ctx, req)
			streamed := false
			for resp := range respCh {
				if resp.Partial {
					if resp.Text != "" {
						streamed = true
						select {
						case <-ctx.Done():
							errCh <- ctx.Err()
							return
						case out <- resp.Text:
						}
					}
					continue
				}
				// The final response aggregates everything already streamed;
				// forward it only when no partials were seen.
				if !streamed && resp.Text != "" {
					select {
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					case out <- resp.Text:
					}
				}
			}
			if err := <-errs; err != nil {
				errCh <- err
			}
		}()

		return out, errCh
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; emits optional streaming rune chunks then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		input := req.Messages[len(req.Messages)-1].Text
		full := m.responses[input]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", input)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}
		respCh <- Response{Text: full, FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
