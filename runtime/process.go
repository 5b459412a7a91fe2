package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/internal/util"
	"github.com/animus-ai/animus/stream"
)

// recentMessageCount bounds the transcript included in prompts.
const recentMessageCount = 20

// ProcessOptions configure a single message processing run.
type ProcessOptions struct {
	// OnChunk receives user-visible response text as it streams. Chunks are
	// gated through the response extractor: only <text> content of a pure
	// REPLY response is forwarded.
	OnChunk func(chunk string)
	// ModelType overrides the model class used for the response.
	ModelType core.ModelType
}

// ProcessMessage runs the full pipeline for one inbound message: persist,
// compose context from providers and recent conversation, generate a
// response, execute selected actions, run evaluators and persist the reply.
// The returned memory is the persisted response.
func (r *Runtime) ProcessMessage(ctx context.Context, msg *core.Memory, optFns ...func(o *ProcessOptions)) (*core.Memory, error) {
	opts := ProcessOptions{ModelType: core.ModelTextLarge}
	for _, fn := range optFns {
		fn(&opts)
	}
	if msg == nil {
		return nil, fmt.Errorf("message is required")
	}
	if msg.ID == "" {
		msg.ID = core.NewID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.AgentID = r.agentID

	if _, err := r.rooms.Ensure(msg.RoomID); err != nil {
		return nil, fmt.Errorf("ensure room: %w", err)
	}
	if err := r.rooms.AddParticipant(msg.RoomID, msg.EntityID); err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	if err := r.memories.Create(msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	r.EmitEvent(ctx, core.EventRunStarted, core.EventPayload{Message: msg})
	r.EmitEvent(ctx, core.EventMessageReceived, core.EventPayload{Message: msg})

	raw, err := r.generate(ctx, msg, opts)
	if err != nil {
		r.EmitEvent(ctx, core.EventRunEnded, core.EventPayload{Message: msg, Err: err})
		return nil, err
	}

	content := ParseResponse(raw)
	content.InReplyTo = msg.ID
	content.Source = msg.Content.Source

	r.runActions(ctx, msg, &content)

	response := &core.Memory{
		ID:        core.NewID(),
		EntityID:  r.agentID,
		AgentID:   r.agentID,
		RoomID:    msg.RoomID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.memories.Create(response); err != nil {
		return nil, fmt.Errorf("persist response: %w", err)
	}
	r.EmitEvent(ctx, core.EventMessageSent, core.EventPayload{Message: msg, Response: response})

	r.runEvaluators(ctx, msg, response)

	r.EmitEvent(ctx, core.EventRunEnded, core.EventPayload{Message: msg, Response: response})
	return response, nil
}

// generate composes the prompt and drives the model, streaming extracted
// text to the chunk callback when one is set. It returns the full raw model
// output for parsing.
func (r *Runtime) generate(ctx context.Context, msg *core.Memory, opts ProcessOptions) (string, error) {
	providerText := r.runProviders(ctx, msg)

	recent, err := r.memories.GetByRoom(msg.RoomID, recentMessageCount)
	if err != nil {
		r.logger.Warn("recent message lookup failed: %v", err)
	}
	transcript := formatTranscript(r.character.Name, recent)

	prompt, err := renderPrompt(r.composeState(providerText, transcript))
	if err != nil {
		return "", fmt.Errorf("compose prompt: %w", err)
	}

	call := core.ModelCall{Prompt: prompt, System: r.character.System}

	if opts.OnChunk == nil {
		return r.UseModel(ctx, opts.ModelType, call)
	}

	chunks, errs := r.UseModelStream(ctx, opts.ModelType, call)
	extractor := stream.NewResponseExtractor()
	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
		if out := extractor.Push(chunk); out != "" {
			opts.OnChunk(out)
		}
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return full.String(), nil
}

// runProviders executes the static providers in position order and joins
// their context fragments.
func (r *Runtime) runProviders(ctx context.Context, msg *core.Memory) string {
	var parts []string
	for _, p := range r.composeProviders() {
		res, err := p.Get(ctx, r, msg)
		if err != nil {
			r.logger.Warn("provider %s failed: %v", p.Name, err)
			continue
		}
		if res != nil && res.Text != "" {
			parts = append(parts, res.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// runActions executes every non-REPLY action named in the parsed content.
// Unknown actions and validation failures are logged and skipped; a
// successful handler with result text appends it to the response.
func (r *Runtime) runActions(ctx context.Context, msg *core.Memory, content *core.Content) {
	for _, name := range content.Actions {
		if strings.EqualFold(name, "REPLY") {
			continue
		}
		action := r.findAction(name)
		if action == nil {
			r.logger.Warn("no registered action matches %q", name)
			continue
		}
		if action.Validate != nil {
			ok, err := action.Validate(ctx, r, msg)
			if err != nil {
				r.logger.Warn("action %s validate failed: %v", action.Name, err)
				continue
			}
			if !ok {
				r.logger.Debug("action %s not applicable", action.Name)
				continue
			}
		}
		if action.Parameters != nil && content.Metadata != nil {
			if err := util.ValidateParameters(content.Metadata, action.Parameters); err != nil {
				r.logger.Warn("action %s parameter validation failed: %v", action.Name, err)
				continue
			}
		}

		r.EmitEvent(ctx, core.EventActionStarted, core.EventPayload{Message: msg, ActionName: action.Name})
		start := time.Now()
		result, err := action.Handler(ctx, r, msg)
		r.EmitEvent(ctx, core.EventActionCompleted, core.EventPayload{Message: msg, ActionName: action.Name, Err: err})
		if err != nil {
			r.logger.Error("action %s failed after %s: %v", action.Name, time.Since(start), err)
			continue
		}
		r.logger.Debug("action %s completed in %s", action.Name, time.Since(start))
		if result != nil && result.Success && result.Text != "" {
			if content.Text != "" {
				content.Text += "\n"
			}
			content.Text += result.Text
		}
	}
}

// runEvaluators runs all registered evaluators against the exchange.
// AlwaysRun evaluators bypass their Validate gate.
func (r *Runtime) runEvaluators(ctx context.Context, msg, response *core.Memory) {
	for _, e := range r.allEvaluators() {
		if !e.AlwaysRun && e.Validate != nil {
			ok, err := e.Validate(ctx, r, msg)
			if err != nil || !ok {
				continue
			}
		}
		if e.Handler == nil {
			continue
		}
		if err := e.Handler(ctx, r, msg, response); err != nil {
			r.logger.Warn("evaluator %s failed: %v", e.Name, err)
		}
	}
}
