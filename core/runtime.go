package core

import (
	"context"

	"github.com/animus-ai/animus/logging"
)

// Runtime is the surface plugin capabilities program against. The concrete
// implementation lives in the runtime package; core only defines the
// contract so plugins avoid depending on orchestration internals.
type Runtime interface {
	// AgentID returns the stable identifier of the running agent.
	AgentID() string
	// Character returns the persona definition the runtime was built from.
	Character() *Character
	// Logger returns the runtime logger.
	Logger() logging.Logger

	// Setting resolves a configuration value, consulting character secrets
	// before settings.
	Setting(key string) (any, bool)

	// RegisterModel adds a model handler for a type. Selection prefers the
	// highest priority; ties resolve to the earliest registration.
	RegisterModel(mt ModelType, provider string, priority int, h ModelHandler)
	// RegisterAction, RegisterProvider and RegisterEvaluator add capabilities
	// outside plugin declaration, typically from a plugin's Init.
	RegisterAction(a *Action)
	RegisterProvider(p *Provider)
	RegisterEvaluator(e *Evaluator)

	// UseModel drains the selected handler and returns the full text.
	UseModel(ctx context.Context, mt ModelType, call ModelCall) (string, error)
	// UseModelStream returns the selected handler's chunk stream directly.
	UseModelStream(ctx context.Context, mt ModelType, call ModelCall) (<-chan string, <-chan error)

	// EmitEvent dispatches to all handlers registered for the event type.
	EmitEvent(ctx context.Context, et EventType, payload EventPayload)

	// Memories, Rooms and Attachments expose the configured stores.
	Memories() MemoryStore
	Rooms() RoomStore
	Attachments() AttachmentStore
}
