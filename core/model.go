package core

import "context"

// ModelType categorizes registered model handlers by capability class.
type ModelType string

const (
	// ModelTextSmall selects a fast, inexpensive text generation handler.
	ModelTextSmall ModelType = "TEXT_SMALL"
	// ModelTextLarge selects the primary text generation handler.
	ModelTextLarge ModelType = "TEXT_LARGE"
)

// ModelCall captures the normalized input handed to a model handler.
type ModelCall struct {
	Prompt        string
	System        string
	Temperature   float64
	MaxTokens     int
	StopSequences []string
	Params        map[string]any
}

// ModelHandler produces text for a call as an ordered sequence of chunks.
// Non-streaming providers emit a single chunk and close. The concatenation
// of all chunks equals the full response text; errors terminate the stream.
type ModelHandler func(ctx context.Context, rt Runtime, call ModelCall) (<-chan string, <-chan error)

// EventType identifies a runtime lifecycle or message notification.
type EventType string

const (
	// EventRunStarted fires when a message processing run begins.
	EventRunStarted EventType = "RUN_STARTED"
	// EventRunEnded fires when a message processing run completes.
	EventRunEnded EventType = "RUN_ENDED"
	// EventMessageReceived fires when an inbound message has been persisted.
	EventMessageReceived EventType = "MESSAGE_RECEIVED"
	// EventMessageSent fires after a response memory has been persisted.
	EventMessageSent EventType = "MESSAGE_SENT"
	// EventActionStarted fires before an action handler executes.
	EventActionStarted EventType = "ACTION_STARTED"
	// EventActionCompleted fires after an action handler returns.
	EventActionCompleted EventType = "ACTION_COMPLETED"
)

// EventPayload carries the context of an emitted event. Fields are populated
// as applicable to the event type.
type EventPayload struct {
	Source     string
	Message    *Memory
	Response   *Memory
	ActionName string
	Err        error
	Extra      map[string]any
}

// EventHandler reacts to an emitted runtime event. Handlers for one event
// type run sequentially in registration order; a handler error is logged and
// does not stop dispatch.
type EventHandler func(ctx context.Context, rt Runtime, payload EventPayload) error
