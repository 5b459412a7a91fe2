package stream

import "strings"

type respState int

const (
	respAwaitingActions respState = iota
	respStreaming
	respSuppressing
	respDone
)

const (
	actionsOpenTag  = "<actions>"
	actionsCloseTag = "</actions>"
	textOpenTag     = "<text>"
	textCloseTag    = "</text>"
)

// ResponseExtractor streams the <text> content of a response envelope, but
// only when the envelope's <actions> value is exactly the single action
// REPLY (case-insensitive). Any other action set, zero actions, or a <text>
// tag that opens before <actions> has closed disables streaming for the
// turn: the text is consumed but never emitted. The envelope contract puts
// <actions> before <text>; when the source violates that ordering the
// extractor deliberately stays conservative instead of guessing.
type ResponseExtractor struct {
	buf   string
	state respState
	inner *TagExtractor
}

// NewResponseExtractor creates an extractor in its pre-decision state.
func NewResponseExtractor() *ResponseExtractor {
	return &ResponseExtractor{}
}

// Push appends the chunk and returns any newly streamable text content.
func (e *ResponseExtractor) Push(chunk string) string {
	switch e.state {
	case respDone:
		return ""
	case respStreaming:
		return e.pushInner(chunk)
	case respSuppressing:
		return e.consumeSuppressed(chunk)
	}

	// Pre-decision: buffer until the complete <actions> element is
	// available. Preceding content (e.g. a <thought> block) accumulates
	// here and is never emitted.
	e.buf += chunk

	closeIdx := strings.Index(e.buf, actionsCloseTag)
	textIdx := strings.Index(e.buf, textOpenTag)

	if textIdx >= 0 && (closeIdx < 0 || textIdx < closeIdx) {
		// <text> opened before <actions> closed: the strategy cannot be
		// determined, so streaming stays off for this turn.
		rest := e.buf
		e.buf = ""
		e.state = respSuppressing
		return e.consumeSuppressed(rest)
	}

	if closeIdx < 0 {
		return ""
	}

	openIdx := strings.Index(e.buf[:closeIdx], actionsOpenTag)
	rest := e.buf[closeIdx+len(actionsCloseTag):]
	var actions string
	if openIdx >= 0 {
		actions = e.buf[openIdx+len(actionsOpenTag) : closeIdx]
	}
	e.buf = ""

	if openIdx >= 0 && replyOnly(actions) {
		e.state = respStreaming
		e.inner = NewTagExtractor("text")
		return e.pushInner(rest)
	}

	e.state = respSuppressing
	return e.consumeSuppressed(rest)
}

// Done reports whether the turn's text content has been fully consumed.
func (e *ResponseExtractor) Done() bool { return e.state == respDone }

// Reset restores the pre-decision state so the instance can be reused
// across response turns.
func (e *ResponseExtractor) Reset() {
	e.buf = ""
	e.state = respAwaitingActions
	e.inner = nil
}

func (e *ResponseExtractor) pushInner(chunk string) string {
	out := e.inner.Push(chunk)
	if e.inner.Done() {
		e.state = respDone
	}
	return out
}

// consumeSuppressed tracks the <text> element without emitting it, flipping
// to done once the closing tag has been seen.
func (e *ResponseExtractor) consumeSuppressed(chunk string) string {
	e.buf += chunk
	if strings.Contains(e.buf, textCloseTag) {
		e.buf = ""
		e.state = respDone
	}
	return ""
}

// replyOnly reports whether the trimmed, comma separated actions value is
// exactly the single action REPLY, case-insensitively.
func replyOnly(actions string) bool {
	items := strings.Split(strings.TrimSpace(actions), ",")
	return len(items) == 1 && strings.EqualFold(strings.TrimSpace(items[0]), "reply")
}
