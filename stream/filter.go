package stream

import (
	"strings"
	"unicode"
)

type sniffState int

const (
	sniffPending sniffState = iota
	sniffJSON
	sniffXML
	sniffPlain
)

// SniffFilter classifies handler generated text by its first non-whitespace
// character and filters the remainder of the stream accordingly:
//
//   - '{' or '[': JSON. Never streamed; partial JSON must not reach users.
//   - '<': XML. Delegates to TagExtractor("text") semantics.
//   - anything else: plain text. Streamed unmodified from that point on,
//     including the buffered leading whitespace.
//
// The first classification holds for the whole stream.
type SniffFilter struct {
	state sniffState
	buf   string
	inner *TagExtractor
}

// NewSniffFilter creates a filter in its sniffing state.
func NewSniffFilter() *SniffFilter {
	return &SniffFilter{}
}

// Push appends the chunk and returns whatever the classification allows out.
func (f *SniffFilter) Push(chunk string) string {
	switch f.state {
	case sniffJSON:
		return ""
	case sniffXML:
		return f.inner.Push(chunk)
	case sniffPlain:
		return chunk
	}

	f.buf += chunk
	idx := strings.IndexFunc(f.buf, func(r rune) bool { return !unicode.IsSpace(r) })
	if idx < 0 {
		// Only whitespace so far; keep buffering until something decides
		// the content type.
		return ""
	}

	switch f.buf[idx] {
	case '{', '[':
		f.state = sniffJSON
		f.buf = ""
		return ""
	case '<':
		f.state = sniffXML
		f.inner = NewTagExtractor("text")
		pending := f.buf
		f.buf = ""
		return f.inner.Push(pending)
	default:
		f.state = sniffPlain
		out := f.buf
		f.buf = ""
		return out
	}
}

// Done reports completion only in XML mode, mirroring the inner extractor.
func (f *SniffFilter) Done() bool {
	return f.state == sniffXML && f.inner.Done()
}

// Reset clears the classification and buffered state for reuse.
func (f *SniffFilter) Reset() {
	f.state = sniffPending
	f.buf = ""
	f.inner = nil
}
