package stream

import "strings"

type tagState int

const (
	tagSeeking tagState = iota
	tagInside
	tagDone
)

// TagExtractor streams the content of a single XML style tag. Text before
// the opening tag and after the closing tag is discarded; content between
// the tags is emitted progressively. Tags split across chunk boundaries are
// handled by holding back any buffered suffix that could still be part of
// the closing tag.
type TagExtractor struct {
	open  string
	close string
	buf   string
	state tagState
}

// NewTagExtractor creates an extractor for <tag>...</tag>.
func NewTagExtractor(tag string) *TagExtractor {
	return &TagExtractor{open: "<" + tag + ">", close: "</" + tag + ">"}
}

// Push appends the chunk and returns any newly emittable tag content.
func (e *TagExtractor) Push(chunk string) string {
	if e.state == tagDone {
		return ""
	}

	e.buf += chunk

	if e.state == tagSeeking {
		idx := strings.Index(e.buf, e.open)
		if idx < 0 {
			// The opening tag may still arrive split across chunks.
			return ""
		}
		e.buf = e.buf[idx+len(e.open):]
		e.state = tagInside
	}

	if idx := strings.Index(e.buf, e.close); idx >= 0 {
		out := e.buf[:idx]
		e.buf = ""
		e.state = tagDone
		return out
	}

	// Stream progressively, retaining any suffix that is a prefix of the
	// closing tag so split tags never leak into the output.
	hold := tagPrefixOverlap(e.buf, e.close)
	out := e.buf[:len(e.buf)-hold]
	e.buf = e.buf[len(e.buf)-hold:]
	return out
}

// Done reports whether the closing tag has been consumed.
func (e *TagExtractor) Done() bool { return e.state == tagDone }

// Reset returns the extractor to its initial state.
func (e *TagExtractor) Reset() {
	e.buf = ""
	e.state = tagSeeking
}

// tagPrefixOverlap returns the length of the longest proper prefix of tag
// that is also a suffix of buf.
func tagPrefixOverlap(buf, tag string) int {
	max := len(tag) - 1
	if max > len(buf) {
		max = len(buf)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(buf, tag[:n]) {
			return n
		}
	}
	return 0
}
