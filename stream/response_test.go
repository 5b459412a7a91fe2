package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseExtractor_ReplyStreams(t *testing.T) {
	e := NewResponseExtractor()
	out := e.Push("<actions>REPLY</actions><text>Hi</text>")
	assert.Equal(t, "Hi", out)
	assert.True(t, e.Done())
}

func TestResponseExtractor_NonReplySuppressed(t *testing.T) {
	e := NewResponseExtractor()
	out := e.Push("<actions>SEARCH</actions><text>Hi</text>")
	assert.Equal(t, "", out)
	assert.True(t, e.Done())
}

func TestResponseExtractor_MultipleActionsSuppressed(t *testing.T) {
	e := NewResponseExtractor()
	out := e.Push("<actions>REPLY,SEARCH</actions><text>Hi</text>")
	assert.Equal(t, "", out)
	assert.True(t, e.Done())
}

func TestResponseExtractor_ReplyCaseAndWhitespace(t *testing.T) {
	e := NewResponseExtractor()
	out := e.Push("<actions>  reply \n</actions><text>ok</text>")
	assert.Equal(t, "ok", out)
}

func TestResponseExtractor_EmptyActionsSuppressed(t *testing.T) {
	e := NewResponseExtractor()
	out := e.Push("<actions></actions><text>Hi</text>")
	assert.Equal(t, "", out)
	assert.True(t, e.Done())
}

func TestResponseExtractor_SplitChunkEquivalence(t *testing.T) {
	input := "<thought>considering</thought><actions>REPLY</actions><text>Hello there!</text>"
	want := "Hello there!"

	for _, chunks := range splitVariants(input) {
		e := NewResponseExtractor()
		assert.Equal(t, want, collect(e, chunks), "chunks: %q", chunks)
		assert.True(t, e.Done())
	}
}

func TestResponseExtractor_SuppressedSplitChunks(t *testing.T) {
	input := "<actions>SEARCH,REPLY</actions><text>secret</text>"

	for _, chunks := range splitVariants(input) {
		e := NewResponseExtractor()
		assert.Equal(t, "", collect(e, chunks), "chunks: %q", chunks)
		assert.True(t, e.Done())
	}
}

func TestResponseExtractor_ThoughtBlockNotStreamed(t *testing.T) {
	e := NewResponseExtractor()
	assert.Equal(t, "", e.Push("<thought>a very long deliberation "))
	assert.Equal(t, "", e.Push("that keeps going</thought>"))
	assert.Equal(t, "", e.Push("<actions>REPLY</actions>"))
	assert.Equal(t, "Hi", e.Push("<text>Hi</text>"))
	assert.True(t, e.Done())
}

func TestResponseExtractor_TextBeforeActionsSuppressed(t *testing.T) {
	// The envelope contract puts <actions> before <text>; when <text> shows
	// up first the strategy is undeterminable and nothing streams.
	e := NewResponseExtractor()
	out := e.Push("<text>early</text><actions>REPLY</actions>")
	assert.Equal(t, "", out)
	assert.True(t, e.Done())
}

func TestResponseExtractor_TextOpensBeforeActionsCloses(t *testing.T) {
	e := NewResponseExtractor()
	var out string
	out += e.Push("<actions>REP")
	out += e.Push("<text>Hi</text>LY</actions>")
	assert.Equal(t, "", out)
}

func TestResponseExtractor_IncrementalTextStreaming(t *testing.T) {
	e := NewResponseExtractor()
	assert.Equal(t, "", e.Push("<actions>REPLY</actions><text>"))
	assert.Equal(t, "Hello ", e.Push("Hello "))
	assert.Equal(t, "world", e.Push("world"))
	assert.False(t, e.Done())
	assert.Equal(t, "", e.Push("</text>"))
	assert.True(t, e.Done())
}

func TestResponseExtractor_PushAfterDone(t *testing.T) {
	e := NewResponseExtractor()
	assert.Equal(t, "Hi", e.Push("<actions>REPLY</actions><text>Hi</text>"))
	assert.True(t, e.Done())
	assert.Equal(t, "", e.Push("<text>more</text>"))
	assert.True(t, e.Done())
}

func TestResponseExtractor_ResetForReuse(t *testing.T) {
	e := NewResponseExtractor()
	assert.Equal(t, "", e.Push("<actions>IGNORE</actions><text>no</text>"))
	assert.True(t, e.Done())

	e.Reset()
	assert.False(t, e.Done())
	assert.Equal(t, "yes", e.Push("<actions>reply</actions><text>yes</text>"))
	assert.True(t, e.Done())
}
