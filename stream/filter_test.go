package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffFilter_JSONNeverStreams(t *testing.T) {
	input := `{"text":"secret","actions":["REPLY"]}`

	for _, chunks := range splitVariants(input) {
		f := NewSniffFilter()
		assert.Equal(t, "", collect(f, chunks), "chunks: %q", chunks)
		assert.False(t, f.Done())
	}
}

func TestSniffFilter_JSONArrayNeverStreams(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "", f.Push(`[{"a":1}]`))
	assert.Equal(t, "", f.Push("trailing"))
}

func TestSniffFilter_JSONLeadingWhitespaceDropped(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "", f.Push("  \n\t"))
	assert.Equal(t, "", f.Push(`{"k":"v"}`))
}

func TestSniffFilter_XMLStreamsTextTag(t *testing.T) {
	input := "<response><text>X</text></response>"

	for _, chunks := range splitVariants(input) {
		f := NewSniffFilter()
		assert.Equal(t, "X", collect(f, chunks), "chunks: %q", chunks)
		assert.True(t, f.Done())
	}
}

func TestSniffFilter_XMLDiscardsOutsideText(t *testing.T) {
	f := NewSniffFilter()
	out := f.Push("<response><thought>t</thought><text>shown</text><post>p</post></response>")
	assert.Equal(t, "shown", out)
}

func TestSniffFilter_PlainTextStreamsImmediately(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "Hello", f.Push("Hello"))
	assert.Equal(t, " world", f.Push(" world"))
	assert.False(t, f.Done())
}

func TestSniffFilter_PlainTextKeepsLeadingWhitespace(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "", f.Push("  \n"))
	assert.Equal(t, "  \nHello", f.Push("Hello"))
	assert.Equal(t, "!", f.Push("!"))
}

func TestSniffFilter_DigitsAndPunctuationArePlain(t *testing.T) {
	for _, lead := range []string{"42 things", "(parens)", "- dash", "éaccent"} {
		f := NewSniffFilter()
		assert.Equal(t, lead, f.Push(lead), "input %q", lead)
	}
}

func TestSniffFilter_PushAfterXMLDone(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "X", f.Push("<text>X</text>"))
	assert.True(t, f.Done())
	assert.Equal(t, "", f.Push("<text>more</text>"))
}

func TestSniffFilter_Reset(t *testing.T) {
	f := NewSniffFilter()
	assert.Equal(t, "", f.Push(`{"json":true}`))
	f.Reset()
	assert.Equal(t, "plain again", f.Push("plain again"))
}
