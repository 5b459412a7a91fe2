package stream

// Extractor consumes ordered chunks of model output and emits the portion
// that should be shown to the user.
//
// Push returns the text that became emittable with this chunk, possibly
// empty while the extractor is still deciding. Once Done reports true,
// further Push calls return "" and do not re-enter extraction logic; this
// makes extractors safe to call from loosely coordinated consumer loops.
// Reset returns the extractor to its initial state for reuse across turns.
type Extractor interface {
	Push(chunk string) string
	Done() bool
	Reset()
}

// Passthrough emits every chunk unchanged and never completes. Used when no
// extraction or filtering is desired.
type Passthrough struct{}

// Push returns the chunk unmodified.
func (Passthrough) Push(chunk string) string { return chunk }

// Done always reports false.
func (Passthrough) Done() bool { return false }

// Reset is a no-op.
func (Passthrough) Reset() {}
