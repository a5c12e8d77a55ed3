package preview

import "sync/atomic"

// Sequencer hands out increasing generations so a caller can tell whether a
// completed preview still belongs to the latest request.
type Sequencer struct {
	current atomic.Uint64
}

// Next starts a new request and returns its generation.
func (sequencer *Sequencer) Next() uint64 {
	return sequencer.current.Add(1)
}

// Current returns the generation of the latest request.
func (sequencer *Sequencer) Current() uint64 {
	return sequencer.current.Load()
}

// IsCurrent reports whether generation is still the latest request.
func (sequencer *Sequencer) IsCurrent(generation uint64) bool {
	return generation == sequencer.current.Load()
}
