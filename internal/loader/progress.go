package loader

import (
	"github.com/vk/splashload/internal/errors"
)

// Progress is the Controller's view of a loading run.
type Progress struct {
	Completed int
	Total     int
	// Current is the display name of the item being processed.
	Current string
}

// Check verifies that seq is the next sequence number.
func (p *Progress) Check(seq int) error {
	if seq != p.Completed+1 {
		return errors.Protocol("loader.progress", "received sequence %d, expected %d", seq, p.Completed+1)
	}
	if seq > p.Total {
		return errors.Protocol("loader.progress", "sequence %d exceeds total %d", seq, p.Total)
	}
	return nil
}

// Advance moves Completed to seq. Anything other than the next sequence
// number is a protocol violation and leaves p unchanged.
func (p *Progress) Advance(seq int) error {
	if err := p.Check(seq); err != nil {
		return err
	}
	p.Completed = seq
	return nil
}

// Finished reports whether every item has been processed.
func (p *Progress) Finished() bool {
	return p.Total > 0 && p.Completed == p.Total
}
