package loader

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is what happened to one manifest item.
type Outcome int

const (
	// Linked means the class was found and made instantiable.
	Linked Outcome = iota + 1
	// Initialized means the class was found, constructed and published.
	Initialized
	// NotFound means the source loaded but did not provide the class.
	NotFound
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Linked:
		return "linked"
	case Initialized:
		return "initialized"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// ItemResult records one processed LoadItem.
type ItemResult struct {
	Sequence    int
	DisplayName string
	Class       string
	Location    string
	Outcome     Outcome
}

// Report summarises a loading run.
type Report struct {
	Session uuid.UUID
	Items   []ItemResult
	// Problems holds the recoverable errors met during the run, each
	// wrapping errors.ErrClassNotFound.
	Problems []error
	Started  time.Time
	Finished time.Time
}

func newReport(session uuid.UUID) *Report {
	if session == uuid.Nil {
		session = uuid.New()
	}
	return &Report{Session: session}
}

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Count returns how many items ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}
