package loader

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/errors"
	"github.com/vk/splashload/internal/fsutil"
)

// Worker turns manifest entries into LoadItem events, one per request.
// It never loads code and never touches the display.
type Worker struct {
	manifest     *config.Manifest
	ext          string
	startupDelay time.Duration
	files        *fsutil.Namespace
	resources    *fsutil.Namespace

	nextIndex int
	started   bool
	inFlight  atomic.Bool
}

// NewWorker creates a worker over m. files and resources are only used to
// describe item locations and may be nil.
func NewWorker(m *config.Manifest, ext string, startupDelay time.Duration, files, resources *fsutil.Namespace) *Worker {
	return &Worker{
		manifest:     m,
		ext:          ext,
		startupDelay: startupDelay,
		files:        files,
		resources:    resources,
	}
}

// Advance answers one request. It returns the next LoadItem, or Done once
// the manifest is exhausted (and on every call after that). Overlapping
// calls are a protocol violation.
func (w *Worker) Advance(ctx context.Context) (Event, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil, errors.Protocol("worker.advance", "request received while another is in flight")
	}
	defer w.inFlight.Store(false)

	if w.nextIndex >= w.manifest.Len() {
		return Done{}, nil
	}

	if !w.started {
		w.started = true
		if err := sleep(ctx, w.startupDelay); err != nil {
			return nil, err
		}
	}

	d := w.manifest.At(w.nextIndex)
	w.nextIndex++

	item := LoadItem{
		Sequence:     w.nextIndex,
		Path:         d.SourcePath(w.ext),
		Class:        d.Class,
		DisplayName:  d.DisplayName,
		Initialize:   d.Initialize,
		FromResource: d.FromResource,
	}
	item.Location = w.locate(item)
	return item, nil
}

func (w *Worker) locate(item LoadItem) string {
	ns := w.files
	if item.FromResource {
		ns = w.resources
	}
	if ns == nil {
		return item.Path
	}
	return ns.Location(item.Path)
}

// Run answers every value received on requests with exactly one event. It
// returns when requests is closed or ctx is done.
func (w *Worker) Run(ctx context.Context, requests <-chan struct{}, events chan<- Event) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "total", w.manifest.Len())
	defer logger.Debug("Worker finished.")

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-requests:
			if !ok {
				return
			}
			ev, err := w.Advance(ctx)
			if err != nil {
				ev = Fault{Err: err}
			}
			logger.Debug("Worker answering request.", "event", ev)
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
