package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/vk/splashload/internal/component"
	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/display"
	"github.com/vk/splashload/internal/errors"
	"github.com/vk/splashload/internal/fsutil"
	"github.com/vk/splashload/internal/registry"
)

// State is the Controller lifecycle state.
type State int32

const (
	Idle State = iota
	Requesting
	Processing
	Terminating
	Closed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Processing:
		return "processing"
	case Terminating:
		return "terminating"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options tune the pacing of a run. Delays only smooth the display; zero is
// valid for all of them.
type Options struct {
	// Extension is appended to relativePath+class to locate a source.
	Extension string
	// StartupDelay is waited once by the Worker before the first item.
	StartupDelay time.Duration
	// ItemDelay is waited after each item is processed.
	ItemDelay time.Duration
	// SettleDelay is waited after the last item, before the display closes.
	SettleDelay time.Duration
	// Session identifies the run in logs and remote feeds; zero means a
	// fresh random ID.
	Session uuid.UUID
}

// DefaultOptions returns the stock pacing.
func DefaultOptions() Options {
	return Options{
		Extension:    component.DefaultExtension,
		StartupDelay: time.Second,
		ItemDelay:    10 * time.Millisecond,
		SettleDelay:  2 * time.Second,
	}
}

// Publisher receives the components constructed during a run.
type Publisher interface {
	Publish(ctx context.Context, key string, instance any) error
}

// Deps are the Controller's collaborators. All of them are required.
type Deps struct {
	Display   display.Display
	Registry  *registry.Registry
	Store     Publisher
	Files     *fsutil.Namespace
	Resources *fsutil.Namespace
}

func (d Deps) missing() []string {
	var names []string
	if d.Display == nil {
		names = append(names, "display")
	}
	if d.Registry == nil {
		names = append(names, "registry")
	}
	if d.Store == nil {
		names = append(names, "store")
	}
	if d.Files == nil {
		names = append(names, "filesystem namespace")
	}
	if d.Resources == nil {
		names = append(names, "resource namespace")
	}
	return names
}

// Controller drives a Worker through a manifest and reacts to its events.
// Apart from State, Completed and OnCompleted, its methods must be called
// from a single goroutine.
type Controller struct {
	manifest *config.Manifest
	opts     Options
	deps     Deps

	state    atomic.Int32
	progress Progress
	report   *Report

	worker      *Worker
	requests    chan struct{}
	events      chan Event
	wg          *conc.WaitGroup
	cancel      context.CancelFunc
	running     bool
	displayOpen bool
	doneSeen    bool

	completed chan struct{}
	mu        sync.Mutex
	fired     bool
	listeners []func(*Report)
}

// New creates a Controller for m. A missing manifest or collaborator is a
// dependency error.
func New(m *config.Manifest, opts Options, deps Deps) (*Controller, error) {
	missing := deps.missing()
	if m == nil {
		missing = append([]string{"manifest"}, missing...)
	}
	if len(missing) > 0 {
		return nil, errors.Dependency("loader.new", fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	if opts.Extension == "" {
		opts.Extension = component.DefaultExtension
	}

	return &Controller{
		manifest:  m,
		opts:      opts,
		deps:      deps,
		report:    newReport(opts.Session),
		worker:    NewWorker(m, opts.Extension, opts.StartupDelay, deps.Files, deps.Resources),
		requests:  make(chan struct{}, 1),
		events:    make(chan Event, 1),
		wg:        conc.NewWaitGroup(),
		completed: make(chan struct{}),
	}, nil
}

// State returns the current lifecycle state. It is safe to call from any
// goroutine.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Progress returns a copy of the progress counters.
func (c *Controller) Progress() Progress {
	return c.progress
}

// Report returns the run report. It is complete once the Controller is
// Closed.
func (c *Controller) Report() *Report {
	return c.report
}

// Completed is closed once, after the last component was processed and the
// display closed. It is never closed when the run fails.
func (c *Controller) Completed() <-chan struct{} {
	return c.completed
}

// OnCompleted registers fn to be called once on completion. If the run has
// already completed, fn is called immediately.
func (c *Controller) OnCompleted(fn func(*Report)) {
	c.mu.Lock()
	if !c.fired {
		c.listeners = append(c.listeners, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	fn(c.report)
}

// Start opens the display, launches the Worker and sends the first request.
func (c *Controller) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(Idle), int32(Requesting)) {
		return errors.Protocol("loader.start", "start called in state %s", c.State())
	}

	ctx, logger := c.withSession(ctx)
	c.progress.Total = c.manifest.Len()
	if c.progress.Total == 0 {
		c.state.Store(int32(Closed))
		return errors.Configurationf("loader.start", "manifest %s lists no components", c.manifest.Origin)
	}

	c.report.Started = time.Now()
	if err := c.deps.Display.Open(ctx, c.progress.Total); err != nil {
		c.state.Store(int32(Closed))
		return fmt.Errorf("failed to open display: %w", err)
	}
	c.displayOpen = true
	c.deps.Display.SetProgress(0, c.progress.Total)

	workerCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.wg.Go(func() {
		var pc panics.Catcher
		pc.Try(func() { c.worker.Run(workerCtx, c.requests, c.events) })
		if r := pc.Recovered(); r != nil {
			select {
			case c.events <- Fault{Err: errors.Protocol("loader.worker", "worker panicked: %v", r.Value)}:
			case <-workerCtx.Done():
			}
		}
	})

	logger.Info("Loading components.", "total", c.progress.Total, "manifest", c.manifest.Origin)
	if err := c.request(ctx); err != nil {
		return c.abort(ctx, err)
	}
	return nil
}

// Run starts the Controller if needed and processes events until the run is
// finished. It returns the report and the first fatal error.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	switch s := c.State(); s {
	case Idle:
		if err := c.Start(ctx); err != nil {
			return c.report, err
		}
	case Requesting:
	default:
		return c.report, errors.Protocol("loader.run", "run called in state %s", s)
	}

	ctx, _ = c.withSession(ctx)
	for c.State() != Closed {
		select {
		case <-ctx.Done():
			return c.report, c.abort(ctx, fmt.Errorf("loading cancelled: %w", ctx.Err()))
		case ev := <-c.events:
			if err := c.handle(ctx, ev); err != nil {
				return c.report, c.abort(ctx, err)
			}
		}
	}
	return c.report, nil
}

func (c *Controller) withSession(ctx context.Context) (context.Context, *slog.Logger) {
	return ctxlog.With(ctx, "session", c.report.Session.String())
}

func (c *Controller) handle(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case LoadItem:
		if s := c.State(); s != Requesting {
			return errors.Protocol("loader.handle", "%s received in state %s", ev, s)
		}
		c.state.Store(int32(Processing))
		if err := c.onLoadItem(ctx, ev); err != nil {
			return err
		}
		c.state.Store(int32(Requesting))
		return c.request(ctx)
	case Done:
		if c.doneSeen {
			return errors.Protocol("loader.handle", "done received twice")
		}
		if s := c.State(); s != Requesting {
			return errors.Protocol("loader.handle", "done received in state %s", s)
		}
		if !c.progress.Finished() {
			return errors.Protocol("loader.handle", "done received after %d of %d items", c.progress.Completed, c.progress.Total)
		}
		c.doneSeen = true
		return c.onDone(ctx)
	case Fault:
		return ev.Err
	default:
		return errors.Protocol("loader.handle", "unexpected event %T", ev)
	}
}

// request sends one request to the Worker. A request still pending means
// the single-flight rule was broken.
func (c *Controller) request(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("loading cancelled: %w", err)
	}
	select {
	case c.requests <- struct{}{}:
		return nil
	default:
		return errors.Protocol("loader.request", "request sent while another is in flight")
	}
}

func (c *Controller) onLoadItem(ctx context.Context, item LoadItem) error {
	if err := c.progress.Check(item.Sequence); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx).With("seq", item.Sequence, "class", item.Class)

	c.progress.Current = item.DisplayName
	display.SetCurrent(c.deps.Display, item.DisplayName)
	c.deps.Display.SetStatus(display.ItemStatus(item.DisplayName))
	logger.Debug("Loading component.", "location", item.Location, "init", item.Initialize)

	outcome, err := c.load(ctx, item)
	if errors.IsFatal(err) {
		return err
	}
	if err != nil {
		logger.Warn("Component class not found, continuing.", "location", item.Location, "error", err)
		c.report.Problems = append(c.report.Problems, err)
		c.deps.Display.SetStatus(display.ItemStatus(item.DisplayName) + " (class not found)")
	}

	if err := c.progress.Advance(item.Sequence); err != nil {
		return err
	}
	c.deps.Display.SetProgress(c.progress.Completed, c.progress.Total)
	c.report.Items = append(c.report.Items, ItemResult{
		Sequence:    item.Sequence,
		DisplayName: item.DisplayName,
		Class:       item.Class,
		Location:    item.Location,
		Outcome:     outcome,
	})
	logger.Debug("Component processed.", "outcome", outcome, "completed", c.progress.Completed, "total", c.progress.Total)

	if err := sleep(ctx, c.opts.ItemDelay); err != nil {
		return fmt.Errorf("loading cancelled: %w", err)
	}
	return nil
}

// load reads the item's source and links or constructs its class. A class
// the source or catalog does not provide yields NotFound and a non-fatal
// error wrapping errors.ErrClassNotFound.
func (c *Controller) load(ctx context.Context, item LoadItem) (Outcome, error) {
	ns := c.deps.Files
	if item.FromResource {
		ns = c.deps.Resources
	}

	exists, err := ns.Exists(item.Path)
	if err != nil {
		return 0, errors.Load("loader.source", fmt.Errorf("failed to stat component source %s: %w", item.Location, err)).WithComponent(item.Class)
	}
	if !exists {
		return 0, errors.Load("loader.source", fmt.Errorf("component source %s does not exist: %w", item.Location, fs.ErrNotExist)).WithComponent(item.Class)
	}
	data, err := ns.ReadFile(item.Path)
	if err != nil {
		return 0, errors.Load("loader.source", fmt.Errorf("failed to read component source %s: %w", item.Location, err)).WithComponent(item.Class)
	}
	src, err := component.Parse(data, item.Location)
	if err != nil {
		return 0, errors.Load("loader.source", err).WithComponent(item.Class)
	}

	if !src.Declares(item.Class) {
		return NotFound, errors.Load("loader.resolve", fmt.Errorf("%w: %s declares %v", errors.ErrClassNotFound, item.Location, src.Classes())).WithComponent(item.Class)
	}
	if _, ok := c.deps.Registry.Lookup(item.Class); !ok {
		return NotFound, errors.Load("loader.resolve", fmt.Errorf("%w: no factory is registered", errors.ErrClassNotFound)).WithComponent(item.Class)
	}
	if err := c.deps.Registry.Link(item.Class); err != nil {
		return 0, errors.Load("loader.link", err).WithComponent(item.Class)
	}
	if !item.Initialize {
		return Linked, nil
	}

	instance, err := c.deps.Registry.New(item.Class)
	if err != nil {
		return 0, errors.Load("loader.construct", err).WithComponent(item.Class)
	}
	if err := c.deps.Store.Publish(ctx, item.Class, instance); err != nil {
		return 0, errors.Load("loader.publish", err).WithComponent(item.Class)
	}
	return Initialized, nil
}

func (c *Controller) onDone(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	c.state.Store(int32(Terminating))
	logger.Debug("Manifest exhausted, stopping worker.")

	if err := c.stop(); err != nil {
		return err
	}
	if err := sleep(ctx, c.opts.SettleDelay); err != nil {
		return fmt.Errorf("loading cancelled: %w", err)
	}
	display.Complete(c.deps.Display)
	if err := c.closeDisplay(); err != nil {
		return err
	}

	c.report.Finished = time.Now()
	c.state.Store(int32(Closed))
	logger.Info("Loading completed.",
		"components", c.progress.Total,
		"initialized", c.report.Count(Initialized),
		"problems", len(c.report.Problems),
		"duration", c.report.Duration(),
	)
	c.fire()
	return nil
}

// fire closes Completed and runs the listeners, at most once.
func (c *Controller) fire() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	listeners := c.listeners
	c.listeners = nil
	close(c.completed)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(c.report)
	}
}

// abort tears the run down after a fatal error. Completed is not fired.
func (c *Controller) abort(ctx context.Context, cause error) error {
	ctxlog.FromContext(ctx).Error("Loading aborted.", "error", cause, "completed", c.progress.Completed, "total", c.progress.Total)
	c.state.Store(int32(Terminating))

	errs := []error{cause}
	if err := c.stop(); err != nil {
		errs = append(errs, err)
	}
	if err := c.closeDisplay(); err != nil {
		errs = append(errs, err)
	}
	c.report.Finished = time.Now()
	c.state.Store(int32(Closed))

	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}

// stop shuts the Worker down and waits for it.
func (c *Controller) stop() error {
	if !c.running {
		return nil
	}
	c.running = false
	close(c.requests)
	c.cancel()
	if r := c.wg.WaitAndRecover(); r != nil {
		return errors.Protocol("loader.worker", "worker panicked: %v", r.Value)
	}
	return nil
}

func (c *Controller) closeDisplay() error {
	if !c.displayOpen {
		return nil
	}
	c.displayOpen = false
	if err := c.deps.Display.Close(); err != nil {
		return fmt.Errorf("failed to close display: %w", err)
	}
	return nil
}
