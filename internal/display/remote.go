package display

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/splashload/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events emitted to a remote monitor.
const (
	EventOpen      = "loader:open"
	EventProgress  = "loader:progress"
	EventCompleted = "loader:completed"
	EventAborted   = "loader:aborted"
)

// RemoteOptions configures the socket.io feed.
type RemoteOptions struct {
	URL                string
	Namespace          string
	Session            string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// emitter is the part of *socket.Socket the feed uses.
type emitter interface {
	Emit(ev string, args ...any) error
	Id() string
	Disconnect() *socket.Socket
}

// Remote mirrors progress to a socket.io monitor, e.g. a web splash page.
// A run ends with loader:completed only after Complete; any other Close
// ends it with loader:aborted.
type Remote struct {
	client  emitter
	session string
	logger  *slog.Logger

	status    string
	completed bool
}

// DialRemote connects to the monitor and waits for the connection to be
// established.
func DialRemote(ctx context.Context, opts RemoteOptions) (*Remote, error) {
	logger := ctxlog.FromContext(ctx).With("display", "remote", "url", opts.URL)
	logger.Debug("Connecting to remote monitor...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse remote monitor URL: %w", err)
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to remote monitor", "sid", io.Id())
		offer(connectChan, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		offer(connectChan, err)
	})
	io.Connect()

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	return newRemote(io, opts.Session, logger), nil
}

// offer delivers the first connection outcome. Later outcomes are dropped
// since nothing reads the channel after DialRemote returns.
func offer(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func newRemote(client emitter, session string, logger *slog.Logger) *Remote {
	return &Remote{client: client, session: session, logger: logger}
}

// Open announces the run.
func (r *Remote) Open(ctx context.Context, total int) error {
	r.status = InitialStatus
	r.completed = false
	r.emit(EventOpen, map[string]any{"session": r.session, "total": total})
	return nil
}

// SetStatus implements Display. The status travels with the next progress
// event.
func (r *Remote) SetStatus(text string) {
	r.status = text
}

// SetProgress implements Display.
func (r *Remote) SetProgress(completed, total int) {
	r.emit(EventProgress, progressPayload(r.session, completed, total, r.status))
}

// Complete marks the run as successful; the next Close reports completion.
func (r *Remote) Complete() {
	r.completed = true
}

// Close announces the end of the run and disconnects.
func (r *Remote) Close() error {
	if r.completed {
		r.emit(EventCompleted, map[string]any{"session": r.session})
	} else {
		r.emit(EventAborted, map[string]any{"session": r.session, "status": r.status})
	}
	r.logger.Debug("Disconnecting from remote monitor", "sid", r.client.Id())
	r.client.Disconnect()
	return nil
}

func (r *Remote) emit(ev string, payload map[string]any) {
	if err := r.client.Emit(ev, payload); err != nil {
		r.logger.Warn("Failed to emit to remote monitor", "event", ev, "error", err)
	}
}

func progressPayload(session string, completed, total int, status string) map[string]any {
	return map[string]any{
		"session":   session,
		"completed": completed,
		"total":     total,
		"status":    status,
	}
}
