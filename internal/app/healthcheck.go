package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vk/splashload/internal/ctxlog"
)

// progressSnapshot is the JSON body of the /progress endpoint.
type progressSnapshot struct {
	Session   string `json:"session"`
	State     string `json:"state"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Current   string `json:"current"`
	Status    string `json:"status"`
}

// progressSink is a display that keeps the latest progress for the health
// server, which reads it from its own goroutines.
type progressSink struct {
	mu    sync.Mutex
	snap  progressSnapshot
	state func() string
}

func newProgressSink(session string) *progressSink {
	return &progressSink{snap: progressSnapshot{Session: session, State: "idle"}}
}

func (p *progressSink) Open(_ context.Context, total int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Total = total
	return nil
}

func (p *progressSink) SetStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Status = text
}

// SetCurrent records the display name of the component being loaded.
func (p *progressSink) SetCurrent(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Current = name
}

func (p *progressSink) SetProgress(completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Completed, p.snap.Total = completed, total
}

func (p *progressSink) Close() error { return nil }

// bindState makes snapshots report the live controller state.
func (p *progressSink) bindState(fn func() string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = fn
}

func (p *progressSink) snapshot() progressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snap
	if p.state != nil {
		snap.State = p.state()
	}
	return snap
}

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// progressHandler serves the current loading progress as JSON.
func (a *App) progressHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Progress endpoint hit.", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.progress.snapshot()); err != nil {
		logger.Error("Failed to encode progress snapshot", "error", err)
	}
}

func (a *App) healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/progress", a.progressHandler)
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (a *App) healthCheckServer() error {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Configuring health check server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return nil
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start health check server on %s: %w", addr, err)
	}

	a.httpServer = &http.Server{
		Handler:           a.healthMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

func (a *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Closing health check server...")

	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
