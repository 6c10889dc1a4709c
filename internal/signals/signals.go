// Package signals wires the process's signal set to the serving core:
// SIGPIPE is ignored outright, SIGUSR1 triggers an out-of-band reload,
// SIGHUP reopens the log file, and SIGINT/SIGTERM drive an orderly
// shutdown. SIGUSR2/TTIN/TTOU are accepted and only logged; none of them
// changes the log level or any other state.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// Handler owns the signal channel and the hooks it drives.
type Handler struct {
	registry    *index.Registry
	defaultPath string
	onShutdown  func()
	exit        func(int)

	sigs chan os.Signal
	done chan struct{}
}

// New builds a Handler that reloads registry from defaultPath on
// SIGUSR1 and calls onShutdown once on SIGINT/SIGTERM before exiting
// the process with status -1 (spec §5: "Signal-driven exit returns
// -1"). onShutdown should be idempotent-safe to call from a signal
// goroutine; it is called exactly once.
func New(registry *index.Registry, defaultPath string, onShutdown func()) *Handler {
	return &Handler{
		registry:    registry,
		defaultPath: defaultPath,
		onShutdown:  onShutdown,
		exit:        os.Exit,
		sigs:        make(chan os.Signal, 8),
		done:        make(chan struct{}),
	}
}

// Start ignores SIGPIPE and begins handling the rest of the set on a
// background goroutine. It returns immediately.
func (h *Handler) Start() {
	signal.Ignore(syscall.SIGPIPE)

	signal.Notify(h.sigs,
		syscall.SIGINT, syscall.SIGTERM,
		syscall.SIGUSR1, syscall.SIGUSR2,
		syscall.SIGHUP,
		syscall.SIGTTIN, syscall.SIGTTOU,
	)
	go h.loop()
}

// Stop stops delivering signals to this handler.
func (h *Handler) Stop() {
	signal.Stop(h.sigs)
	close(h.done)
}

func (h *Handler) loop() {
	for {
		select {
		case <-h.done:
			return
		case sig := <-h.sigs:
			h.handle(sig)
		}
	}
}

func (h *Handler) handle(sig os.Signal) {
	switch sig {
	case syscall.SIGUSR1:
		xlog.Notef("signals: SIGUSR1 received, reloading %q", h.defaultPath)
		if err := h.registry.Reload(context.Background(), h.defaultPath); err != nil {
			xlog.Warnf("signals: reload failed: %v", err)
		}
	case syscall.SIGHUP:
		xlog.Notef("signals: SIGHUP received, reopening log")
		if err := xlog.Reopen(); err != nil {
			xlog.Warnf("signals: reopen log failed: %v", err)
		}
	case syscall.SIGINT, syscall.SIGTERM:
		xlog.Notef("signals: %v received, shutting down", sig)
		if h.onShutdown != nil {
			h.onShutdown()
		}
		time.Sleep(100 * time.Microsecond)
		if h.exit != nil {
			h.exit(-1)
		}
	case syscall.SIGUSR2, syscall.SIGTTIN, syscall.SIGTTOU:
		// Hooks only; no behavior change in the covered core.
		xlog.Debugf("signals: %v received (no-op)", sig)
	}
}
