// Package admin implements the HTTP monitoring/operations surface: a
// single GET handler on "/" dispatching on opt=get|reload, rendering
// minimal HTML, layered over the same query/reload entry points the
// binary protocol and signals use, plus a Prometheus /metrics endpoint.
package admin

import (
	"context"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pombredanne/prefix-match-server/internal/audit"
	"github.com/pombredanne/prefix-match-server/internal/config"
	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/internal/query"
	"github.com/pombredanne/prefix-match-server/internal/server"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// Server is the admin HTTP server.
type Server struct {
	cfg      config.Settings
	registry *index.Registry
	dict     *romanize.Dictionary
	metrics  *server.Metrics
	audit    *audit.Logger
	router   *mux.Router
	http     *http.Server
}

// New builds the admin server bound to cfg.MonitorPort. registry is
// queried directly (no lock duplication: Registry itself is already
// safe for concurrent use alongside the binary-protocol server). log
// may be nil when auditing is disabled.
func New(cfg config.Settings, registry *index.Registry, dict *romanize.Dictionary, metrics *server.Metrics, log *audit.Logger) *Server {
	s := &Server{cfg: cfg, registry: registry, dict: dict, metrics: metrics, audit: log}

	promReg := prometheus.NewRegistry()
	registerMetrics(promReg, metrics)

	var rootHandler http.Handler = http.HandlerFunc(s.handleRoot)
	if cfg.Extra.JWT.Enabled {
		rootHandler = s.requireBearerForReload(rootHandler)
	}

	s.router = mux.NewRouter()
	s.router.Handle("/", rootHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var handler http.Handler = s.router
	handler = handlers.CustomLoggingHandler(io.Discard, handler, s.logRequest)
	handler = handlers.CompressHandler(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)
	handler = handlers.CORS(
		handlers.AllowedMethods([]string{"GET"}),
		handlers.AllowedOrigins([]string{"*"}))(handler)

	timeout := time.Duration(cfg.MonitorTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.MonitorPort),
		Handler:      handler,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	return s
}

func (s *Server) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	xlog.Debugf("admin: %s %s (%d, %dms)", params.Request.Method, params.URL.RequestURI(),
		params.StatusCode, time.Since(params.TimeStamp).Milliseconds())
}

// ListenAndServe starts the admin HTTP server and blocks until it is
// shut down or fails to bind.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("admin: listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve runs the admin HTTP server on an already-bound listener, for
// tests that need a known, ephemeral port.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the admin HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleRoot is the single GET entry point spec §4.10/§6 describe:
// opt=get|reload plus operation-specific parameters, minimal HTML
// responses, layered over the same query/reload entry points the
// binary protocol and signals use.
func (s *Server) handleRoot(rw http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("opt") {
	case "reload":
		s.handleReload(rw, r)
	default:
		s.handleQuery(rw, r)
	}
}

func (s *Server) handleQuery(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxNumber, _ := strconv.Atoi(q.Get("number"))
	text := q.Get("key")
	names := query.Run(s.dict, s.registry, s.cfg.MaxDepth, maxNumber, text)
	s.audit.Log(audit.Event{Time: time.Now(), Query: text, Results: len(names), RemoteAddr: r.RemoteAddr})

	// LookupMiss (empty letters or zero hits) is a success with no
	// content, not an error (spec §7).
	if len(names) == 0 {
		rw.WriteHeader(http.StatusNoContent)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(rw, "<ul>\n")
	for _, name := range names {
		fmt.Fprintf(rw, "<li>%s</li>\n", html.EscapeString(name))
	}
	fmt.Fprint(rw, "</ul>\n")
}

func (s *Server) handleReload(rw http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("indexpath")
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.registry.Reload(r.Context(), path); err != nil {
		rw.WriteHeader(http.StatusConflict)
		fmt.Fprintf(rw, "<p>reload failed: %s</p>\n", html.EscapeString(err.Error()))
		return
	}
	s.metrics.ReloadCompleted()
	fmt.Fprintf(rw, "<p>reloaded from %s</p>\n", html.EscapeString(s.registry.ActivePath()))
}
