// Package diag serves local diagnostics for a running dashboard: health,
// Prometheus metrics, and the current view as JSON.
package diag

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/dashboard"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ViewSource supplies the current dashboard view.
type ViewSource interface {
	View() dashboard.View
}

// Server is the diagnostics HTTP server.
type Server struct {
	router   *chi.Mux
	source   ViewSource
	gatherer prometheus.Gatherer
	log      logger.Logger
}

// NewServer builds the router. gatherer may be nil, in which case /metrics
// serves the default registry.
func NewServer(source ViewSource, gatherer prometheus.Gatherer, log logger.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{
		router:   chi.NewRouter(),
		source:   source,
		gatherer: gatherer,
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/state", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Get("/charts/{id}", s.handleChart)
	})
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// chartResponse is the renderer contract for one chart.
type chartResponse struct {
	Kind   charts.Kind `json:"kind"`
	Labels []string    `json:"labels"`
	Series []float64   `json:"series"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.View())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id, err := charts.ParseChartID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": errors.Short(err)})
		return
	}
	d, ok := s.source.View().Chart(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chart not found"})
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{Kind: d.Kind, Labels: d.Labels, Series: d.Series})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Debug("%s %s -> %d in %s [%s]", r.Method, r.URL.Path, ww.Status(),
				time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve listens on addr until ctx ends, then shuts down gracefully. It
// returns once the listener is closed.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't start diagnostics server on "+addr,
			"Pick a free address for diagnostics.addr, or leave it empty to disable")
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("diagnostics listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
