// Package api provides the HTTP REST API server for finvizlite.
//
// Every ticker request fetches the quote page once and extracts the
// requested sections from it. Nothing is cached between requests.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/finvizlite/internal/config"
	"github.com/seenimoa/finvizlite/internal/finviz"
	"github.com/seenimoa/finvizlite/internal/recorder"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

// Version is reported by /health. Set by the CLI at startup.
var Version = "dev"

// Source is what the server needs from the finviz client.
type Source interface {
	finviz.Fetcher
	CurrentPrice(ctx context.Context, ticker string) (string, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	src    Source
	rec    recorder.Recorder
	log    *logrus.Entry
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, src Source, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	srv := &Server{
		cfg: cfg,
		src: src,
		rec: recorder.NewNoopRecorder(),
		log: log.WithField("component", "api"),
	}
	srv.router = srv.buildRouter()
	return srv
}

// SetRecorder records every section the server extracts.
func (s *Server) SetRecorder(rec recorder.Recorder) {
	s.rec = rec
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT/SIGTERM or when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * s.cfg.Finviz.Timeout(),
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/tickers/{ticker}", func(r chi.Router) {
			r.Get("/price", s.handlePrice)
			r.Get("/fundamentals", s.withSession(s.fundamentals))
			r.Get("/description", s.withSession(s.description))
			r.Get("/ratings", s.withSession(s.ratings))
			r.Get("/news", s.withSession(s.news))
			r.Get("/full", s.withSession(s.full))
			r.Get("/chart", s.handleChart)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	return r
}

// requestLogger logs one line per request through logrus.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(start).Round(time.Millisecond),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PriceResponse is the body of GET /tickers/{ticker}/price.
type PriceResponse struct {
	Ticker       string   `json:"ticker"`
	Price        string   `json:"price"`
	Value        *float64 `json:"value,omitempty"`
	MarketStatus string   `json:"market_status"`
}

// DescriptionResponse is the body of GET /tickers/{ticker}/description.
type DescriptionResponse struct {
	Ticker      string `json:"ticker"`
	Description string `json:"description"`
}

// ChartResponse is the body of GET /tickers/{ticker}/chart.
type ChartResponse struct {
	Ticker    string `json:"ticker"`
	Timeframe string `json:"timeframe"`
	Type      string `json:"type"`
	URL       string `json:"url"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":        "ok",
			"version":       Version,
			"market_status": utils.MarketStatus(),
			"time_et":       utils.FormatDateTimeET(utils.NowET()),
		},
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Finviz.Timeout())
	defer cancel()

	price, err := s.src.CurrentPrice(ctx, ticker)
	if err != nil {
		s.fail(w, ticker, err)
		return
	}

	resp := PriceResponse{Ticker: ticker, Price: price, MarketStatus: utils.MarketStatus()}
	if v, err := finviz.Normalize(price); err == nil {
		resp.Value = &v
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	tf := queryOr(r, "timeframe", s.cfg.Chart.Timeframe)
	ct := queryOr(r, "type", s.cfg.Chart.Type)
	u, err := finviz.ChartURL(s.src.BaseURL(), ticker, finviz.Timeframe(tf), finviz.ChartType(ct))
	if err != nil {
		s.fail(w, ticker, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ChartResponse{Ticker: ticker, Timeframe: tf, Type: ct, URL: u},
	})
}

// sessionHandler extracts one response body from a fetched session.
type sessionHandler func(r *http.Request, sess *finviz.Session) (interface{}, error)

// withSession fetches the quote page for the {ticker} parameter and hands the
// session to h.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticker := chi.URLParam(r, "ticker")

		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Finviz.Timeout())
		defer cancel()

		sess, err := finviz.NewSession(ctx, s.src, ticker)
		if err != nil {
			s.fail(w, ticker, err)
			return
		}
		sess.SetLogger(s.log.Logger)

		data, err := h(r, sess)
		if err != nil {
			s.fail(w, sess.Ticker(), err)
			return
		}
		if err := recorder.RecordInfo(s.rec, sess.Info()); err != nil {
			s.log.WithError(err).WithField("ticker", sess.Ticker()).Warn("record snapshot failed")
		}
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
	}
}

func (s *Server) fundamentals(r *http.Request, sess *finviz.Session) (interface{}, error) {
	raw, err := boolQuery(r, "raw", s.cfg.Output.Raw)
	if err != nil {
		return nil, err
	}
	return sess.Fundamentals(raw)
}

func (s *Server) description(_ *http.Request, sess *finviz.Session) (interface{}, error) {
	d, err := sess.Description()
	if err != nil {
		return nil, err
	}
	return DescriptionResponse{Ticker: sess.Ticker(), Description: d}, nil
}

func (s *Server) ratings(_ *http.Request, sess *finviz.Session) (interface{}, error) {
	return sess.Ratings()
}

func (s *Server) news(_ *http.Request, sess *finviz.Session) (interface{}, error) {
	return sess.News()
}

func (s *Server) full(r *http.Request, sess *finviz.Session) (interface{}, error) {
	raw, err := boolQuery(r, "raw", s.cfg.Output.Raw)
	if err != nil {
		return nil, err
	}
	return sess.FullInfo(raw)
}

// ============================================================
// Helpers
// ============================================================

// statusFor maps scraper errors to HTTP status codes.
func statusFor(err error) int {
	var (
		ve *finviz.ValidationError
		le *finviz.LayoutError
		he *finviz.HTTPError
	)
	switch {
	case errors.Is(err, finviz.ErrTickerNotFound), errors.Is(err, finviz.ErrSectionMissing):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &le), errors.As(err, &he):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, ticker string, err error) {
	status := statusFor(err)
	entry := s.log.WithError(err).WithFields(logrus.Fields{"ticker": ticker, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Warn("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeError(w, status, err.Error())
}

// tickerParam normalizes and validates the {ticker} parameter, writing a 400
// when it is unusable.
func tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "ticker")
	ticker := utils.NormalizeTicker(raw)
	if !utils.IsValidTicker(ticker) {
		writeError(w, http.StatusBadRequest, (&finviz.ValidationError{Field: "ticker", Value: raw}).Error())
		return "", false
	}
	return ticker, true
}

func queryOr(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func boolQuery(r *http.Request, key string, def bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &finviz.ValidationError{Field: key, Value: v}
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
