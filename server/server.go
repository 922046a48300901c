// Package server 通过 HTTP 暴露排序服务。
//
//	GET /v1/users/{userID}/recommendations?top_n=10&publish=true
//	GET /healthz
//	GET /metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/engine"
	"github.com/rushteam/vidrec/logging"
)

// RequestIDHeader 是请求 ID 的 HTTP 头。
const RequestIDHeader = "X-Request-ID"

// Options 是 HTTP 服务配置，零值字段使用默认值。
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// DefaultTopN 是未传 top_n 时的条数
	DefaultTopN int
}

type Server struct {
	engine *engine.Engine
	logger zerolog.Logger
	opts   Options
}

func New(eng *engine.Engine, logger zerolog.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = core.DefaultTopN
	}
	return &Server{engine: eng, logger: logger, opts: opts}
}

// Handler 返回路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/users/{userID}/recommendations", s.recommendations)
	})
	return r
}

// ListenAndServe 阻塞运行直到 ctx 取消，然后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestID 复用上游传入的 X-Request-ID，没有则生成，并把带 request_id 的 logger 放进 context。
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = logging.NewRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logging.WithRequest(r.Context(), s.logger, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, core.WrapDomainError(core.ModuleRequest, core.ErrorCodeInvalidInput, "request: invalid user_id", err))
		return
	}

	req := core.RankRequest{UserID: userID, TopN: s.opts.DefaultTopN}
	query := r.URL.Query()
	if v := query.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, core.WrapDomainError(core.ModuleRequest, core.ErrorCodeInvalidInput, "request: invalid top_n", err))
			return
		}
		req.TopN = n
	}
	publish, _ := strconv.ParseBool(query.Get("publish"))

	var videos []core.Video
	if publish {
		videos, err = s.engine.Deliver(r.Context(), req)
	} else {
		videos, err = s.engine.Recommend(r.Context(), req)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []core.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Module  string `json:"module,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusCode 把错误码映射为 HTTP 状态码。
func StatusCode(err error) int {
	switch {
	case core.IsInvalidInput(err):
		return http.StatusBadRequest
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case core.IsResourceExhausted(err):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	detail := errorDetail{Code: core.ErrorCodeInternalError, Message: err.Error()}
	if de := core.GetDomainError(err); de != nil {
		detail = errorDetail{Module: de.Module, Code: de.Code, Message: de.Message}
	}
	writeJSON(w, StatusCode(err), errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
