package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/network"
	"deskmate-server/internal/version"
	"deskmate-server/pkg/api"
	"deskmate-server/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// ObjectStore редактирует мебель. Маршруты /api/objects подключаются, только если он передан.
type ObjectStore interface {
	UpsertObject(obj domain.RoomObject) engine.Snapshot
	RemoveObject(id string) (engine.Snapshot, error)
}

// Server отдает навигационный сервис по HTTP и websocket.
type Server struct {
	nav          *engine.NavigationService
	pub          *network.Publisher
	objects      ObjectStore
	port         string
	maxPathCells int
	log          *logrus.Entry
}

func New(nav *engine.NavigationService, pub *network.Publisher, objects ObjectStore, cfg engine.ServerConfig) *Server {
	return &Server{
		nav:          nav,
		pub:          pub,
		objects:      objects,
		port:         cfg.Port,
		maxPathCells: cfg.MaxPathCells,
		log:          logger.For("server"),
	}
}

// Router строит таблицу маршрутов. Открыт для httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/approach", s.handleApproach)
		r.Post("/path", s.handlePath)
		r.Post("/reachable", s.handleReachable)
		r.Post("/convert", s.handleConvert)
		r.Post("/nearest", s.handleNearest)
		if s.objects != nil {
			r.Put("/objects/{id}", s.handlePutObject)
			r.Delete("/objects/{id}", s.handleDeleteObject)
		}
	})

	r.Route("/debug", func(r chi.Router) {
		r.Get("/obstacles", s.handleObstacles)
		r.Get("/schema/{name}", s.handleSchema)
		r.Mount("/pprof", middleware.Profiler())
	})

	return r
}

// Run обслуживает запросы до отмены ctx, затем аккуратно останавливается.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("DeskMate navigation server running on :%s", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Фронтенд в разработке живет на другом origin.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start),
			}).Debug("http request")
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, version.Info())
}

// respondJSON пишет data со статусом. Nil-слайс уходит как [], а не null.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("encode response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Log.WithError(err).Error("request failed")
	}
	respondJSON(w, status, api.ErrorResponse{Error: err.Error()})
}
