package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/hub"
	"github.com/DoyleJ11/bpl-pickems/internal/ws"
)

type Options struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	hub     *hub.Hub
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger
	router  chi.Router
}

func New(h *hub.Hub, c *catalog.Catalog, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		hub:     h,
		catalog: c,
		opts:    opts,
		logger:  opts.Logger.Named("http"),
		router:  chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/catalog", s.handleGetCatalog)

	s.router.Route("/boards", func(r chi.Router) {
		r.Post("/", s.handleCreateBoard)
		r.Route("/{code}", func(r chi.Router) {
			r.Use(middleware.Compress(5))
			r.Get("/", s.handleGetBoard)
			r.Post("/inputs", s.handlePostInput)
			r.Get("/export", s.handleExport)
		})
	})

	// The websocket handler hijacks the connection, so it stays out of Compress.
	s.router.Get("/ws", ws.Handler(s.hub, ws.Options{
		OriginPatterns: s.opts.AllowedOrigins,
		Logger:         s.opts.Logger,
	}))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
