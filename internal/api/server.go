package api

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/dgallion1/coursegest/internal/config"
	"github.com/dgallion1/coursegest/internal/images"
	"github.com/dgallion1/coursegest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ImageStore exposes a document's stored images.
type ImageStore interface {
	List(docID string) ([]images.StoredImage, error)
	Remove(docID string) (int, error)
	Root() string
}

// Server is the HTTP API server for coursegest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	images       ImageStore
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. A nil store disables
// the image endpoints.
func NewServer(orch *pipeline.Orchestrator, store ImageStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		images:       store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.images != nil {
		prefix := "/" + path.Clean(s.cfg.ImagePublicPrefix)
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.images.Root())))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)
		r.Get("/api/stats/parse", s.handleParseStats)

		r.Get("/api/documents/{docID}/images", s.handleListImages)
		r.Delete("/api/documents/{docID}/images", s.handleDeleteImages)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
