package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/coursegest/internal/images"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		jsonError(w, "image store unavailable", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	list, err := s.images.List(docID)
	if err != nil {
		s.imageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": docID,
		"images":      list,
	})
}

// handleDeleteImages drops every stored image of a document. Parsed
// records still pointing at them become dangling.
func (s *Server) handleDeleteImages(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		jsonError(w, "image store unavailable", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")
	n, err := s.images.Remove(docID)
	if err != nil {
		s.imageError(w, err)
		return
	}
	s.log.Info("deleted document images", "document_id", docID, "removed", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": docID,
		"removed":     n,
	})
}

func (s *Server) imageError(w http.ResponseWriter, err error) {
	if errors.Is(err, images.ErrNoDocumentID) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("image store error", "error", err)
	jsonError(w, "image store error", http.StatusInternalServerError)
}
