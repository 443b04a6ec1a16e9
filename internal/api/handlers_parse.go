package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/coursegest/internal/engine"
	"github.com/dgallion1/coursegest/internal/record"
	"github.com/dgallion1/coursegest/internal/schema"
)

type parseRequest struct {
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
	TopicLabel string `json:"topic_label"`
	Format     string `json:"format"`
}

func (p parseRequest) input() engine.Input {
	return engine.Input{
		Text:       p.Text,
		Kind:       record.Kind(p.Kind),
		DocumentID: p.DocumentID,
		TopicLabel: p.TopicLabel,
		Format:     engine.Format(p.Format),
	}
}

// handleParse parses a document synchronously.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.orchestrator.Parse(r.Context(), req.input())
	if err != nil {
		s.writeParseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeParseError maps engine errors onto status codes.
func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	var decodeErr *schema.DecodeError
	switch {
	case errors.Is(err, engine.ErrUnknownKind),
		errors.Is(err, engine.ErrUnknownFormat),
		errors.Is(err, engine.ErrMissingDocumentID):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &decodeErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   decodeErr.Error(),
			"kind":    string(decodeErr.Kind),
			"snippet": decodeErr.Snippet,
		})
	default:
		s.log.Error("parse failed", "error", err)
		jsonError(w, "parse failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
