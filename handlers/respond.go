package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apperrors "noto/errors"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// writeError maps err to a status and short message. Server-side failures
// are logged with the request id; their details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg, details := apperrors.StatusAndMessage(err)
	if status >= http.StatusInternalServerError {
		s.log.WithField("request_id", middleware.GetReqID(r.Context())).
			WithError(err).
			Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
			)
	}
	s.writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// decodeJSON reads a single JSON value into dst. An empty body leaves dst
// untouched; anything after the value is rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validation("Invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}
