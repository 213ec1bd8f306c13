package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "noto/errors"
	"noto/models"
)

type createTaskRequest struct {
	Type string `json:"type"`
}

type fetchTasksResponse struct {
	Notepads []models.NotepadListing `json:"notepads"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	notepad, err := s.tasks.CreateTask(r.Context(), session.UserID, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, notepad)
}

func (s *Server) handleFetchTasks(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	notepads, err := s.tasks.ListTasks(r.Context(), session.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fetchTasksResponse{Notepads: notepads})
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	id, err := pathID(r, "id", "Invalid task id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch, err := models.ParseNotepadPatch(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	notepad, err := s.tasks.UpdateNotepad(r.Context(), id, session.UserID, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notepad)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, param, msg string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(msg)
	}
	return id, nil
}
