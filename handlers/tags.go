package handlers

import (
	"net/http"
	"strings"

	"noto/models"
)

type attachTagRequest struct {
	Title string `json:"title" validate:"required,max=50"`
	Color string `json:"color" validate:"required,max=32"`
}

type attachTagResponse struct {
	Tag        *models.Tag        `json:"tag"`
	NotepadTag *models.NotepadTag `json:"notepad_tag"`
}

func (s *Server) handleAttachTag(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	notepadID, err := pathID(r, "taskId", "Invalid task id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req attachTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Color = strings.TrimSpace(req.Color)
	if err := s.validator.Validate(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tag, link, err := s.tags.TagNotepad(r.Context(), session.UserID, notepadID, req.Title, req.Color)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, attachTagResponse{Tag: tag, NotepadTag: link})
}

func (s *Server) handleDetachTag(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	notepadID, err := pathID(r, "id", "Invalid task id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tagID, err := pathID(r, "tagId", "Invalid tag id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.tags.DetachTag(r.Context(), session.UserID, notepadID, tagID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageBody{Message: "Tag removed from task"})
}
