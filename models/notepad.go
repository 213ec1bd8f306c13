package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "noto/errors"
)

// TaskTypeNote is the only task type the API can create.
const TaskTypeNote = "note"

const (
	DefaultNotepadTitle   = "Untitled Note"
	DefaultNotepadContent = ""
)

type Notepad struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	IsFavorite bool      `db:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// NotepadListing is a notepad as returned by the fetch endpoint.
type NotepadListing struct {
	Notepad
	Type string       `json:"type"`
	Tags []TagSummary `json:"tags"`
}

// NotepadPatch holds the user-editable fields of a notepad. Nil means the
// field was not supplied.
type NotepadPatch struct {
	Title      *string
	Content    *string
	IsFavorite *bool
}

// EditableNotepadFields lists the columns a client may change, in the order
// they are applied.
var EditableNotepadFields = []string{"title", "content", "is_favorite"}

// ParseNotepadPatch picks the editable fields out of an arbitrary JSON
// object. Unknown keys are ignored. A patch with no editable field yields
// ErrNoValidFields.
func ParseNotepadPatch(raw map[string]json.RawMessage) (NotepadPatch, error) {
	var p NotepadPatch

	for _, field := range EditableNotepadFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return NotepadPatch{}, apperrors.Validationf("%s must not be null", field)
		}

		var err error
		switch field {
		case "title":
			p.Title = new(string)
			err = json.Unmarshal(value, p.Title)
		case "content":
			p.Content = new(string)
			err = json.Unmarshal(value, p.Content)
		case "is_favorite":
			p.IsFavorite = new(bool)
			err = json.Unmarshal(value, p.IsFavorite)
		}
		if err != nil {
			kind := "a string"
			if field == "is_favorite" {
				kind = "a boolean"
			}
			return NotepadPatch{}, apperrors.Validationf("%s must be %s", field, kind)
		}
	}

	if p.Empty() {
		return NotepadPatch{}, apperrors.ErrNoValidFields
	}
	return p, nil
}

func (p NotepadPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsFavorite == nil
}
