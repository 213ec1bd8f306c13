package models

import "github.com/google/uuid"

type Tag struct {
	ID     int64     `db:"id" json:"id"`
	Title  string    `db:"title" json:"title"`
	Color  string    `db:"color" json:"color"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`
}

// TagSummary is the tag shape embedded in notepad listings.
type TagSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type NotepadTag struct {
	NotepadID int64 `db:"notepad_id" json:"notepad_id"`
	TagID     int64 `db:"tag_id" json:"tag_id"`
}
