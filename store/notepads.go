package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "noto/errors"
	"noto/models"
	"noto/utils"
)

const notepadColumns = "id, title, content, user_id, is_favorite, created_at, updated_at"

func scanNotepad(row pgx.Row) (*models.Notepad, error) {
	var n models.Notepad
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.IsFavorite, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateTask creates a task of the given type for the user. Only notes are
// supported; they start out with the default title and empty content.
func (s *Store) CreateTask(ctx context.Context, userID uuid.UUID, taskType string) (*models.Notepad, error) {
	if taskType != models.TaskTypeNote {
		return nil, apperrors.ErrInvalidTaskType
	}

	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := "INSERT INTO notepads (title, content, user_id) VALUES ($1, $2, $3) RETURNING " + notepadColumns

	n, err := scanNotepad(s.db.QueryRow(ctx, stmt, models.DefaultNotepadTitle, models.DefaultNotepadContent, userID))
	if err != nil {
		return nil, fmt.Errorf("insert notepad: %w", err)
	}
	return n, nil
}

// ListTasks returns every notepad the user owns with its tags attached.
func (s *Store) ListTasks(ctx context.Context, userID uuid.UUID) ([]models.NotepadListing, error) {
	notepads, err := s.listNotepads(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings := make([]models.NotepadListing, 0, len(notepads))
	if len(notepads) == 0 {
		return listings, nil
	}

	ids := make([]int64, len(notepads))
	for i, n := range notepads {
		ids[i] = n.ID
	}

	tags, err := s.TagsForNotepads(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	for _, n := range notepads {
		listings = append(listings, models.NotepadListing{
			Notepad: n,
			Type:    models.TaskTypeNote,
			Tags:    tags[n.ID],
		})
	}
	return listings, nil
}

func (s *Store) listNotepads(ctx context.Context, userID uuid.UUID) ([]models.Notepad, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := "SELECT " + notepadColumns + " FROM notepads WHERE user_id = $1 ORDER BY id"

	rows, err := s.db.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("list notepads: %w", err)
	}
	defer rows.Close()

	var notepads []models.Notepad
	for rows.Next() {
		n, err := scanNotepad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notepad: %w", err)
		}
		notepads = append(notepads, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notepads: %w", err)
	}
	return notepads, nil
}

// UpdateNotepad applies the supplied fields to a notepad the user owns and
// returns the updated row. Nothing is written for an empty patch.
func (s *Store) UpdateNotepad(ctx context.Context, notepadID int64, userID uuid.UUID, patch models.NotepadPatch) (*models.Notepad, error) {
	if patch.Empty() {
		return nil, apperrors.ErrNoValidFields
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.IsFavorite != nil {
		add("is_favorite", *patch.IsFavorite)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, notepadID, userID)

	stmt := fmt.Sprintf("UPDATE notepads SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), notepadColumns)

	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	n, err := scanNotepad(s.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update notepad: %w", err)
	}
	return n, nil
}
