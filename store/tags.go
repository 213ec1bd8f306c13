package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "noto/errors"
	"noto/models"
	"noto/utils"
)

// UpsertTag returns the user's tag with this title and color, creating it
// when it does not exist. Repeated calls return the same row.
func (s *Store) UpsertTag(ctx context.Context, userID uuid.UUID, title, color string) (*models.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()
	return upsertTag(ctx, s.db, userID, title, color)
}

func upsertTag(ctx context.Context, q utils.Querier, userID uuid.UUID, title, color string) (*models.Tag, error) {
	stmt := `INSERT INTO tags (title, color, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, title, color) DO UPDATE SET title = EXCLUDED.title
		RETURNING id, title, color, user_id`

	var t models.Tag
	if err := q.QueryRow(ctx, stmt, title, color, userID).Scan(&t.ID, &t.Title, &t.Color, &t.UserID); err != nil {
		return nil, fmt.Errorf("upsert tag: %w", err)
	}
	return &t, nil
}

// AttachTag links a tag to a notepad. The row is only written when both
// belong to userID; otherwise NotFound is returned.
func (s *Store) AttachTag(ctx context.Context, userID uuid.UUID, notepadID, tagID int64) (*models.NotepadTag, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()
	return attachTag(ctx, s.db, userID, notepadID, tagID)
}

func attachTag(ctx context.Context, q utils.Querier, userID uuid.UUID, notepadID, tagID int64) (*models.NotepadTag, error) {
	stmt := `INSERT INTO notepad_tags (notepad_id, tag_id)
		SELECT n.id, t.id
		FROM notepads n, tags t
		WHERE n.id = $1 AND n.user_id = $3
		  AND t.id = $2 AND t.user_id = $3
		RETURNING notepad_id, tag_id`

	var nt models.NotepadTag
	if err := q.QueryRow(ctx, stmt, notepadID, tagID, userID).Scan(&nt.NotepadID, &nt.TagID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Task or tag not found")
		}
		return nil, fmt.Errorf("attach tag: %w", err)
	}
	return &nt, nil
}

// TagNotepad upserts a tag and attaches it to the notepad in one
// transaction. If the notepad is not the user's, nothing is written.
func (s *Store) TagNotepad(ctx context.Context, userID uuid.UUID, notepadID int64, title, color string) (*models.Tag, *models.NotepadTag, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var (
		tag  *models.Tag
		link *models.NotepadTag
	)
	err := utils.InTx(ctx, s.db, func(q utils.Querier) error {
		var owned bool
		stmt := "SELECT EXISTS(SELECT 1 FROM notepads WHERE id = $1 AND user_id = $2)"
		if err := q.QueryRow(ctx, stmt, notepadID, userID).Scan(&owned); err != nil {
			return fmt.Errorf("check notepad owner: %w", err)
		}
		if !owned {
			return apperrors.ErrTaskNotFound
		}

		var err error
		if tag, err = upsertTag(ctx, q, userID, title, color); err != nil {
			return err
		}
		link, err = attachTag(ctx, q, userID, notepadID, tag.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return tag, link, nil
}

// DetachTag removes every link between the tag and a notepad the user owns.
func (s *Store) DetachTag(ctx context.Context, userID uuid.UUID, notepadID, tagID int64) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := `DELETE FROM notepad_tags nt
		USING notepads n
		WHERE nt.notepad_id = n.id
		  AND n.id = $1 AND n.user_id = $3
		  AND nt.tag_id = $2`

	tag, err := s.db.Exec(ctx, stmt, notepadID, tagID, userID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTagNotFound
	}
	return nil
}

// TagsForNotepads loads the user's tags for each notepad id. Every requested
// id is present in the result, with an empty slice when it has no tags.
func (s *Store) TagsForNotepads(ctx context.Context, notepadIDs []int64, userID uuid.UUID) (map[int64][]models.TagSummary, error) {
	out := make(map[int64][]models.TagSummary, len(notepadIDs))
	for _, id := range notepadIDs {
		out[id] = []models.TagSummary{}
	}
	if len(notepadIDs) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := `SELECT DISTINCT nt.notepad_id, t.id, t.title, t.color
		FROM notepad_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.notepad_id = ANY($1) AND t.user_id = $2
		ORDER BY nt.notepad_id, t.id`

	rows, err := s.db.Query(ctx, stmt, notepadIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("load notepad tags: %w", err)
	}
	defer rows.Close()

	type link struct{ notepadID, tagID int64 }
	seen := make(map[link]struct{})
	for rows.Next() {
		var (
			notepadID int64
			t         models.TagSummary
		)
		if err := rows.Scan(&notepadID, &t.ID, &t.Title, &t.Color); err != nil {
			return nil, fmt.Errorf("scan notepad tag: %w", err)
		}
		if _, ok := out[notepadID]; !ok {
			continue
		}
		// notepad_tags may hold the same pair twice.
		key := link{notepadID, t.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out[notepadID] = append(out[notepadID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load notepad tags: %w", err)
	}
	return out, nil
}
