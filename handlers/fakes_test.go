package handlers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "noto/errors"
	"noto/models"
)

// memUsers is an in-memory auth.UserStore.
type memUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUsers) UserExists(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) CreateUser(_ context.Context, username, email, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.New(), Username: username, Email: email, PasswordHash: hash, LastViewedTasks: []int64{}}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *memUsers) TouchLastLogin(context.Context, uuid.UUID) error { return nil }

// memTasks implements TaskStore and TagStore with the same ownership rules
// as the Postgres store.
type memTasks struct {
	mu          sync.Mutex
	nextNotepad int64
	nextTag     int64
	notepads    map[int64]*models.Notepad
	tags        map[int64]*models.Tag
	links       []models.NotepadTag
	listErr     error
}

func newMemTasks() *memTasks {
	return &memTasks{notepads: map[int64]*models.Notepad{}, tags: map[int64]*models.Tag{}}
}

func (m *memTasks) CreateTask(_ context.Context, userID uuid.UUID, taskType string) (*models.Notepad, error) {
	if taskType != models.TaskTypeNote {
		return nil, apperrors.ErrInvalidTaskType
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextNotepad++
	now := time.Now().UTC()
	n := &models.Notepad{
		ID:        m.nextNotepad,
		Title:     models.DefaultNotepadTitle,
		Content:   models.DefaultNotepadContent,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.notepads[n.ID] = n
	copied := *n
	return &copied, nil
}

func (m *memTasks) ListTasks(_ context.Context, userID uuid.UUID) ([]models.NotepadListing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.NotepadListing{}
	for _, n := range m.notepads {
		if n.UserID != userID {
			continue
		}
		tags := []models.TagSummary{}
		seen := map[int64]bool{}
		for _, l := range m.links {
			t := m.tags[l.TagID]
			if l.NotepadID == n.ID && t.UserID == userID && !seen[t.ID] {
				seen[t.ID] = true
				tags = append(tags, models.TagSummary{ID: t.ID, Title: t.Title, Color: t.Color})
			}
		}
		out = append(out, models.NotepadListing{Notepad: *n, Type: models.TaskTypeNote, Tags: tags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTasks) UpdateNotepad(_ context.Context, id int64, userID uuid.UUID, patch models.NotepadPatch) (*models.Notepad, error) {
	if patch.Empty() {
		return nil, apperrors.ErrNoValidFields
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notepads[id]
	if !ok || n.UserID != userID {
		return nil, apperrors.ErrTaskNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.IsFavorite != nil {
		n.IsFavorite = *patch.IsFavorite
	}
	n.UpdatedAt = time.Now().UTC()
	copied := *n
	return &copied, nil
}

func (m *memTasks) TagNotepad(_ context.Context, userID uuid.UUID, notepadID int64, title, color string) (*models.Tag, *models.NotepadTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notepads[notepadID]
	if !ok || n.UserID != userID {
		return nil, nil, apperrors.ErrTaskNotFound
	}

	var tag *models.Tag
	for _, t := range m.tags {
		if t.UserID == userID && t.Title == title && t.Color == color {
			tag = t
		}
	}
	if tag == nil {
		m.nextTag++
		tag = &models.Tag{ID: m.nextTag, Title: title, Color: color, UserID: userID}
		m.tags[tag.ID] = tag
	}

	link := models.NotepadTag{NotepadID: notepadID, TagID: tag.ID}
	m.links = append(m.links, link)
	copied := *tag
	return &copied, &link, nil
}

func (m *memTasks) DetachTag(_ context.Context, userID uuid.UUID, notepadID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notepads[notepadID]
	if !ok || n.UserID != userID {
		return apperrors.ErrTagNotFound
	}

	kept := m.links[:0]
	removed := 0
	for _, l := range m.links {
		if l.NotepadID == notepadID && l.TagID == tagID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.links = kept
	if removed == 0 {
		return apperrors.ErrTagNotFound
	}
	return nil
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) Ping(context.Context) error { return f.err }
