package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notepadJSON struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     string `json:"user_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type tagJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type listingJSON struct {
	notepadJSON
	Type string    `json:"type"`
	Tags []tagJSON `json:"tags"`
}

func (e *testEnv) createNote(t *testing.T, token string) notepadJSON {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/tasks", token, map[string]string{"type": "note"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var n notepadJSON
	decodeBody(t, rec, &n)
	return n
}

func (e *testEnv) fetch(t *testing.T, token string) []listingJSON {
	t.Helper()
	rec := e.do(t, http.MethodGet, "/api/tasks/fetch", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Notepads []listingJSON `json:"notepads"`
	}
	decodeBody(t, rec, &body)
	return body.Notepads
}

func TestCreateTask(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "alice")

	n := env.createNote(t, token)
	assert.Equal(t, "Untitled Note", n.Title)
	assert.Equal(t, "", n.Content)
	assert.False(t, n.IsFavorite)
	assert.NotEmpty(t, n.UserID)

	for _, body := range []any{map[string]string{"type": "todo"}, map[string]string{}, nil} {
		rec := env.do(t, http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid task type", errorMessage(t, rec))
	}
}

func TestCreateTask_RejectsTrailingContent(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "alice")

	for _, body := range []string{
		`{"type":"note"} this is not json`,
		`{"type":"note"}{"type":"note"}`,
		`{"type":"note"}}`,
	} {
		rec := env.do(t, http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid request body", errorMessage(t, rec))
	}
	assert.Empty(t, env.fetch(t, token))

	rec := env.do(t, http.MethodPost, "/api/tasks", token, "{\"type\":\"note\"}\n")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestFetchTasks_Empty(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "alice")

	rec := env.do(t, http.MethodGet, "/api/tasks/fetch", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notepads":[]}`, rec.Body.String())
}

func TestFetchTasks_InternalErrorIsOpaque(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "alice")
	env.tasks.listErr = errors.New(`pq: relation "notepads" does not exist`)

	rec := env.do(t, http.MethodGet, "/api/tasks/fetch", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, rec))
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestEditTask(t *testing.T) {
	env := newEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	note := env.createNote(t, alice)
	path := fmt.Sprintf("/api/tasks/edit/%d", note.ID)

	t.Run("partial update", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, path, alice, map[string]any{"title": "Groceries", "user_id": "ignored"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var n notepadJSON
		decodeBody(t, rec, &n)
		assert.Equal(t, "Groceries", n.Title)
		assert.Equal(t, note.UserID, n.UserID)
	})

	t.Run("no valid fields", func(t *testing.T) {
		for _, body := range []any{map[string]any{}, map[string]any{"owner": "bob"}, nil} {
			rec := env.do(t, http.MethodPut, path, alice, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "No valid fields to update", errorMessage(t, rec))
		}
		assert.Equal(t, "Groceries", env.fetch(t, alice)[0].Title)
	})

	t.Run("wrong field type", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, path, alice, map[string]any{"is_favorite": "yes"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "is_favorite must be a boolean", errorMessage(t, rec))
	})

	t.Run("other user's notepad", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, path, bob, map[string]any{"title": "mine now"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", errorMessage(t, rec))
		assert.Equal(t, "Groceries", env.fetch(t, alice)[0].Title)
	})

	t.Run("missing notepad", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/edit/9999", alice, map[string]any{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non numeric id", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/edit/abc", alice, map[string]any{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid task id", errorMessage(t, rec))
	})
}
