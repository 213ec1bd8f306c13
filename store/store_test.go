package store_test

import (
	"testing"
	"time"

	"noto/store"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var (
	userID  = uuid.MustParse("6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b")
	otherID = uuid.MustParse("0a0b0c0d-1111-2222-3333-444455556666")
	created = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
)

var notepadCols = []string{"id", "title", "content", "user_id", "is_favorite", "created_at", "updated_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *store.Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, store.New(mock)
}
