package pg

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

var testPostColumns = []string{
	"board_id", "post_id", "parent_id", "name", "tripcode", "email", "subject", "message",
	"file", "file_hex", "thumb", "embed", "imported", "role", "timestamp", "bumped", "locked", "stickied",
}
