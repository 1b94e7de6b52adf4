package pg

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/lib/pq"
)

// Legacy TinyIB tables are read from the schema named by ImportParams.DBName,
// the dump is expected to be restored there beforehand.

// TinyIB roles: 1 super administrator, 2 administrator, 3 moderator.
const tinyIBRoleCase = `CASE role WHEN 1 THEN 3 WHEN 2 THEN 3 WHEN 3 THEN 2 ELSE 0 END`

func sourceTable(params domain.ImportParams) string {
	return pq.QuoteIdentifier(params.DBName) + "." + pq.QuoteIdentifier(params.TableName)
}

func (s *Storage) InsertImportAccountsTinyIB(ctx context.Context, params domain.ImportParams) (int, error) {
	return rowsAffected(s.sq.Insert("accounts").
		Columns("username", "password", "role", "lastactive").
		Select(sq.Select("username", "password", tinyIBRoleCase, "lastactive").
			From(sourceTable(params))).
		Suffix("ON CONFLICT (username) DO NOTHING").
		ExecContext(ctx))
}

// InsertImportPostsTinyIB copies a TinyIB posts table into board params.BoardID.
// Posts are locked for writes meanwhile so imported ids cannot collide with
// concurrently created posts.
func (s *Storage) InsertImportPostsTinyIB(ctx context.Context, params domain.ImportParams) (int, error) {
	prefix := "/" + params.BoardID
	source := sq.Select().
		Column(sq.Expr("?", params.BoardID)).
		Columns("id", "parent", "timestamp", "bumped", "ip", "name", "tripcode", "email", "subject", "message").
		Column(sq.Expr("CASE WHEN file = '' OR file LIKE 'http%' THEN file ELSE ? || '/src/' || file END", prefix)).
		Columns("file_hex", "file_original", "file_size").
		Column(sq.Expr("CASE WHEN thumb = '' THEN '' ELSE ? || '/thumb/' || thumb END", prefix)).
		Column("file LIKE 'http%'").
		Column("TRUE").
		Column("stickied = 1").
		Column("locked = 1").
		From(sourceTable(params))

	var inserted int
	err := s.withTx(ctx, func(tx *sql.Tx, b sq.StatementBuilderType) error {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE posts IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return err
		}
		n, err := rowsAffected(b.Insert("posts").
			Columns("board_id", "post_id", "parent_id", "timestamp", "bumped", "ip", "name", "tripcode", "email", "subject", "message",
				"file", "file_hex", "file_original", "file_size", "thumb", "embed", "imported", "stickied", "locked").
			Select(source).
			Suffix("ON CONFLICT (board_id, post_id) DO NOTHING").
			ExecContext(ctx))
		inserted = n
		return err
	})
	return inserted, err
}

// InitPostAutoIncrement creates the post id counter of the board, or resets an
// existing one to 0. RefreshPostAutoIncrement moves it past the imported ids.
func (s *Storage) InitPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error {
	_, err := s.sq.Insert("post_auto_increment").
		Columns("board_id", "counter").
		Values(boardID, 0).
		Suffix("ON CONFLICT (board_id) DO UPDATE SET counter = EXCLUDED.counter").
		ExecContext(ctx)
	return err
}

// RefreshPostAutoIncrement moves the counter past the highest stored post id.
func (s *Storage) RefreshPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error {
	_, err := s.sq.Update("post_auto_increment").
		Set("counter", sq.Expr("(SELECT COALESCE(MAX(post_id), 0) FROM posts WHERE board_id = ?)", boardID)).
		Where(sq.Eq{"board_id": boardID}).
		ExecContext(ctx)
	return err
}
