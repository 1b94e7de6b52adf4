package pg

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/itchan-dev/modcore/shared/domain"
	internal_errors "github.com/itchan-dev/modcore/shared/errors"
)

func (s *Storage) InsertLog(ctx context.Context, entry domain.LogEntry) error {
	_, err := s.sq.Insert("logs").
		Columns("ip", "timestamp", "username", "message").
		Values(entry.IP, entry.Timestamp, entry.Username, entry.Message).
		ExecContext(ctx)
	return err
}

// SelectLogs returns the newest entries first.
func (s *Storage) SelectLogs(ctx context.Context, limit, offset uint64) ([]domain.LogEntry, error) {
	rows, err := s.sq.Select("ip", "timestamp", "username", "message").
		From("logs").
		OrderBy("id DESC").
		Limit(limit).
		Offset(offset).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.IP, &e.Timestamp, &e.Username, &e.Message); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Storage) DeleteReportsByPostID(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	return rowsAffected(s.sq.Delete("reports").
		Where(sq.Eq{"board_id": boardID, "post_id": postID}).
		ExecContext(ctx))
}

func (s *Storage) Account(ctx context.Context, username string) (domain.Account, error) {
	var a domain.Account
	err := s.sq.Select("username", "password", "role").
		From("accounts").
		Where(sq.Eq{"username": username}).
		QueryRowContext(ctx).
		Scan(&a.Username, &a.PasswordHash, &a.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, &internal_errors.NotFoundError{What: "Account", ID: username}
	}
	return a, err
}

// SaveAccount creates or updates a staff account.
func (s *Storage) SaveAccount(ctx context.Context, a domain.Account) error {
	_, err := s.sq.Insert("accounts").
		Columns("username", "password", "role").
		Values(a.Username, a.PasswordHash, a.Role).
		Suffix("ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, role = EXCLUDED.role").
		ExecContext(ctx)
	return err
}
