package pg

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/itchan-dev/modcore/shared/domain"
)

var postColumns = []string{
	"board_id", "post_id", "parent_id", "name", "tripcode", "email", "subject", "message",
	"file", "file_hex", "thumb", "embed", "imported", "role", "timestamp", "bumped", "locked", "stickied",
}

func scanPost(r interface{ Scan(dest ...any) error }) (domain.Post, error) {
	var p domain.Post
	err := r.Scan(
		&p.BoardID, &p.PostID, &p.ParentID, &p.Name, &p.Tripcode, &p.Email, &p.Subject, &p.Message,
		&p.File, &p.FileHex, &p.Thumb, &p.Embed, &p.Imported, &p.Role, &p.Timestamp, &p.Bumped, &p.Locked, &p.Stickied,
	)
	return p, err
}

func queryPosts(ctx context.Context, q sq.SelectBuilder) ([]domain.Post, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Storage) SelectRebuildPosts(ctx context.Context, boardID domain.BoardID) ([]domain.Post, error) {
	return queryPosts(ctx, s.sq.Select(postColumns...).
		From("posts").
		Where(sq.Eq{"board_id": boardID}).
		OrderBy("post_id"))
}

func (s *Storage) UpdateRebuildPost(ctx context.Context, post domain.RebuildPost) (bool, error) {
	n, err := rowsAffected(s.sq.Update("posts").
		Set("message_rendered", post.MessageRendered).
		Set("message_truncated", post.MessageTruncated).
		Set("nameblock", post.Nameblock).
		Set("file_rendered", post.FileRendered).
		Where(sq.Eq{"board_id": post.BoardID, "post_id": post.PostID}).
		ExecContext(ctx))
	return n > 0, err
}

// postAndReplies matches postID and, when replies is set, the replies of
// the thread it roots. Thread roots have parent_id 0, so id 0 never pulls in
// replies and matches nothing.
func postAndReplies(postID domain.PostID, replies bool) sq.Or {
	target := sq.Or{sq.Eq{"post_id": postID}}
	if replies && postID > 0 {
		target = append(target, sq.Eq{"parent_id": postID})
	}
	return target
}

// SelectPostWithReplies lists replies before their thread root, so deleting
// in order never finds a row already removed by the cascade.
func (s *Storage) SelectPostWithReplies(ctx context.Context, boardID domain.BoardID, postID domain.PostID) ([]domain.Post, error) {
	return queryPosts(ctx, s.sq.Select(postColumns...).
		From("posts").
		Where(sq.Eq{"board_id": boardID}).
		Where(postAndReplies(postID, true)).
		OrderBy("parent_id = 0", "post_id"))
}

func (s *Storage) SelectFilesByMD5(ctx context.Context, fileHex string) ([]domain.Post, error) {
	return queryPosts(ctx, s.sq.Select(postColumns...).
		From("posts").
		Where(sq.Eq{"file_hex": fileHex}).
		OrderBy("board_id", "post_id"))
}

// DeletePost removes a post and its reports. With cascade a thread root takes
// its replies and their reports along.
func (s *Storage) DeletePost(ctx context.Context, boardID domain.BoardID, postID domain.PostID, cascade bool) (bool, error) {
	target := postAndReplies(postID, cascade)

	var deleted int
	err := s.withTx(ctx, func(tx *sql.Tx, b sq.StatementBuilderType) error {
		// built with ? placeholders, the outer statement renumbers them
		ids := sq.Select("post_id").From("posts").Where(sq.Eq{"board_id": boardID}).Where(target)
		idsSQL, idsArgs, err := ids.ToSql()
		if err != nil {
			return err
		}
		if _, err := b.Delete("reports").
			Where(sq.Eq{"board_id": boardID}).
			Where(sq.Expr("post_id IN ("+idsSQL+")", idsArgs...)).
			ExecContext(ctx); err != nil {
			return err
		}

		n, err := rowsAffected(b.Delete("posts").
			Where(sq.Eq{"board_id": boardID}).
			Where(target).
			ExecContext(ctx))
		deleted = n
		return err
	})
	return deleted > 0, err
}

// BumpThread sets the bump time of a thread to its newest non-sage reply, or
// to its own creation time when none is left.
func (s *Storage) BumpThread(ctx context.Context, boardID domain.BoardID, threadID domain.PostID) (bool, error) {
	newest := sq.Select("MAX(r.timestamp)").
		From("posts r").
		Where("r.board_id = posts.board_id AND r.parent_id = posts.post_id").
		Where(sq.NotEq{"lower(r.email)": "sage"})
	newestSQL, newestArgs, err := newest.ToSql()
	if err != nil {
		return false, err
	}

	n, err := rowsAffected(s.sq.Update("posts").
		Set("bumped", sq.Expr("COALESCE(("+newestSQL+"), timestamp)", newestArgs...)).
		Where(sq.Eq{"board_id": boardID, "post_id": threadID, "parent_id": 0}).
		ExecContext(ctx))
	return n > 0, err
}

func (s *Storage) TogglePostLocked(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	return s.togglePost(ctx, "locked", boardID, postID)
}

func (s *Storage) TogglePostStickied(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	return s.togglePost(ctx, "stickied", boardID, postID)
}

func (s *Storage) togglePost(ctx context.Context, column string, boardID domain.BoardID, postID domain.PostID) (int, error) {
	return rowsAffected(s.sq.Update("posts").
		Set(column, sq.Expr("NOT "+column)).
		Where(sq.Eq{"board_id": boardID, "post_id": postID}).
		ExecContext(ctx))
}
