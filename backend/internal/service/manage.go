package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
	"github.com/itchan-dev/modcore/shared/middleware/metrics"
	"github.com/itchan-dev/modcore/shared/text"
)

// to mock service in tests
type ManageService interface {
	Import(ctx context.Context, rc domain.RequestContext, params domain.ImportParams) (string, error)
	Rebuild(ctx context.Context, rc domain.RequestContext, boardID domain.BoardID) (string, error)
	Delete(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	Approve(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	ToggleLock(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
	ToggleSticky(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error)
}

type ManageStorage interface {
	SelectRebuildPosts(ctx context.Context, boardID domain.BoardID) ([]domain.Post, error)
	UpdateRebuildPost(ctx context.Context, post domain.RebuildPost) (bool, error)

	// SelectPostWithReplies returns the post and, for a thread root, its
	// replies. Replies come first. Unknown ids give an empty slice.
	SelectPostWithReplies(ctx context.Context, boardID domain.BoardID, postID domain.PostID) ([]domain.Post, error)
	// SelectFilesByMD5 returns every post, on any board, referencing the file.
	SelectFilesByMD5(ctx context.Context, fileHex string) ([]domain.Post, error)
	DeletePost(ctx context.Context, boardID domain.BoardID, postID domain.PostID, cascade bool) (bool, error)
	// BumpThread recomputes the bump time of a thread from its remaining replies.
	BumpThread(ctx context.Context, boardID domain.BoardID, threadID domain.PostID) (bool, error)

	DeleteReportsByPostID(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)
	TogglePostLocked(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)
	TogglePostStickied(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)

	InsertImportAccountsTinyIB(ctx context.Context, params domain.ImportParams) (int, error)
	InsertImportPostsTinyIB(ctx context.Context, params domain.ImportParams) (int, error)
	InitPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error
	RefreshPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error
}

// BoardRegistry resolves board configs, unknown ids give a NotFoundError.
type BoardRegistry interface {
	Board(id domain.BoardID) (domain.BoardConfig, error)
}

type Renderer interface {
	Nameblock(name, tripcode, email string, role int, timestamp int64) (string, error)
	Message(boardID domain.BoardID, message string, truncate int) (domain.RenderedMessage, error)
}

// MediaStorage removes uploaded files. A missing file is an error.
type MediaStorage interface {
	DeleteFile(ctx context.Context, path string) error
}

type Manage struct {
	storage  ManageStorage
	boards   BoardRegistry
	renderer Renderer
	media    MediaStorage
	log      *ModLog
}

func NewManage(storage ManageStorage, boards BoardRegistry, renderer Renderer, media MediaStorage, log *ModLog) *Manage {
	return &Manage{
		storage:  storage,
		boards:   boards,
		renderer: renderer,
		media:    media,
		log:      log,
	}
}

// thumbnails under this path are shared placeholders
const staticThumbMarker = "/static/"

func (m *Manage) Import(ctx context.Context, rc domain.RequestContext, params domain.ImportParams) (string, error) {
	msg := fmt.Sprintf("Executed import, source db: %s, source table: %s, target board: %s", params.DBName, params.TableName, params.BoardID)
	if err := m.log.Log(ctx, rc, msg); err != nil {
		return "", err
	}

	inserted, warnings, err := m.importRows(ctx, params)
	if err != nil {
		m.failed(ctx, rc, domain.ActionImport, err)
		return "", err
	}

	status := fmt.Sprintf("Imported %d rows", inserted) + formatWarnings(warnings)
	m.finish(ctx, rc, domain.ActionImport, status, inserted, len(warnings))
	return status, nil
}

func (m *Manage) importRows(ctx context.Context, params domain.ImportParams) (int, []string, error) {
	switch params.TableType {
	case domain.ImportTinyIBAccounts:
		n, err := m.storage.InsertImportAccountsTinyIB(ctx, params)
		return n, nil, err
	case domain.ImportTinyIBPosts:
		if _, err := m.boards.Board(params.BoardID); err != nil {
			if !errors.IsNotFound(err) {
				return 0, nil, err
			}
			return 0, []string{fmt.Sprintf("Target BOARD id '%s' not found", params.BoardID)}, nil
		}
		if err := m.storage.InitPostAutoIncrement(ctx, params.BoardID); err != nil {
			return 0, nil, err
		}
		n, err := m.storage.InsertImportPostsTinyIB(ctx, params)
		if err != nil {
			return 0, nil, err
		}
		if err := m.storage.RefreshPostAutoIncrement(ctx, params.BoardID); err != nil {
			return n, nil, err
		}
		return n, nil, nil
	default:
		return 0, []string{fmt.Sprintf("Unsupported table_type '%s'", params.TableType)}, nil
	}
}

func (m *Manage) Rebuild(ctx context.Context, rc domain.RequestContext, boardID domain.BoardID) (string, error) {
	if err := m.log.Log(ctx, rc, "Executed rebuild, target board: "+boardID); err != nil {
		return "", err
	}

	board, err := m.boards.Board(boardID)
	if err != nil {
		m.failed(ctx, rc, domain.ActionRebuild, err)
		return "", err
	}

	posts, err := m.storage.SelectRebuildPosts(ctx, boardID)
	if err != nil {
		m.failed(ctx, rc, domain.ActionRebuild, err)
		return "", err
	}

	processed := 0
	var warnings []string
	for _, post := range posts {
		if ok := m.rebuildPost(ctx, rc, board, post); !ok {
			warnings = append(warnings, fmt.Sprintf("Failed to rebuild post /%s/%d/", post.BoardID, post.PostID))
		}
		processed++
	}

	status := fmt.Sprintf("Rebuilt %d/%d posts", processed, len(posts)) + formatWarnings(warnings)
	m.finish(ctx, rc, domain.ActionRebuild, status, processed-len(warnings), len(warnings))
	return status, nil
}

func (m *Manage) rebuildPost(ctx context.Context, rc domain.RequestContext, board domain.BoardConfig, post domain.Post) bool {
	name := post.Name
	if name == "" {
		name = board.Anonymous
	}
	email := post.Email
	message := post.Message

	// imported rows were stored without escaping
	if post.Imported {
		name = text.CleanField(name)
		email = text.CleanField(email)
		message = text.DecodeSpecialChars(text.StripTags(message))
	}

	nameblock, err := m.renderer.Nameblock(name, post.Tripcode, email, post.Role, post.Timestamp)
	if err != nil {
		staffLogger(rc).Warn("failed to render nameblock", "board", post.BoardID, "post", post.PostID, "error", err)
		return false
	}
	rendered, err := m.renderer.Message(post.BoardID, message, board.Truncate)
	if err != nil {
		staffLogger(rc).Warn("failed to render message", "board", post.BoardID, "post", post.PostID, "error", err)
		return false
	}

	file := post.File
	if post.Embed {
		file = text.RawURLEncode(file)
	}

	ok, err := m.storage.UpdateRebuildPost(ctx, domain.RebuildPost{
		BoardID:          post.BoardID,
		PostID:           post.PostID,
		MessageRendered:  rendered.Rendered,
		MessageTruncated: rendered.Truncated,
		Nameblock:        nameblock,
		FileRendered:     file,
	})
	if err != nil {
		staffLogger(rc).Warn("failed to update rebuilt post", "board", post.BoardID, "post", post.PostID, "error", err)
		return false
	}
	return ok
}

// Delete removes the selected posts, replies of selected threads included.
// Files are unlinked only when no other post references the same hash.
func (m *Manage) Delete(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	if err := m.log.Log(ctx, rc, "Executed delete, target posts: "+joinTokens(selection)); err != nil {
		return "", err
	}

	processed, total := 0, 0
	var warnings []string
	for _, sel := range selection {
		// malformed tokens parse to id 0 and match nothing
		if sel.PostID <= 0 {
			continue
		}
		posts, err := m.storage.SelectPostWithReplies(ctx, sel.BoardID, sel.PostID)
		if err != nil {
			staffLogger(rc).Warn("failed to select post for delete", "board", sel.BoardID, "post", sel.PostID, "error", err)
			warnings = append(warnings, fmt.Sprintf("Failed to select post /%s/%d/", sel.BoardID, sel.PostID))
			continue
		}
		total += len(posts)

		for _, post := range posts {
			warnings = append(warnings, m.deletePost(ctx, rc, post)...)
			processed++
		}
	}

	status := fmt.Sprintf("Deleted %d/%d posts", processed, total) + formatWarnings(warnings)
	m.finish(ctx, rc, domain.ActionDelete, status, processed, len(warnings))
	return status, nil
}

func (m *Manage) deletePost(ctx context.Context, rc domain.RequestContext, post domain.Post) []string {
	var warnings []string
	static := strings.Contains(post.Thumb, staticThumbMarker)

	if m.lastFileReference(ctx, rc, post) {
		if !post.Embed && post.File != "" {
			if err := m.media.DeleteFile(ctx, post.File); err != nil {
				staffLogger(rc).Warn("failed to delete file", "path", post.File, "error", err)
				warnings = append(warnings, fmt.Sprintf("Failed to delete file for post /%s/%d/ (maybe it didn't exist?)", post.BoardID, post.PostID))
			}
		}
		if !static && post.Thumb != "" {
			if err := m.media.DeleteFile(ctx, post.Thumb); err != nil {
				staffLogger(rc).Warn("failed to delete thumbnail", "path", post.Thumb, "error", err)
				warnings = append(warnings, fmt.Sprintf("Failed to delete thumbnail for post /%s/%d/ (maybe it didn't exist?)", post.BoardID, post.PostID))
			}
		}
	}

	ok, err := m.storage.DeletePost(ctx, post.BoardID, post.PostID, true)
	if err != nil || !ok {
		if err != nil {
			staffLogger(rc).Warn("failed to delete post", "board", post.BoardID, "post", post.PostID, "error", err)
		}
		warnings = append(warnings, fmt.Sprintf("Failed to delete post /%s/%d/ from db", post.BoardID, post.PostID))
	}

	// the thread falls back to the bump time of its newest remaining reply
	if !post.IsThread() {
		if _, err := m.storage.BumpThread(ctx, post.BoardID, post.ParentID); err != nil {
			staffLogger(rc).Warn("failed to bump thread", "board", post.BoardID, "thread", post.ParentID, "error", err)
		}
	}
	return warnings
}

// lastFileReference reports whether post holds the only reference to its file.
// Posts without a hash and lookup failures keep the file.
func (m *Manage) lastFileReference(ctx context.Context, rc domain.RequestContext, post domain.Post) bool {
	if post.FileHex == "" {
		return false
	}
	refs, err := m.storage.SelectFilesByMD5(ctx, post.FileHex)
	if err != nil {
		staffLogger(rc).Warn("failed to count file references", "file_hex", post.FileHex, "error", err)
		return false
	}
	return len(refs) == 1
}

func (m *Manage) Approve(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	return m.sumOverSelection(ctx, rc, domain.ActionApprove, selection, m.storage.DeleteReportsByPostID, "Approved %d reports")
}

func (m *Manage) ToggleLock(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	return m.sumOverSelection(ctx, rc, domain.ActionToggleLock, selection, m.storage.TogglePostLocked, "Toggled lock state for %d posts")
}

func (m *Manage) ToggleSticky(ctx context.Context, rc domain.RequestContext, selection []domain.Selection) (string, error) {
	return m.sumOverSelection(ctx, rc, domain.ActionToggleSticky, selection, m.storage.TogglePostStickied, "Toggled sticky state for %d posts")
}

type selectionOp func(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)

func (m *Manage) sumOverSelection(ctx context.Context, rc domain.RequestContext, action string, selection []domain.Selection, op selectionOp, format string) (string, error) {
	if err := m.log.Log(ctx, rc, fmt.Sprintf("Executed %s, target posts: %s", action, joinTokens(selection))); err != nil {
		return "", err
	}

	processed := 0
	var warnings []string
	for _, sel := range selection {
		n, err := op(ctx, sel.BoardID, sel.PostID)
		if err != nil {
			staffLogger(rc).Warn("staff action failed", "action", action, "board", sel.BoardID, "post", sel.PostID, "error", err)
			warnings = append(warnings, fmt.Sprintf("Failed to %s post /%s/%d/", strings.ReplaceAll(action, "_", " "), sel.BoardID, sel.PostID))
			continue
		}
		processed += n
	}

	status := fmt.Sprintf(format, processed) + formatWarnings(warnings)
	m.finish(ctx, rc, action, status, processed, len(warnings))
	return status, nil
}

// finish logs the outcome. The action already happened, so a log failure is
// only reported.
func (m *Manage) finish(ctx context.Context, rc domain.RequestContext, action, status string, processed, warnings int) {
	metrics.ObserveModeration(action, processed, warnings)
	if err := m.log.Log(ctx, rc, status); err != nil {
		logger.Log.Error("staff action outcome not recorded", "action", action, "status", status, "error", err)
	}
}

// failed records the outcome of an action that stopped on an error.
func (m *Manage) failed(ctx context.Context, rc domain.RequestContext, action string, err error) {
	metrics.ObserveModeration(action, 0, 1)
	status := fmt.Sprintf("Failed to execute %s: %v", action, err)
	if logErr := m.log.Log(ctx, rc, status); logErr != nil {
		logger.Log.Error("staff action outcome not recorded", "action", action, "status", status, "error", logErr)
	}
}

func formatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	return "<br>Warnings:<br>- " + strings.Join(warnings, "<br>  - ")
}

func joinTokens(selection []domain.Selection) string {
	tokens := make([]string, len(selection))
	for i, sel := range selection {
		tokens[i] = sel.Token
	}
	return strings.Join(tokens, ", ")
}

func staffLogger(rc domain.RequestContext) *slog.Logger {
	if rc.Logger != nil {
		return rc.Logger
	}
	return logger.Staff(rc.Username, rc.IP)
}
