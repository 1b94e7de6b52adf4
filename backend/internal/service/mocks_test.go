package service

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
)

// --- Mocks ---

type MockLogStorage struct {
	mu             sync.Mutex
	Entries        []domain.LogEntry
	InsertLogFunc  func(ctx context.Context, entry domain.LogEntry) error
	SelectLogsFunc func(ctx context.Context, limit, offset uint64) ([]domain.LogEntry, error)
}

func (m *MockLogStorage) InsertLog(ctx context.Context, entry domain.LogEntry) error {
	if m.InsertLogFunc != nil {
		if err := m.InsertLogFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockLogStorage) SelectLogs(ctx context.Context, limit, offset uint64) ([]domain.LogEntry, error) {
	if m.SelectLogsFunc != nil {
		return m.SelectLogsFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockLogStorage) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		msgs[i] = e.Message
	}
	return msgs
}

type MockManageStorage struct {
	SelectRebuildPostsFunc         func(ctx context.Context, boardID domain.BoardID) ([]domain.Post, error)
	UpdateRebuildPostFunc          func(ctx context.Context, post domain.RebuildPost) (bool, error)
	SelectPostWithRepliesFunc      func(ctx context.Context, boardID domain.BoardID, postID domain.PostID) ([]domain.Post, error)
	SelectFilesByMD5Func           func(ctx context.Context, fileHex string) ([]domain.Post, error)
	DeletePostFunc                 func(ctx context.Context, boardID domain.BoardID, postID domain.PostID, cascade bool) (bool, error)
	BumpThreadFunc                 func(ctx context.Context, boardID domain.BoardID, threadID domain.PostID) (bool, error)
	DeleteReportsByPostIDFunc      func(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)
	TogglePostLockedFunc           func(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)
	TogglePostStickiedFunc         func(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error)
	InsertImportAccountsTinyIBFunc func(ctx context.Context, params domain.ImportParams) (int, error)
	InsertImportPostsTinyIBFunc    func(ctx context.Context, params domain.ImportParams) (int, error)
	InitPostAutoIncrementFunc      func(ctx context.Context, boardID domain.BoardID) error
	RefreshPostAutoIncrementFunc   func(ctx context.Context, boardID domain.BoardID) error

	Calls []string
}

func (m *MockManageStorage) SelectRebuildPosts(ctx context.Context, boardID domain.BoardID) ([]domain.Post, error) {
	m.Calls = append(m.Calls, "SelectRebuildPosts")
	if m.SelectRebuildPostsFunc != nil {
		return m.SelectRebuildPostsFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockManageStorage) UpdateRebuildPost(ctx context.Context, post domain.RebuildPost) (bool, error) {
	m.Calls = append(m.Calls, "UpdateRebuildPost")
	if m.UpdateRebuildPostFunc != nil {
		return m.UpdateRebuildPostFunc(ctx, post)
	}
	return true, nil
}

func (m *MockManageStorage) SelectPostWithReplies(ctx context.Context, boardID domain.BoardID, postID domain.PostID) ([]domain.Post, error) {
	m.Calls = append(m.Calls, "SelectPostWithReplies")
	if m.SelectPostWithRepliesFunc != nil {
		return m.SelectPostWithRepliesFunc(ctx, boardID, postID)
	}
	return nil, nil
}

func (m *MockManageStorage) SelectFilesByMD5(ctx context.Context, fileHex string) ([]domain.Post, error) {
	m.Calls = append(m.Calls, "SelectFilesByMD5")
	if m.SelectFilesByMD5Func != nil {
		return m.SelectFilesByMD5Func(ctx, fileHex)
	}
	return []domain.Post{{FileHex: fileHex}}, nil
}

func (m *MockManageStorage) DeletePost(ctx context.Context, boardID domain.BoardID, postID domain.PostID, cascade bool) (bool, error) {
	m.Calls = append(m.Calls, "DeletePost")
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, boardID, postID, cascade)
	}
	return true, nil
}

func (m *MockManageStorage) BumpThread(ctx context.Context, boardID domain.BoardID, threadID domain.PostID) (bool, error) {
	m.Calls = append(m.Calls, "BumpThread")
	if m.BumpThreadFunc != nil {
		return m.BumpThreadFunc(ctx, boardID, threadID)
	}
	return true, nil
}

func (m *MockManageStorage) DeleteReportsByPostID(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	m.Calls = append(m.Calls, "DeleteReportsByPostID")
	if m.DeleteReportsByPostIDFunc != nil {
		return m.DeleteReportsByPostIDFunc(ctx, boardID, postID)
	}
	return 0, nil
}

func (m *MockManageStorage) TogglePostLocked(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	m.Calls = append(m.Calls, "TogglePostLocked")
	if m.TogglePostLockedFunc != nil {
		return m.TogglePostLockedFunc(ctx, boardID, postID)
	}
	return 0, nil
}

func (m *MockManageStorage) TogglePostStickied(ctx context.Context, boardID domain.BoardID, postID domain.PostID) (int, error) {
	m.Calls = append(m.Calls, "TogglePostStickied")
	if m.TogglePostStickiedFunc != nil {
		return m.TogglePostStickiedFunc(ctx, boardID, postID)
	}
	return 0, nil
}

func (m *MockManageStorage) InsertImportAccountsTinyIB(ctx context.Context, params domain.ImportParams) (int, error) {
	m.Calls = append(m.Calls, "InsertImportAccountsTinyIB")
	if m.InsertImportAccountsTinyIBFunc != nil {
		return m.InsertImportAccountsTinyIBFunc(ctx, params)
	}
	return 0, nil
}

func (m *MockManageStorage) InsertImportPostsTinyIB(ctx context.Context, params domain.ImportParams) (int, error) {
	m.Calls = append(m.Calls, "InsertImportPostsTinyIB")
	if m.InsertImportPostsTinyIBFunc != nil {
		return m.InsertImportPostsTinyIBFunc(ctx, params)
	}
	return 0, nil
}

func (m *MockManageStorage) InitPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error {
	m.Calls = append(m.Calls, "InitPostAutoIncrement")
	if m.InitPostAutoIncrementFunc != nil {
		return m.InitPostAutoIncrementFunc(ctx, boardID)
	}
	return nil
}

func (m *MockManageStorage) RefreshPostAutoIncrement(ctx context.Context, boardID domain.BoardID) error {
	m.Calls = append(m.Calls, "RefreshPostAutoIncrement")
	if m.RefreshPostAutoIncrementFunc != nil {
		return m.RefreshPostAutoIncrementFunc(ctx, boardID)
	}
	return nil
}

// MockRenderer renders deterministic strings so tests can assert on them.
type MockRenderer struct {
	NameblockFunc func(name, tripcode, email string, role int, timestamp int64) (string, error)
	MessageFunc   func(boardID domain.BoardID, message string, truncate int) (domain.RenderedMessage, error)
}

func (m *MockRenderer) Nameblock(name, tripcode, email string, role int, timestamp int64) (string, error) {
	if m.NameblockFunc != nil {
		return m.NameblockFunc(name, tripcode, email, role, timestamp)
	}
	return name + "|" + tripcode + "|" + email, nil
}

func (m *MockRenderer) Message(boardID domain.BoardID, message string, truncate int) (domain.RenderedMessage, error) {
	if m.MessageFunc != nil {
		return m.MessageFunc(boardID, message, truncate)
	}
	return domain.RenderedMessage{Rendered: message}, nil
}

type MockMediaStorage struct {
	Deleted        []string
	DeleteFileFunc func(ctx context.Context, path string) error
}

func (m *MockMediaStorage) DeleteFile(ctx context.Context, path string) error {
	if m.DeleteFileFunc != nil {
		if err := m.DeleteFileFunc(ctx, path); err != nil {
			return err
		}
	}
	m.Deleted = append(m.Deleted, path)
	return nil
}

type MockAccountStorage struct {
	AccountFunc func(ctx context.Context, username string) (domain.Account, error)
}

func (m *MockAccountStorage) Account(ctx context.Context, username string) (domain.Account, error) {
	if m.AccountFunc != nil {
		return m.AccountFunc(ctx, username)
	}
	return domain.Account{}, &errors.NotFoundError{What: "Account", ID: username}
}

// MockSessionStore is an in-memory SessionStore.
type MockSessionStore struct {
	Sessions map[string]domain.Session
	TTLs     map[string]time.Duration
	SaveErr  error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{Sessions: map[string]domain.Session{}, TTLs: map[string]time.Duration{}}
}

func (m *MockSessionStore) Save(ctx context.Context, id string, session domain.Session, ttl time.Duration) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Sessions[id] = session
	m.TTLs[id] = ttl
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	s, ok := m.Sessions[id]
	if !ok {
		return domain.Session{}, errors.ErrNotLoggedIn
	}
	return s, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	delete(m.Sessions, id)
	return nil
}

// MockHasher treats "hash:" + password as the hash of password.
type MockHasher struct{}

func (MockHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (MockHasher) Verify(password, hash string) bool { return hash == "hash:"+password }

type MockVerifier struct {
	Err      error
	Received []string
}

func (m *MockVerifier) Verify(ctx context.Context, response string) error {
	m.Received = append(m.Received, response)
	return m.Err
}

var testBoards = NewBoards([]domain.BoardConfig{
	{ID: "b", Name: "Random", Anonymous: "Anonymous", Truncate: 15},
	{ID: "g", Name: "Technology", Anonymous: "Nameless", Truncate: 5},
})

func testRC() domain.RequestContext {
	return domain.RequestContext{IP: "127.0.0.1", Username: "mod", Role: domain.RoleAdmin}
}

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}
