package service

import (
	"context"
	"time"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/logger"
)

type LogStorage interface {
	InsertLog(ctx context.Context, entry domain.LogEntry) error
	// SelectLogs lists entries newest first.
	SelectLogs(ctx context.Context, limit, offset uint64) ([]domain.LogEntry, error)
}

const LogPageSize = 50

// ModLog appends staff actions to the moderation log.
type ModLog struct {
	storage LogStorage
	now     func() time.Time
}

func NewModLog(storage LogStorage) *ModLog {
	return &ModLog{storage: storage, now: time.Now}
}

// Log records message under the identity and address of rc.
func (l *ModLog) Log(ctx context.Context, rc domain.RequestContext, message string) error {
	entry := domain.LogEntry{
		IP:        rc.IP,
		Timestamp: l.now().Unix(),
		Username:  rc.Username,
		Message:   message,
	}
	log := rc.Logger
	if log == nil {
		log = logger.Staff(rc.Username, rc.IP)
	}
	if err := l.storage.InsertLog(ctx, entry); err != nil {
		log.Error("failed to write moderation log", "message", message, "error", err)
		return err
	}
	log.Info(message)
	return nil
}

// Recent returns one page of the log, pages start at 1.
func (l *ModLog) Recent(ctx context.Context, page int) ([]domain.LogEntry, error) {
	if page < 1 {
		page = 1
	}
	return l.storage.SelectLogs(ctx, LogPageSize, uint64(page-1)*LogPageSize)
}
