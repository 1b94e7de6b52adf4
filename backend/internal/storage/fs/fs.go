// Package fs keeps uploaded files on the local disk.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/modcore/backend/internal/service"
)

type Storage struct {
	rootPath string
}

var _ service.MediaStorage = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}
	return &Storage{rootPath: p}, nil
}

// resolve maps a stored path like /b/src/1.png below the root. Paths that
// would leave the root are rejected.
func (s *Storage) resolve(filePath string) (string, error) {
	rel := filepath.Clean("/" + filepath.FromSlash(filePath))
	full := filepath.Join(s.rootPath, rel)
	if full == s.rootPath || !strings.HasPrefix(full, s.rootPath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid media path %q", filePath)
	}
	return full, nil
}

// DeleteFile removes a single file. A file that is already gone is reported
// as an error wrapping os.ErrNotExist.
func (s *Storage) DeleteFile(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to delete file: %s is a directory", filePath)
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
