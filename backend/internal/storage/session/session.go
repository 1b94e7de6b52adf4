// Package session keeps staff sessions in redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itchan-dev/modcore/backend/internal/service"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/domain"
	internal_errors "github.com/itchan-dev/modcore/shared/errors"
	"github.com/itchan-dev/modcore/shared/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "modcore:session:"

type Store struct {
	client *redis.Client
}

var _ service.SessionStore = (*Store)(nil)

// Connect opens a client and pings the server.
func Connect(ctx context.Context, cfg config.Redis) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	logger.Log.Info("successfully connected to redis", "addr", cfg.Addr)
	return New(client), nil
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client is shared with the rate limiters.
func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) Save(ctx context.Context, id string, session domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, data, ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (domain.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, internal_errors.ErrNotLoggedIn
	}
	if err != nil {
		return domain.Session{}, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return session, nil
}

// Delete is a no-op for unknown ids.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
