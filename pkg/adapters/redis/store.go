// Package redis persists conversation threads in Redis so history survives
// restarts and can be shared across replicas. It also provides the
// distributed locker used to serialize turns on one thread cluster-wide.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/voyant/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "voyant:thread:"

// neverExpires pins index entries for threads without a TTL far enough in
// the future that lazy pruning ignores them. 2100-01-01 UTC.
const neverExpires = 4102444800

// Store implements ports.HistoryStore on a Redis connection. Thread bodies
// live under prefix+id, and a ZSET under prefix+"index" orders the ids by
// expiry so List can prune lazily.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires threads after the given duration. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New dials Redis and wraps the connection in a Store.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying connection so callers can share it, for
// example with NewLocker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(threadID string) string {
	return s.prefix + threadID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) indexScore() float64 {
	if s.ttl == 0 {
		return neverExpires
	}
	return float64(time.Now().Add(s.ttl).Unix())
}

// Save writes the thread body and refreshes its index entry in one pipeline.
func (s *Store) Save(ctx context.Context, thread *domain.Thread) error {
	data, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("failed to marshal thread: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(thread.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.indexScore(), Member: thread.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write thread to redis: %w", err)
	}
	return nil
}

// Load reads one thread, mapping a missing key to domain.ErrThreadNotFound.
func (s *Store) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	val, err := s.client.Get(ctx, s.key(threadID)).Result()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read thread from redis: %w", err)
	}

	var thread domain.Thread
	if err := json.Unmarshal([]byte(val), &thread); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thread: %w", err)
	}
	return &thread, nil
}

// Delete removes the thread and its index entry.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(threadID))
	pipe.ZRem(ctx, s.indexKey(), threadID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the ids of live threads. Index rows whose score has passed
// are dropped first; the bodies behind them already expired server-side.
func (s *Store) List(ctx context.Context) ([]string, error) {
	cutoff := fmt.Sprintf("%f", float64(time.Now().Unix()))
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", cutoff).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired threads: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return ids, nil
}

// Close releases the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
