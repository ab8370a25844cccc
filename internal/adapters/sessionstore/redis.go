package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/session"
)

// Default Redis session configuration.
const (
	defaultSessionTTL = 24 * time.Hour
	sessionKeyPrefix  = "arena:session:"
	sessionIndexKey   = "arena:sessions"
)

// RedisSessions persists ledgers as JSON values with a TTL, so abandoned
// sessions expire on their own.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption applies a configuration option to RedisSessions.
type RedisOption func(*RedisSessions)

// WithTTL overrides the session expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisSessions) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisSessions connects to Redis and verifies the connection.
func NewRedisSessions(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisSessions, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	s := &RedisSessions{client: client, ttl: defaultSessionTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the Redis connection.
func (s *RedisSessions) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessions) write(ctx context.Context, l *session.Ledger) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(l.ID), payload, s.ttl)
	pipe.SAdd(ctx, sessionIndexKey, l.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Create allocates a ledger for a declared voter profile.
func (s *RedisSessions) Create(ctx context.Context, profile element.Profile) (*session.Ledger, error) {
	if !profile.IsValid() {
		return nil, ErrInvalidProfile
	}
	l := session.New(uuid.NewString(), profile)
	if err := s.write(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get loads a ledger.
func (s *RedisSessions) Get(ctx context.Context, id string) (*session.Ledger, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Drop the stale index entry left by an expired session.
			s.client.SRem(ctx, sessionIndexKey, id)
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var l session.Ledger
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, fmt.Errorf("unmarshal ledger: %w", err)
	}
	if l.Appearances == nil {
		l.Appearances = make(map[string]int)
	}
	return &l, nil
}

// Save persists the ledger's current state, refreshing its TTL.
func (s *RedisSessions) Save(ctx context.Context, l *session.Ledger) error {
	return s.write(ctx, l)
}

// Delete drops a session.
func (s *RedisSessions) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Count returns the size of the session index. Expired-but-unpruned ids
// make this a slight overcount; it feeds a gauge, not game logic.
func (s *RedisSessions) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, sessionIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return int(n), nil
}
