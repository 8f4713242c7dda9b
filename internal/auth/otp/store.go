// Package otp stores pending registrations keyed by email until the
// one-time code is verified or expires.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no pending registration exists for an email.
var ErrNotFound = errors.New("otp: not found")

// PendingRegistration holds a staged signup awaiting code verification.
type PendingRegistration struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Code         string `json:"code"`
}

type Store interface {
	Put(ctx context.Context, email string, pending PendingRegistration, ttl time.Duration) error
	Get(ctx context.Context, email string) (*PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// RedisStore keeps pending registrations in redis with a TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(email string) string { return "otp:" + email }

func (s *RedisStore) Put(ctx context.Context, email string, pending PendingRegistration, ttl time.Duration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	return s.client.Set(ctx, key(email), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, email string) (*PendingRegistration, error) {
	payload, err := s.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var pending PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return &pending, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email)).Err()
}

type memoryEntry struct {
	pending   PendingRegistration
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, email string, pending PendingRegistration, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = memoryEntry{pending: pending, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return nil, ErrNotFound
	}
	pending := entry.pending
	return &pending, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
