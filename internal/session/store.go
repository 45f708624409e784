package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordKeyPrefix = "session:"

// Store persists session records in Redis and keeps the live in-process
// sessions. The record survives restarts; the in-memory session is rebuilt
// from it on the first request after a restart.
type Store struct {
	client *redis.Client
	ttl    time.Duration

	mu   sync.RWMutex
	live map[string]*Session
}

// NewStore builds a store with the given session TTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		live:   make(map[string]*Session),
	}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// SaveRecord writes the durable session record under the session id.
func (s *Store) SaveRecord(ctx context.Context, id string, record Record) error {
	if s.client == nil {
		return errors.New("session store not configured")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, recordKeyPrefix+id, payload, s.ttl).Err()
}

// LoadRecord reads a persisted record. Returns (nil, nil) when absent.
func (s *Store) LoadRecord(ctx context.Context, id string) (*Record, error) {
	if s.client == nil {
		return nil, errors.New("session store not configured")
	}
	payload, err := s.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord removes the persisted record. Deleting an absent record is
// a no-op.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	if s.client == nil {
		return errors.New("session store not configured")
	}
	return s.client.Del(ctx, recordKeyPrefix+id).Err()
}

// PutLive registers an in-process session.
func (s *Store) PutLive(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[sess.ID] = sess
}

// GetLive returns the in-process session for the id, if any.
func (s *Store) GetLive(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.live[id]
	return sess, ok
}

// DropLive removes the in-process session.
func (s *Store) DropLive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
}
