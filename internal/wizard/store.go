package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionTTL bounds how long an abandoned session lingers. No lock is held
// across wizard steps; expiry is the only cleanup needed.
const SessionTTL = 30 * time.Minute

type SessionStore interface {
	Save(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type memorySession struct {
	data    []byte
	expires time.Time
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySession{}, now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memorySession{data: data, expires: s.now().Add(SessionTTL)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok || s.now().After(rec.expires) {
		delete(s.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	var sess Session
	if err := json.Unmarshal(rec.data, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// RedisSessionStore shares sessions across replicas; the TTL doubles as
// abandonment cleanup.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, prefix: "booking-session"}
}

func (s *RedisSessionStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisSessionStore) Save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sess.ID), data, SessionTTL).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}
