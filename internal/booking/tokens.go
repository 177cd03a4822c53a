package booking

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds single-use cancel-confirmation tokens. Tokens expire on
// their own; consuming one removes it so a stale confirm cannot fire twice.
type TokenStore interface {
	Put(ctx context.Context, token, providerID, apptID string) error
	// Consume removes the token and returns the appointment id it guards.
	// ok is false for unknown, expired, or wrong-provider tokens.
	Consume(ctx context.Context, token, providerID string) (apptID string, ok bool, err error)
}

const tokenTTL = 5 * time.Minute

type memoryToken struct {
	providerID string
	apptID     string
	expires    time.Time
}

type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[string]memoryToken{}, now: time.Now}
}

func (s *MemoryTokenStore) Put(_ context.Context, token, providerID, apptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{providerID: providerID, apptID: apptID, expires: s.now().Add(tokenTTL)}
	return nil
}

func (s *MemoryTokenStore) Consume(_ context.Context, token, providerID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[token]
	if !ok {
		return "", false, nil
	}
	// Redis keys tokens by provider, so a wrong-provider attempt never
	// touches the token there; behave the same here.
	if t.providerID != providerID {
		return "", false, nil
	}
	delete(s.tokens, token)
	if s.now().After(t.expires) {
		return "", false, nil
	}
	return t.apptID, true, nil
}

// RedisTokenStore shares tokens across replicas.
type RedisTokenStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, prefix: "cancel-token"}
}

func (s *RedisTokenStore) key(providerID, token string) string {
	return s.prefix + ":" + providerID + ":" + token
}

func (s *RedisTokenStore) Put(ctx context.Context, token, providerID, apptID string) error {
	return s.rdb.Set(ctx, s.key(providerID, token), apptID, tokenTTL).Err()
}

func (s *RedisTokenStore) Consume(ctx context.Context, token, providerID string) (string, bool, error) {
	apptID, err := s.rdb.GetDel(ctx, s.key(providerID, token)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return apptID, true, nil
}
