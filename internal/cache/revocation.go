package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "wotro:revoked:"

// RevocationStore remembers logged-out token ids until they would have
// expired anyway.
type RevocationStore struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]time.Time
}

func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb, local: make(map[string]time.Time)}
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if s.rdb != nil {
		return s.rdb.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[jti] = time.Now().Add(ttl)
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	if s.rdb != nil {
		n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.local[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.local, jti)
		return false, nil
	}
	return true, nil
}
