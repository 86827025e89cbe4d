package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces the serialized current-user records.
const KeyPrefix = "sales_current_user:"

// UserKeyPrefix namespaces the set of session ids held by each user.
const UserKeyPrefix = "sales_user_sessions:"

func key(sessionID string) string { return KeyPrefix + sessionID }

func userKey(userID string) string { return UserKeyPrefix + userID }

// Store keeps the serialized user record of each live session. Load returns
// (nil, nil) for an unknown or expired session.
type Store interface {
	Save(ctx context.Context, userID, sessionID string, record []byte, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteUser removes every session of userID.
	DeleteUser(ctx context.Context, userID string) error
	// Clear removes every session.
	Clear(ctx context.Context) error
}

type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Save also adds the session to its user's index. The index lives as long as
// the newest session in it; ids of expired sessions left in it are harmless.
func (s *RedisStore) Save(ctx context.Context, userID, sessionID string, record []byte, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(sessionID), record, ttl)
		pipe.SAdd(ctx, userKey(userID), sessionID)
		pipe.Expire(ctx, userKey(userID), ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, key(id))
	}
	keys = append(keys, userKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	for _, prefix := range []string{KeyPrefix, UserKeyPrefix} {
		if err := s.deleteMatching(ctx, prefix+"*"); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

type memoryEntry struct {
	userID  string
	record  []byte
	expires time.Time
}

// MemoryStore keeps sessions in process; they do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, userID, sessionID string, record []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{userID: userID, record: append([]byte(nil), record...), expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, sessionID)
		return nil, nil
	}
	return append([]byte(nil), e.record...), nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, e := range s.entries {
		if e.userID == userID {
			delete(s.entries, sid)
		}
	}
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]memoryEntry{}
	return nil
}
