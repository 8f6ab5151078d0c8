package spell

import (
	"context"
	"slices"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the set holding custom words.
const DefaultRedisKey = "prosecheck:custom_words"

// WordStore keeps user-approved words. Words in the store are always
// treated as correctly spelled.
type WordStore interface {
	Has(ctx context.Context, word string) (bool, error)
	Add(ctx context.Context, words ...string) error
	Remove(ctx context.Context, words ...string) error
	All(ctx context.Context) ([]string, error)
}

// MemoryStore is an in-process WordStore.
type MemoryStore struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// NewMemoryStore returns a store seeded with words.
func NewMemoryStore(words ...string) *MemoryStore {
	s := &MemoryStore{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if n := normalize(w); n != "" {
			s.words[n] = struct{}{}
		}
	}
	return s
}

func (s *MemoryStore) Has(_ context.Context, word string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.words[normalize(word)]
	return ok, nil
}

func (s *MemoryStore) Add(_ context.Context, words ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		if n := normalize(w); n != "" {
			s.words[n] = struct{}{}
		}
	}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, words ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		delete(s.words, normalize(w))
	}
	return nil
}

// All returns the stored words sorted.
func (s *MemoryStore) All(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out, nil
}

// RedisStore keeps custom words in a redis set shared between users.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore wraps client. An empty key selects DefaultRedisKey.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Has(ctx context.Context, word string) (bool, error) {
	return s.client.SIsMember(ctx, s.key, normalize(word)).Result()
}

func (s *RedisStore) Add(ctx context.Context, words ...string) error {
	members := normalizeAll(words)
	if len(members) == 0 {
		return nil
	}
	return s.client.SAdd(ctx, s.key, members...).Err()
}

func (s *RedisStore) Remove(ctx context.Context, words ...string) error {
	members := normalizeAll(words)
	if len(members) == 0 {
		return nil
	}
	return s.client.SRem(ctx, s.key, members...).Err()
}

// All returns the stored words sorted.
func (s *RedisStore) All(ctx context.Context) ([]string, error) {
	words, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(words)
	return words, nil
}

// Ping verifies the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func normalizeAll(words []string) []any {
	out := make([]any, 0, len(words))
	for _, w := range words {
		if n := normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
