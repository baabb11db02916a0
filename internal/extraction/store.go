package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DraftStore keeps extracted drafts for a while so the form can be reopened.
type DraftStore interface {
	Save(ctx context.Context, userID uuid.UUID, d *Draft) error
	Get(ctx context.Context, userID uuid.UUID, id string) (*Draft, error)
}

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func draftKey(userID uuid.UUID, id string) string {
	return fmt.Sprintf("extraction:draft:%s:%s", userID, id)
}

func (s *RedisDraftStore) Save(ctx context.Context, userID uuid.UUID, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(userID, d.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Get(ctx context.Context, userID uuid.UUID, id string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(userID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

type memoryDraft struct {
	draft   Draft
	expires time.Time
}

// MemoryDraftStore is used when Redis is not configured.
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]memoryDraft
	now    func() time.Time
}

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{ttl: ttl, drafts: make(map[string]memoryDraft), now: time.Now}
}

func (s *MemoryDraftStore) Save(_ context.Context, userID uuid.UUID, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftKey(userID, d.ID)] = memoryDraft{draft: *d, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, userID uuid.UUID, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := draftKey(userID, id)
	entry, ok := s.drafts[key]
	if !ok {
		return nil, ErrDraftExpired
	}
	if s.now().After(entry.expires) {
		delete(s.drafts, key)
		return nil, ErrDraftExpired
	}
	d := entry.draft
	return &d, nil
}
