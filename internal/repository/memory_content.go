package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

// MemoryContentStore is a process-local ContentStore that lists items in insertion order.
type MemoryContentStore struct {
	mu    sync.RWMutex
	items map[string]*model.ContentItem
	order []string
	now   func() time.Time
}

// NewMemoryContentStore creates an empty MemoryContentStore using the wall clock.
func NewMemoryContentStore() *MemoryContentStore {
	return NewMemoryContentStoreWithClock(time.Now)
}

// NewMemoryContentStoreWithClock creates an empty MemoryContentStore with a custom clock.
func NewMemoryContentStoreWithClock(now func() time.Time) *MemoryContentStore {
	s := &MemoryContentStore{now: now}
	s.Reset()
	return s
}

// Reset drops every stored item.
func (s *MemoryContentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*model.ContentItem)
	s.order = nil
}

func (s *MemoryContentStore) Create(_ context.Context, userID string, f model.ContentFields) (*model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := newContentRecord(uuid.NewString(), userID, f, s.now().UTC())
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item.Clone(), nil
}

func (s *MemoryContentStore) ListByUser(_ context.Context, userID string) ([]model.ContentItem, error) {
	return s.list(func(c *model.ContentItem) bool { return c.UserID == userID }), nil
}

func (s *MemoryContentStore) ListPublic(_ context.Context) ([]model.ContentItem, error) {
	return s.list(func(c *model.ContentItem) bool { return c.IsPublic }), nil
}

func (s *MemoryContentStore) GetByID(_ context.Context, id string) (*model.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	return item.Clone(), nil
}

func (s *MemoryContentStore) Update(_ context.Context, id string, p model.ContentPatch) (*model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	p.Apply(item)
	item.UpdatedAt = s.now().UTC()
	return item.Clone(), nil
}

func (s *MemoryContentStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return true, nil
}

func (s *MemoryContentStore) list(match func(*model.ContentItem) bool) []model.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ContentItem, 0)
	for _, id := range s.order {
		if item := s.items[id]; match(item) {
			out = append(out, *item.Clone())
		}
	}
	return out
}
