package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

// ContentService manages the content items a user has saved.
type ContentService struct {
	store repository.ContentStore
}

func NewContentService(store repository.ContentStore) *ContentService {
	return &ContentService{store: store}
}

// List returns the items owned by userID that pass the filter.
func (s *ContentService) List(ctx context.Context, userID string, filter model.ContentFilter) ([]model.ContentItem, error) {
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	out := make([]model.ContentItem, 0, len(items))
	for i := range items {
		if filter.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (s *ContentService) Create(ctx context.Context, userID string, f model.ContentFields) (*model.ContentItem, error) {
	if f.Title == "" || f.Type == "" || f.Source == "" {
		return nil, ErrContentFieldsRequired
	}
	if !f.Type.Valid() {
		return nil, ErrInvalidContentType
	}

	item, err := s.store.Create(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return item, nil
}

func (s *ContentService) Update(ctx context.Context, userID, id string, p model.ContentPatch) (*model.ContentItem, error) {
	if id == "" {
		return nil, ErrContentIDRequired
	}
	if (p.Title != nil && *p.Title == "") || (p.Source != nil && *p.Source == "") {
		return nil, ErrContentFieldsRequired
	}
	if p.Type != nil && !p.Type.Valid() {
		return nil, ErrInvalidContentType
	}

	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	item, err := s.store.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("update content: %w", err)
	}
	return item, nil
}

func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrContentIDRequired
	}

	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if !removed {
		return ErrContentNotFound
	}
	return nil
}

// owned loads id and reports ErrContentNotFound when it is missing or belongs
// to another user, so callers cannot discover foreign items.
func (s *ContentService) owned(ctx context.Context, userID, id string) (*model.ContentItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	if item.UserID != userID {
		return nil, ErrContentNotFound
	}
	return item, nil
}
