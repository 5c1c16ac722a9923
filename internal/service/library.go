package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

// unknownAuthor names items whose owner no longer exists.
const unknownAuthor = "Anonymous"

// LibraryService lists the content users chose to share publicly.
type LibraryService struct {
	content repository.ContentStore
	users   repository.UserStore
}

func NewLibraryService(content repository.ContentStore, users repository.UserStore) *LibraryService {
	return &LibraryService{content: content, users: users}
}

// List returns public items with their author. The search also matches the author name.
func (s *LibraryService) List(ctx context.Context, filter model.ContentFilter) ([]model.SharedContent, error) {
	items, err := s.content.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public content: %w", err)
	}

	names := make(map[string]string)
	out := make([]model.SharedContent, 0, len(items))
	for i := range items {
		item := &items[i]
		name, ok := names[item.UserID]
		if !ok {
			name, err = s.authorName(ctx, item.UserID)
			if err != nil {
				return nil, err
			}
			names[item.UserID] = name
		}
		if !filter.Matches(item, name) {
			continue
		}
		out = append(out, model.SharedContent{
			ContentItem: *item,
			Author:      model.Author{ID: item.UserID, Name: name},
		})
	}
	return out, nil
}

func (s *LibraryService) authorName(ctx context.Context, userID string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unknownAuthor, nil
		}
		return "", fmt.Errorf("find author: %w", err)
	}
	return u.Name, nil
}
