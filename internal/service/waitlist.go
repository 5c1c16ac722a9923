package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

// WaitlistService captures landing page signups.
type WaitlistService struct {
	store repository.WaitlistStore
	now   func() time.Time
}

func NewWaitlistService(store repository.WaitlistStore) *WaitlistService {
	return &WaitlistService{store: store, now: time.Now}
}

// Subscribe adds email to the waitlist. Subscribing twice is not an error.
func (s *WaitlistService) Subscribe(ctx context.Context, email string) (model.MessageResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.MessageResponse{}, ErrEmailRequired
	}
	if !validEmail(email) {
		return model.MessageResponse{}, ErrInvalidEmail
	}

	if _, err := s.store.Add(ctx, model.Subscriber{Email: email, SubscribedAt: s.now().UTC()}); err != nil {
		return model.MessageResponse{}, fmt.Errorf("add subscriber: %w", err)
	}
	return model.MessageResponse{Message: "Successfully subscribed!"}, nil
}

// Count reports how many addresses are on the waitlist.
func (s *WaitlistService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
