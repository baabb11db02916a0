package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/weekprep/backend/internal/grocery"
	"github.com/pageza/weekprep/backend/internal/session"
)

// GroceryService derives the shopping list from the session's schedule and shelf.
type GroceryService struct {
	sessions *session.Manager
}

func NewGroceryService(sessions *session.Manager) *GroceryService {
	return &GroceryService{sessions: sessions}
}

func (s *GroceryService) List(ctx context.Context, userID uuid.UUID) (grocery.List, error) {
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return grocery.List{}, err
	}
	return grocery.Build(snap.Schedule, snap.Shelf), nil
}

// Text renders the list in the plain-text format used for copying to a notes app.
func (s *GroceryService) Text(ctx context.Context, userID uuid.UUID) (string, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return "", err
	}
	return grocery.Text(list), nil
}

func (s *GroceryService) Summary(ctx context.Context, userID uuid.UUID) (grocery.Summary, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return grocery.Summary{}, err
	}
	return grocery.Summarize(list), nil
}
