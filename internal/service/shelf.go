package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/grocery"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/session"
)

// ShelfService manages what the user already has at home
type ShelfService struct {
	store    ShelfStore
	sessions *session.Manager
	log      *zap.Logger
}

func NewShelfService(store ShelfStore, sessions *session.Manager, log *zap.Logger) *ShelfService {
	return &ShelfService{store: store, sessions: sessions, log: log}
}

func (s *ShelfService) List(ctx context.Context, userID uuid.UUID) ([]model.ShelfItem, error) {
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.Shelf == nil {
		return []model.ShelfItem{}, nil
	}
	return snap.Shelf, nil
}

// Add stores a new shelf entry. Duplicate names are allowed.
func (s *ShelfService) Add(ctx context.Context, userID uuid.UUID, name string, amount float64, unit string) (*model.ShelfItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidShelfItem)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidShelfItem)
	}

	item := &model.ShelfItem{
		UserID: userID,
		Name:   name,
		Amount: amount,
		Unit:   strings.TrimSpace(unit),
	}
	if err := s.store.Add(ctx, item); err != nil {
		return nil, err
	}
	s.refresh(ctx, userID)
	return item, nil
}

func (s *ShelfService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Remove(ctx, userID, id); err != nil {
		return mapNotFound(err, ErrShelfItemNotFound)
	}
	s.refresh(ctx, userID)
	return nil
}

// Lookup returns the first shelf entry matching name, ignoring case and surrounding space.
func (s *ShelfService) Lookup(ctx context.Context, userID uuid.UUID, name string) (*model.ShelfItem, error) {
	snap, err := s.sessions.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := grocery.FindShelfItem(snap.Shelf, name)
	if item == nil {
		return nil, fmt.Errorf("%w: %q", ErrShelfItemNotFound, name)
	}
	return item, nil
}

func (s *ShelfService) refresh(ctx context.Context, userID uuid.UUID) {
	if _, err := s.sessions.RefreshShelf(ctx, userID); err != nil {
		s.log.Warn("failed to refresh shelf in session",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}
