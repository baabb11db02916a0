package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrShelfItemNotFound  = errors.New("shelf item not found")
	ErrInvalidRecipe      = errors.New("invalid recipe")
	ErrInvalidShelfItem   = errors.New("invalid shelf item")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrMediaDisabled      = errors.New("recipe image storage is not configured")
)

// RecipeStore persists recipes.
type RecipeStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, q repository.RecipeQuery) ([]model.Recipe, error)
}

// ScheduleStore persists one schedule per user.
type ScheduleStore interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*model.ScheduleRef, error)
	Save(ctx context.Context, userID uuid.UUID, schedule model.WeeklySchedule) error
}

// ShelfStore persists shelf items.
type ShelfStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.ShelfItem, error)
	Add(ctx context.Context, item *model.ShelfItem) error
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// mapNotFound swaps the repository sentinel for a domain one, keeping the message.
func mapNotFound(err error, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Join(target, err)
	}
	return err
}
