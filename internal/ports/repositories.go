package ports

import (
	"context"

	"github.com/worksphere/server/internal/domain/entities"
)

// TaskRepository defines the interface for task persistence. List
// returns the whole collection; selection, visibility, and ordering are
// the query service's responsibility.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Task, error)
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.User, error)
}
