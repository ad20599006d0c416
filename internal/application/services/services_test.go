package services

import (
	"context"

	"github.com/worksphere/server/internal/domain/entities"
)

// memTaskRepo is an in-memory TaskRepository for service tests.
type memTaskRepo struct {
	tasks []*entities.Task
}

func (m *memTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *memTaskRepo) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (m *memTaskRepo) Update(ctx context.Context, task *entities.Task) error {
	for i, t := range m.tasks {
		if t.ID == task.ID {
			m.tasks[i] = task
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (m *memTaskRepo) Delete(ctx context.Context, id string) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (m *memTaskRepo) List(ctx context.Context) ([]*entities.Task, error) {
	return m.tasks, nil
}

// memUserRepo is an in-memory UserRepository for service tests.
type memUserRepo struct {
	users []*entities.User
}

func (m *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (m *memUserRepo) Update(ctx context.Context, user *entities.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return entities.ErrUserNotFound
}

func (m *memUserRepo) Delete(ctx context.Context, id string) error {
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return entities.ErrUserNotFound
}

func (m *memUserRepo) List(ctx context.Context) ([]*entities.User, error) {
	return m.users, nil
}
