package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/ports"
)

// TaskRepositoryImpl implements ports.TaskRepository on Postgres.
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, assigned_to, due_date, status, priority, creator_id, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.AssignedTo, task.DueDate,
		task.Status, task.Priority, task.CreatorID, task.CreatedAt, task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	query := `
		SELECT id, title, description, assigned_to, due_date, status, priority, creator_id, created_at, completed_at
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, assigned_to = $4, due_date = $5,
			status = $6, priority = $7, completed_at = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.AssignedTo, task.DueDate,
		task.Status, task.Priority, task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// List returns the whole collection in insertion order. Visibility and
// criteria filtering happen in the query service so both storage
// drivers share one rule set.
func (r *TaskRepositoryImpl) List(ctx context.Context) ([]*entities.Task, error) {
	query := `
		SELECT id, title, description, assigned_to, due_date, status, priority, creator_id, created_at, completed_at
		FROM tasks
		ORDER BY created_at, id`

	tasks := []*entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("tasks table missing, run migrations: %w", err)
		}
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}
