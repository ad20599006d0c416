package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// TaskService applies validated create/update/delete operations to
// tasks and maintains the completion-timestamp invariant: CompletedAt
// is non-nil exactly when the task's status is Complete.
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateTask creates a new task, applying defaults for every omitted
// field. Creating directly into the completed state stamps CompletedAt
// immediately.
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.NewValidationError("title", "is required")
	}

	status := entities.StatusTodo
	if req.Status != "" {
		parsed, err := entities.ParseStatus(req.Status)
		if err != nil {
			return nil, entities.NewValidationError("status", err.Error())
		}
		status = parsed
	}

	priority := entities.PriorityMedium
	if req.Priority != "" {
		parsed, err := entities.ParsePriority(req.Priority)
		if err != nil {
			return nil, entities.NewValidationError("priority", err.Error())
		}
		priority = parsed
	}

	dueDate, err := entities.ParseDate(req.DueDate)
	if err != nil {
		return nil, entities.NewValidationError("dueDate", err.Error())
	}

	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = entities.Unassigned
	}

	now := s.now()
	task := &entities.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		AssignedTo:  assignedTo,
		DueDate:     dueDate,
		Status:      status,
		Priority:    priority,
		CreatorID:   req.CreatorID,
		CreatedAt:   now,
	}
	if task.Status == entities.StatusComplete {
		completed := now
		task.CompletedAt = &completed
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("task created", "task_id", task.ID, "title", task.Title, "creator", task.CreatorID)

	return task, nil
}

// UpdateTask applies a partial patch to a task. When the patch carries
// a status, the completion timestamp is normalized: entering Complete
// stamps it, staying Complete keeps the original stamp, and any
// non-Complete status clears it even if the status value did not
// change.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, entities.NewValidationError("title", "is required")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssignedTo != nil {
		assignedTo := *req.AssignedTo
		if assignedTo == "" {
			assignedTo = entities.Unassigned
		}
		task.AssignedTo = assignedTo
	}
	if req.DueDate != nil {
		dueDate, err := entities.ParseDate(*req.DueDate)
		if err != nil {
			return nil, entities.NewValidationError("dueDate", err.Error())
		}
		task.DueDate = dueDate
	}
	if req.Priority != nil {
		priority, err := entities.ParsePriority(*req.Priority)
		if err != nil {
			return nil, entities.NewValidationError("priority", err.Error())
		}
		task.Priority = priority
	}
	if req.Status != nil {
		status, err := entities.ParseStatus(*req.Status)
		if err != nil {
			return nil, entities.NewValidationError("status", err.Error())
		}
		if status == entities.StatusComplete {
			if task.Status != entities.StatusComplete {
				completed := s.now()
				task.CompletedAt = &completed
			}
		} else {
			task.CompletedAt = nil
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("task updated", "task_id", task.ID, "status", task.Status)

	return task, nil
}

// SetStatus transitions a task directly to a status. Used by the kanban
// board's drag-and-drop; the same completion-timestamp rule applies.
func (s *TaskService) SetStatus(ctx context.Context, id string, status string) (*entities.Task, error) {
	return s.UpdateTask(ctx, id, ports.UpdateTaskRequest{Status: &status})
}

// DeleteTask removes a task. No cascading effects on other entities.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("task deleted", "task_id", id)

	return nil
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}
