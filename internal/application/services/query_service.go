package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// QueryService selects the subset of tasks a requester may see and that
// match the supplied criteria. Visibility is enforced here and only
// here; the task service trusts already-authorized mutation requests.
type QueryService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewQueryService creates a new query service.
func NewQueryService(taskRepo ports.TaskRepository, logger *logger.Logger) *QueryService {
	return &QueryService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// ListTasks returns the tasks visible to the requester that match every
// supplied criterion, ordered for display. No pagination: the full
// matching set is returned.
func (s *QueryService) ListTasks(ctx context.Context, requester ports.Requester, criteria ports.TaskCriteria) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	matched := Filter(tasks, requester, criteria)
	SortForDisplay(matched)

	s.logger.Debugw("task query", "requester", requester.ID, "matched", len(matched), "scanned", len(tasks))

	return matched, nil
}

// VisibleTasks returns every task the requester may see, with no
// further criteria applied. The stats and export services build on this
// so all read paths share one visibility rule.
func (s *QueryService) VisibleTasks(ctx context.Context, requester ports.Requester) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return Filter(tasks, requester, ports.TaskCriteria{}), nil
}

// Filter applies the visibility rule and the conjunctive criteria to a
// task collection. Pure function; the input slice is not modified.
func Filter(tasks []*entities.Task, requester ports.Requester, c ports.TaskCriteria) []*entities.Task {
	matched := make([]*entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.VisibleTo(requester.ID, requester.Role) {
			continue
		}
		if c.Status != nil && t.Status != *c.Status {
			continue
		}
		if c.Priority != nil && t.Priority != *c.Priority {
			continue
		}
		if c.AssignedTo != "" && t.AssignedTo != c.AssignedTo {
			continue
		}
		if c.Search != "" && !t.MatchesSearch(c.Search) {
			continue
		}
		if c.StartDate != nil && t.EffectiveDate().Before(*c.StartDate) {
			continue
		}
		if c.EndDate != nil && t.EffectiveDate().After(*c.EndDate) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// SortForDisplay orders tasks by priority rank descending, ties broken
// by status rank descending. The sort is stable so equal tasks keep
// their stored order.
func SortForDisplay(tasks []*entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority.Rank() != tasks[j].Priority.Rank() {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		}
		return tasks[i].Status.Rank() > tasks[j].Status.Rank()
	})
}
