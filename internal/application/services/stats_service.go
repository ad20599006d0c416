package services

import (
	"context"
	"time"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// StatsService computes dashboard statistics over the task set visible
// to a requester.
type StatsService struct {
	query  *QueryService
	logger *logger.Logger
	now    func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(query *QueryService, logger *logger.Logger) *StatsService {
	return &StatsService{
		query:  query,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard returns the aggregate counts for the requester's visible
// task set.
func (s *StatsService) Dashboard(ctx context.Context, requester ports.Requester) (ports.Stats, error) {
	visible, err := s.query.VisibleTasks(ctx, requester)
	if err != nil {
		return ports.Stats{}, err
	}

	stats := Summarize(visible, s.now())

	s.logger.Debugw("dashboard computed", "requester", requester.ID, "total", stats.Total)

	return stats, nil
}

// Summarize computes the dashboard counts for an already
// visibility-filtered task set. Pure function, deterministic given now.
func Summarize(visible []*entities.Task, now time.Time) ports.Stats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	var stats ports.Stats
	stats.Total = len(visible)
	for _, t := range visible {
		switch t.Status {
		case entities.StatusComplete:
			stats.Completed++
		case entities.StatusInProgress:
			stats.InProgress++
		case entities.StatusTodo:
			stats.Pending++
		}
		if t.Priority == entities.PriorityHigh {
			stats.HighPriority++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsComplete() {
			ref := t.CompletionRef()
			if !ref.Before(weekAgo) {
				stats.CompletedThisWeek++
			}
			if !ref.Before(monthAgo) {
				stats.CompletedThisMonth++
			}
		}
	}
	return stats
}
