package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

var csvHeader = []string{"Title", "Description", "Assigned To", "Due Date", "Status", "Priority", "Created At"}

// ExportService renders a requester's visible task set as CSV. The same
// visibility rule applies as for task listing.
type ExportService struct {
	query  *QueryService
	logger *logger.Logger
}

// NewExportService creates a new export service.
func NewExportService(query *QueryService, logger *logger.Logger) *ExportService {
	return &ExportService{
		query:  query,
		logger: logger,
	}
}

// ExportCSV returns the visible tasks as a CSV document with columns
// Title, Description, Assigned To, Due Date, Status, Priority,
// Created At.
func (s *ExportService) ExportCSV(ctx context.Context, requester ports.Requester) ([]byte, error) {
	tasks, err := s.query.VisibleTasks(ctx, requester)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range tasks {
		record := []string{
			t.Title,
			t.Description,
			t.AssignedTo,
			t.DueDate.String(),
			string(t.Status),
			string(t.Priority),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Infow("tasks exported", "requester", requester.ID, "rows", len(tasks))

	return buf.Bytes(), nil
}
