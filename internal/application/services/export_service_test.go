package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

func TestExportCSVHeaderAndRows(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo := &memTaskRepo{tasks: []*entities.Task{
		{
			ID:          "t1",
			Title:       "Deploy backend",
			Description: "roll out api",
			AssignedTo:  "alice",
			DueDate:     entities.DateOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
			Status:      entities.StatusInProgress,
			Priority:    entities.PriorityHigh,
			CreatorID:   "alice",
			CreatedAt:   created,
		},
		{
			ID:        "t2",
			Title:     "Write docs",
			Status:    entities.StatusTodo,
			Priority:  entities.PriorityLow,
			CreatorID: "alice",
			CreatedAt: created,
		},
	}}
	query := NewQueryService(repo, logger.NewNop())
	svc := NewExportService(query, logger.NewNop())

	out, err := svc.ExportCSV(context.Background(), ports.Requester{ID: "root", Role: entities.UserRoleAdmin})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}

	wantHeader := []string{"Title", "Description", "Assigned To", "Due Date", "Status", "Priority", "Created At"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	row := records[1]
	if row[0] != "Deploy backend" || row[2] != "alice" || row[3] != "2024-03-10" || row[4] != "In Progress" || row[5] != "High" || row[6] != "2024-03-01 09:30:00" {
		t.Errorf("row = %v", row)
	}
	if records[2][3] != entities.NoDate {
		t.Errorf("unset due date rendered as %q, want %q", records[2][3], entities.NoDate)
	}
}

func TestExportCSVRespectsVisibility(t *testing.T) {
	repo := &memTaskRepo{tasks: []*entities.Task{
		{ID: "mine", Title: "a", Status: entities.StatusTodo, Priority: entities.PriorityMedium, CreatorID: "u1", CreatedAt: time.Now()},
		{ID: "theirs", Title: "b", Status: entities.StatusTodo, Priority: entities.PriorityMedium, CreatorID: "u2", CreatedAt: time.Now()},
	}}
	query := NewQueryService(repo, logger.NewNop())
	svc := NewExportService(query, logger.NewNop())

	out, err := svc.ExportCSV(context.Background(), ports.Requester{ID: "u1", Role: entities.UserRoleUser})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header plus the requester's single task", len(records))
	}
}
