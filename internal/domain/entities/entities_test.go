package entities

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatusCanonicalizesLegacySpellings(t *testing.T) {
	cases := []struct {
		in   string
		want TaskStatus
	}{
		{"To Do", StatusTodo},
		{"to-do", StatusTodo},
		{"todo", StatusTodo},
		{"Pending", StatusTodo},
		{"In Progress", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"Complete", StatusComplete},
		{"Completed", StatusComplete},
		{"done", StatusComplete},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseStatus("Blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"high": PriorityHigh, "Medium": PriorityMedium, "LOW": PriorityLow} {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParsePriority("Urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestRanks(t *testing.T) {
	if PriorityHigh.Rank() != 3 || PriorityMedium.Rank() != 2 || PriorityLow.Rank() != 1 {
		t.Error("unexpected priority ranks")
	}
	if StatusTodo.Rank() != 3 || StatusInProgress.Rank() != 2 || StatusComplete.Rank() != 1 {
		t.Error("unexpected status ranks")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := DateOf(now.Add(-24 * time.Hour))

	task := Task{DueDate: yesterday, Status: StatusInProgress}
	if !task.IsOverdue(now) {
		t.Error("task due yesterday and in progress should be overdue")
	}

	task.Status = StatusComplete
	if task.IsOverdue(now) {
		t.Error("completed task should not be overdue")
	}

	noDate := Task{Status: StatusTodo, CreatedAt: now.Add(-48 * time.Hour)}
	if noDate.IsOverdue(now) {
		t.Error("task without a due date should never be overdue")
	}
}

func TestTaskMatchesSearch(t *testing.T) {
	task := Task{
		Title:       "Write report",
		Description: "Draft the Quarterly summary for review",
		AssignedTo:  "user1",
	}

	if !task.MatchesSearch("report") {
		t.Error("should match title substring")
	}
	if !task.MatchesSearch("QUARTERLY") {
		t.Error("search must be case-insensitive against description")
	}
	if !task.MatchesSearch("user1") {
		t.Error("should match assignee")
	}
	if task.MatchesSearch("deploy") {
		t.Error("should not match absent substring")
	}
}

func TestTaskVisibility(t *testing.T) {
	task := Task{CreatorID: "u1", AssignedTo: "u2"}

	if !task.VisibleTo("anyone", UserRoleAdmin) {
		t.Error("admin sees all tasks")
	}
	if !task.VisibleTo("u1", UserRoleUser) {
		t.Error("creator sees own task")
	}
	if !task.VisibleTo("u2", UserRoleUser) {
		t.Error("assignee sees assigned task")
	}
	if task.VisibleTo("u3", UserRoleUser) {
		t.Error("unrelated user must not see the task")
	}
}

func TestTaskEditableBy(t *testing.T) {
	task := Task{CreatorID: "u1", AssignedTo: "u2"}

	if !task.EditableBy("u1", UserRoleUser) {
		t.Error("creator may edit")
	}
	if !task.EditableBy("root", UserRoleAdmin) {
		t.Error("admin may edit")
	}
	if task.EditableBy("u2", UserRoleUser) {
		t.Error("assignee alone may not edit")
	}
}

func TestEffectiveDateFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	task := Task{CreatedAt: created}
	if !task.EffectiveDate().Equal(created) {
		t.Error("without a due date the effective date is the creation time")
	}

	due := DateOf(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	task.DueDate = due
	if !task.EffectiveDate().Equal(due.Time()) {
		t.Error("with a due date the effective date is the due date")
	}
}

func TestCompletionRef(t *testing.T) {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)

	task := Task{CreatedAt: created}
	if !task.CompletionRef().Equal(created) {
		t.Error("without a completion stamp the reference is the creation time")
	}

	task.CompletedAt = &completed
	if !task.CompletionRef().Equal(completed) {
		t.Error("with a completion stamp the reference is the stamp")
	}
}
