package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidRole     = errors.New("invalid role")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ValidationError reports a missing or malformed field. It unwraps to
// ErrValidation so callers can map the whole class to one HTTP status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Sentinel values standing in for absent references. Distinct from
// null/empty on the wire and in the data files.
const (
	Unassigned = "Unassigned"
	NoDate     = "No Date"
)

// Enums and types
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type TaskStatus string

// Canonical three-state enumeration. Historical data and clients spell
// these inconsistently ("Completed", "Pending", "To-Do"); ParseStatus
// folds every observed spelling onto the canonical value and all
// comparison sites use the canonical constants only.
const (
	StatusTodo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusComplete   TaskStatus = "Complete"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParseStatus maps a status string, including legacy spellings, to the
// canonical enumeration.
func ParseStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to do", "to-do", "todo", "pending":
		return StatusTodo, nil
	case "in progress", "in-progress", "in_progress":
		return StatusInProgress, nil
	case "complete", "completed", "done":
		return StatusComplete, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// ParsePriority maps a priority string to the canonical enumeration.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// ParseRole maps a role string to the canonical enumeration.
func ParseRole(s string) (UserRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return UserRoleAdmin, nil
	case "user":
		return UserRoleUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case StatusTodo, StatusInProgress, StatusComplete:
		return true
	default:
		return false
	}
}

// Rank orders statuses for list output: open work sorts ahead of
// finished work.
func (ts TaskStatus) Rank() int {
	switch ts {
	case StatusTodo:
		return 3
	case StatusInProgress:
		return 2
	case StatusComplete:
		return 1
	default:
		return 0
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for list output, highest first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (ur UserRole) IsValid() bool {
	switch ur {
	case UserRoleAdmin, UserRoleUser:
		return true
	default:
		return false
	}
}

// Task represents one unit of work.
type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	AssignedTo  string     `json:"assignedTo" db:"assigned_to"`
	DueDate     Date       `json:"dueDate" db:"due_date"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	CreatorID   string     `json:"userId" db:"creator_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
}

// User represents an account. The password hash never serializes to JSON.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsComplete reports whether the task is in the completed state.
func (t *Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// IsOverdue reports whether the task has a due date in the past and is
// not yet complete.
func (t *Task) IsOverdue(now time.Time) bool {
	if !t.DueDate.IsSet() {
		return false
	}
	return t.DueDate.Time().Before(now) && t.Status != StatusComplete
}

// EffectiveDate is the date used for range filtering: the due date when
// one is set, otherwise the creation timestamp.
func (t *Task) EffectiveDate() time.Time {
	if t.DueDate.IsSet() {
		return t.DueDate.Time()
	}
	return t.CreatedAt
}

// CompletionRef is the timestamp used for completed-in-window counts:
// the completion timestamp when recorded, otherwise the creation
// timestamp.
func (t *Task) CompletionRef() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.CreatedAt
}

// MatchesSearch reports whether the query is a case-insensitive
// substring of the title, description, or assignee.
func (t *Task) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.AssignedTo), q)
}

// VisibleTo reports whether a requester may see this task. Admins see
// everything; other users see tasks they created or are assigned to.
func (t *Task) VisibleTo(userID string, role UserRole) bool {
	if role == UserRoleAdmin {
		return true
	}
	return t.CreatorID == userID || t.AssignedTo == userID
}

// EditableBy reports whether a principal may mutate this task. Callers
// of the task service are expected to have checked this already; the
// service itself trusts the request.
func (t *Task) EditableBy(userID string, role UserRole) bool {
	return role == UserRoleAdmin || t.CreatorID == userID
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
