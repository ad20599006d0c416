package ports

import (
	"time"

	"github.com/worksphere/server/internal/domain/entities"
)

// Requester identifies the principal a query runs on behalf of.
type Requester struct {
	ID   string
	Role entities.UserRole
}

// IsAdmin reports whether the requester holds the admin role.
func (r Requester) IsAdmin() bool {
	return r.Role == entities.UserRoleAdmin
}

// TaskCriteria holds the optional, conjunctive filters for a task
// listing. Zero values mean "not supplied".
type TaskCriteria struct {
	Status     *entities.TaskStatus
	Priority   *entities.Priority
	AssignedTo string
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Stats holds the dashboard aggregate counts over a visible task set.
type Stats struct {
	Total              int `json:"total"`
	Completed          int `json:"completed"`
	InProgress         int `json:"inProgress"`
	Pending            int `json:"pending"`
	HighPriority       int `json:"highPriority"`
	Overdue            int `json:"overdue"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	CompletedThisMonth int `json:"completedThisMonth"`
}

// CreateTaskRequest carries the fields accepted on task creation.
// Status and Priority arrive as strings so legacy spellings can be
// folded onto the canonical enums.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatorID   string `json:"userId"`
}

// UpdateTaskRequest is a partial patch; only non-nil fields change.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// CreateUserRequest carries the fields accepted on user creation.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email"`
	Role     string `json:"role" validate:"required"`
}

// UpdateUserRequest is a partial patch; only non-nil fields change.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// LoginRequest carries credentials for authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the successful authentication payload. The user is
// returned without its password hash; Token is a signed JWT.
type LoginResponse struct {
	Success bool           `json:"success"`
	Token   string         `json:"token"`
	User    *entities.User `json:"user"`
}

// Claims are the identity fields carried in a validated token.
type Claims struct {
	UserID   string
	Username string
	Role     entities.UserRole
}
