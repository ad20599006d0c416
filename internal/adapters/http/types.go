package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/ports"
)

// MessageResponse is the confirmation payload for deletions.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

const claimsContextKey = "claims"

// requesterFrom resolves the principal a request runs on behalf of.
// A validated bearer token wins; otherwise the legacy userId/userRole
// query fields identify the caller. A request with no identity at all
// is treated as unscoped, matching the original API where listings
// without a userId returned the full collection.
func requesterFrom(c echo.Context) ports.Requester {
	if claims, ok := c.Get(claimsContextKey).(*ports.Claims); ok && claims != nil {
		return ports.Requester{ID: claims.UserID, Role: claims.Role}
	}

	id := c.QueryParam("userId")
	if id == "" {
		return ports.Requester{Role: entities.UserRoleAdmin}
	}

	role := entities.UserRoleUser
	if parsed, err := entities.ParseRole(c.QueryParam("userRole")); err == nil {
		role = parsed
	}
	return ports.Requester{ID: id, Role: role}
}

// criteriaFrom parses the optional task filters from query parameters.
func criteriaFrom(c echo.Context) (ports.TaskCriteria, error) {
	var criteria ports.TaskCriteria

	if s := c.QueryParam("status"); s != "" {
		status, err := entities.ParseStatus(s)
		if err != nil {
			return criteria, entities.NewValidationError("status", err.Error())
		}
		criteria.Status = &status
	}
	if p := c.QueryParam("priority"); p != "" {
		priority, err := entities.ParsePriority(p)
		if err != nil {
			return criteria, entities.NewValidationError("priority", err.Error())
		}
		criteria.Priority = &priority
	}
	criteria.AssignedTo = c.QueryParam("assignedTo")
	criteria.Search = c.QueryParam("search")

	if s := c.QueryParam("startDate"); s != "" {
		start, err := entities.ParseDate(s)
		if err != nil {
			return criteria, entities.NewValidationError("startDate", err.Error())
		}
		if start.IsSet() {
			t := start.Time()
			criteria.StartDate = &t
		}
	}
	if s := c.QueryParam("endDate"); s != "" {
		end, err := entities.ParseDate(s)
		if err != nil {
			return criteria, entities.NewValidationError("endDate", err.Error())
		}
		if end.IsSet() {
			// Inclusive upper bound: cover the whole end day.
			t := end.Time().Add(24*time.Hour - time.Nanosecond)
			criteria.EndDate = &t
		}
	}

	return criteria, nil
}
