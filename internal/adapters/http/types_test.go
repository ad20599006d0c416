package http

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/ports"
)

func newContext(t *testing.T, query url.Values) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/api/tasks?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequesterFromClaimsWinOverQuery(t *testing.T) {
	c := newContext(t, url.Values{"userId": {"spoofed"}, "userRole": {"admin"}})
	c.Set(claimsContextKey, &ports.Claims{UserID: "u1", Username: "alice", Role: entities.UserRoleUser})

	r := requesterFrom(c)
	if r.ID != "u1" || r.Role != entities.UserRoleUser {
		t.Errorf("requester = %+v, want identity from token", r)
	}
}

func TestRequesterFromQueryParams(t *testing.T) {
	r := requesterFrom(newContext(t, url.Values{"userId": {"u2"}, "userRole": {"admin"}}))
	if r.ID != "u2" || r.Role != entities.UserRoleAdmin {
		t.Errorf("requester = %+v, want u2/admin", r)
	}

	// Unknown role value falls back to the user role.
	r = requesterFrom(newContext(t, url.Values{"userId": {"u3"}, "userRole": {"superuser"}}))
	if r.Role != entities.UserRoleUser {
		t.Errorf("role = %q, want user fallback", r.Role)
	}
}

func TestRequesterFromNoIdentityIsUnscoped(t *testing.T) {
	r := requesterFrom(newContext(t, url.Values{}))
	if r.ID != "" || !r.IsAdmin() {
		t.Errorf("requester = %+v, want unscoped admin", r)
	}
}

func TestCriteriaFromParsesFilters(t *testing.T) {
	c := newContext(t, url.Values{
		"status":     {"pending"},
		"priority":   {"high"},
		"assignedTo": {"alice"},
		"search":     {"deploy"},
		"startDate":  {"2024-03-01"},
		"endDate":    {"2024-03-15"},
	})

	criteria, err := criteriaFrom(c)
	if err != nil {
		t.Fatalf("criteriaFrom: %v", err)
	}
	if criteria.Status == nil || *criteria.Status != entities.StatusTodo {
		t.Errorf("status = %v, want legacy pending folded to To Do", criteria.Status)
	}
	if criteria.Priority == nil || *criteria.Priority != entities.PriorityHigh {
		t.Errorf("priority = %v, want High", criteria.Priority)
	}
	if criteria.AssignedTo != "alice" || criteria.Search != "deploy" {
		t.Errorf("assignedTo/search = %q/%q", criteria.AssignedTo, criteria.Search)
	}
	if criteria.StartDate == nil || !criteria.StartDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("startDate = %v", criteria.StartDate)
	}
	wantEnd := time.Date(2024, 3, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if criteria.EndDate == nil || !criteria.EndDate.Equal(wantEnd) {
		t.Errorf("endDate = %v, want end of day %v", criteria.EndDate, wantEnd)
	}
}

func TestCriteriaFromRejectsUnknownEnums(t *testing.T) {
	if _, err := criteriaFrom(newContext(t, url.Values{"status": {"archived"}})); err == nil {
		t.Error("unknown status should be rejected")
	}
	if _, err := criteriaFrom(newContext(t, url.Values{"priority": {"urgent"}})); err == nil {
		t.Error("unknown priority should be rejected")
	}
	if _, err := criteriaFrom(newContext(t, url.Values{"startDate": {"03/15/2024"}})); err == nil {
		t.Error("unparseable date should be rejected")
	}
}
