package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worksphere/server/internal/application/services"
	"github.com/worksphere/server/internal/domain/entities"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// DashboardHandler serves aggregate statistics and CSV export.
type DashboardHandler struct {
	stats       *services.StatsService
	export      *services.ExportService
	userService *services.UserService
	logger      *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(stats *services.StatsService, export *services.ExportService, userService *services.UserService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:       stats,
		export:      export,
		userService: userService,
		logger:      logger,
	}
}

// GetStats returns the dashboard counts for a user's visible task set.
func (h *DashboardHandler) GetStats(c echo.Context) error {
	requester, err := h.resolveRequester(c, c.Param("userId"))
	if err != nil {
		return err
	}

	stats, err := h.stats.Dashboard(c.Request().Context(), requester)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// ExportCSV streams the visible task set as a CSV attachment.
func (h *DashboardHandler) ExportCSV(c echo.Context) error {
	requester, err := h.resolveRequester(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}

	csvData, err := h.export.ExportCSV(c.Request().Context(), requester)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=tasks.csv")
	return c.Blob(http.StatusOK, "text/csv", csvData)
}

// resolveRequester looks the user up to learn its role; a deleted or
// unknown user scopes to its own id with the non-admin rule. An absent
// id means an unscoped request, as with listings.
func (h *DashboardHandler) resolveRequester(c echo.Context, userID string) (ports.Requester, error) {
	if claims, ok := c.Get(claimsContextKey).(*ports.Claims); ok && claims != nil {
		return ports.Requester{ID: claims.UserID, Role: claims.Role}, nil
	}
	if userID == "" {
		return ports.Requester{Role: entities.UserRoleAdmin}, nil
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return ports.Requester{ID: userID, Role: entities.UserRoleUser}, nil
		}
		return ports.Requester{}, err
	}
	return ports.Requester{ID: user.ID, Role: user.Role}, nil
}
