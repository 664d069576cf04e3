package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/services"
)

const defaultUpcomingLimit = 5

// HandleDashboard returns per-client device needs and the next scheduled
// visits. An optional ?limit= caps the upcoming list.
// Route: GET /api/dashboard
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		limit := defaultUpcomingLimit
		if raw := e.Request.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return e.String(http.StatusBadRequest, "Invalid limit")
			}
			limit = n
		}

		s, err := services.LoadSnapshot(app)
		if err != nil {
			app.Logger().Error("dashboard: load failed", "error", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": "failed to load data"})
		}

		needs := services.ClientNeeds(s)
		if needs == nil {
			needs = []services.ClientNeed{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"clientNeeds":    needs,
			"upcomingVisits": services.UpcomingVisits(s, time.Now(), limit),
			"visitCount":     len(s.Visits),
			"clientCount":    len(s.Clients),
		})
	}
}
