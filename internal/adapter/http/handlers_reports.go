package adapthttp

import (
	"context"
	"net/http"

	"nutritrack/internal/app"
)

type reportFunc func(ctx context.Context, userID int64, q app.ReportQuery) (*app.Report, error)

// serveReport answers with the bucket series under key.
func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, key string, fn reportFunc) {
	q := r.URL.Query()
	rep, err := fn(r.Context(), userID(r), app.ReportQuery{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		ViewType:  q.Get("viewType"),
	})
	if err != nil {
		s.respondError(w, r, "report "+key, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   rep.UserID,
		"viewType": rep.ViewType,
		key:        rep.Buckets,
	})
}

func (s *Server) handleCaloriesReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "caloriesData", s.svc.Reports.CaloriesIntake)
}

func (s *Server) handleWaterReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "waterIntake", s.svc.Reports.WaterIntake)
}

func (s *Server) handleBurnedReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "caloriesBurned", s.svc.Reports.CaloriesBurned)
}
