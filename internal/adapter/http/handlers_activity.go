package adapthttp

import (
	"net/http"

	"nutritrack/internal/domain"
)

func (s *Server) handleActivityLookup(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Activities.Lookup(r.Context(), r.URL.Query().Get("activityName"))
	if err != nil {
		s.respondError(w, r, "activity lookup", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleActivityAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivityType    string  `json:"ActivityType"`
		DurationMinutes float64 `json:"DurationMinutes"`
		CaloriesBurned  float64 `json:"CaloriesBurned"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "activity add", err)
		return
	}
	a, err := s.svc.Activities.Add(r.Context(), domain.Activity{
		UserID:          userID(r),
		ActivityType:    req.ActivityType,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
	})
	if err != nil {
		s.respondError(w, r, "activity add", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleActivityList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Activities.List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "activity list", err)
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusNotFound, "no activities found")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleActivityCalculate(w http.ResponseWriter, r *http.Request) {
	minutes, err := floatQuery(r, "durationMinutes")
	if err != nil {
		s.respondError(w, r, "activity calculate", err)
		return
	}
	est, err := s.svc.Activities.Calculate(r.Context(), r.URL.Query().Get("activityName"), minutes)
	if err != nil {
		s.respondError(w, r, "activity calculate", err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleBMRAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weight float64 `json:"weight"`
		Age    int     `json:"age"`
		Gender string  `json:"gender"`
		BMR    float64 `json:"bmr"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "bmr add", err)
		return
	}
	b, err := s.svc.Activities.AddBMR(r.Context(), domain.BMRCalculation{
		UserID: userID(r),
		Weight: req.Weight,
		Age:    req.Age,
		Gender: req.Gender,
		BMR:    req.BMR,
	})
	if err != nil {
		s.respondError(w, r, "bmr add", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleBMRList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Activities.ListBMR(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "bmr list", err)
		return
	}
	if items == nil {
		items = []domain.BMRCalculation{}
	}
	writeJSON(w, http.StatusOK, items)
}
