package adapthttp

import (
	"net/http"

	"nutritrack/internal/domain"
)

func (s *Server) handleWaterAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WaterDateTime string   `json:"WaterDateTime"`
		Liter         *float64 `json:"Liter"`
		Latitude      *float64 `json:"Latitude"`
		Longitude     *float64 `json:"Longitude"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "water add", err)
		return
	}
	if req.WaterDateTime == "" || req.Liter == nil {
		s.respondError(w, r, "water add", domain.Invalid("", "WaterDateTime and Liter are required"))
		return
	}
	at, err := optionalTime("WaterDateTime", req.WaterDateTime)
	if err != nil {
		s.respondError(w, r, "water add", err)
		return
	}

	id, err := s.svc.Water.Add(r.Context(), domain.WaterIntake{
		UserID:    userID(r),
		DateTime:  *at,
		Liters:    *req.Liter,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		s.respondError(w, r, "water add", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Water intake added", "WaterIntakeID": id})
}

func (s *Server) handleWaterList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Water.List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "water list", err)
		return
	}
	if items == nil {
		items = []domain.WaterIntake{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleWaterUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "waterIntakeId")
	if err != nil {
		s.respondError(w, r, "water update", err)
		return
	}
	var req struct {
		Liter         *float64 `json:"Liter"`
		WaterDateTime string   `json:"WaterDateTime"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "water update", err)
		return
	}
	at, err := optionalTime("WaterDateTime", req.WaterDateTime)
	if err != nil {
		s.respondError(w, r, "water update", err)
		return
	}

	if err := s.svc.Water.Update(r.Context(), userID(r), id, domain.WaterPatch{Liters: req.Liter, DateTime: at}); err != nil {
		s.respondError(w, r, "water update", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Water intake updated"})
}

func (s *Server) handleWaterDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "waterIntakeId")
	if err != nil {
		s.respondError(w, r, "water delete", err)
		return
	}
	if err := s.svc.Water.Delete(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, "water delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Water intake deleted"})
}
