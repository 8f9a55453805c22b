package adapthttp

import (
	"net/http"

	"nutritrack/internal/domain"
)

func (s *Server) handleIngredientDetails(w http.ResponseWriter, r *http.Request) {
	ing, err := s.svc.Ingredients.Details(r.Context(), r.URL.Query().Get("IngredientName"))
	if err != nil {
		s.respondError(w, r, "ingredient details", err)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (s *Server) handleIngredientRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IngredientName string   `json:"IngredientName"`
		Quantity       float64  `json:"Quantity"`
		IntakeDateTime string   `json:"IntakeDateTime"`
		Protein        float64  `json:"Protein"`
		Fat            float64  `json:"Fat"`
		Fibers         float64  `json:"Fibers"`
		Calories       float64  `json:"Calories"`
		Latitude       *float64 `json:"Latitude"`
		Longitude      *float64 `json:"Longitude"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "ingredient register", err)
		return
	}
	at, err := optionalTime("IntakeDateTime", req.IntakeDateTime)
	if err != nil {
		s.respondError(w, r, "ingredient register", err)
		return
	}
	in := domain.IndividualIntake{
		UserID:         userID(r),
		IngredientName: req.IngredientName,
		Quantity:       req.Quantity,
		Protein:        req.Protein,
		Fat:            req.Fat,
		Fibers:         req.Fibers,
		Calories:       req.Calories,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
	if at != nil {
		in.IntakeDateTime = *at
	}

	rec, err := s.svc.Ingredients.Register(r.Context(), in)
	if err != nil {
		s.respondError(w, r, "ingredient register", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleIngredientList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Ingredients.List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "ingredient list", err)
		return
	}
	if items == nil {
		items = []domain.IndividualIntake{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleIngredientUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "intakeId")
	if err != nil {
		s.respondError(w, r, "ingredient update", err)
		return
	}
	var req struct {
		Quantity       *float64 `json:"Quantity"`
		IntakeDateTime string   `json:"IntakeDateTime"`
		IngredientName *string  `json:"IngredientName"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "ingredient update", err)
		return
	}
	at, err := optionalTime("IntakeDateTime", req.IntakeDateTime)
	if err != nil {
		s.respondError(w, r, "ingredient update", err)
		return
	}

	p := domain.IndividualIntakePatch{Quantity: req.Quantity, IntakeDateTime: at, IngredientName: req.IngredientName}
	if err := s.svc.Ingredients.Update(r.Context(), userID(r), id, p); err != nil {
		s.respondError(w, r, "ingredient update", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Ingredient intake updated"})
}

func (s *Server) handleIngredientDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "intakeId")
	if err != nil {
		s.respondError(w, r, "ingredient delete", err)
		return
	}
	if err := s.svc.Ingredients.Delete(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, "ingredient delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Ingredient intake deleted"})
}
