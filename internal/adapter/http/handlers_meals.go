package adapthttp

import (
	"encoding/json"
	"net/http"

	"nutritrack/internal/domain"
)

type mealRequest struct {
	MealName     string          `json:"MealName"`
	TotalKcal    float64         `json:"totalKcal"`
	TotalProtein float64         `json:"totalProtein"`
	TotalFat     float64         `json:"totalFat"`
	TotalFibers  float64         `json:"totalFibers"`
	TotalKJ      float64         `json:"totalkJ"`
	Ingredients  json.RawMessage `json:"Ingredients"`
}

// ingredients decodes the ingredient list, which clients send either as an
// array or as a JSON-encoded string.
func (m mealRequest) ingredients() ([]domain.MealIngredient, error) {
	raw := m.Ingredients
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if encoded == "" {
			return nil, nil
		}
		raw = json.RawMessage(encoded)
	}
	var out []domain.MealIngredient
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.Invalid("Ingredients", "must be a list of {name, weight}")
	}
	return out, nil
}

func (s *Server) handleMealCreate(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "meal create", err)
		return
	}
	ingredients, err := req.ingredients()
	if err != nil {
		s.respondError(w, r, "meal create", err)
		return
	}
	// Any UserId in the body is ignored; the owner is the session user.
	meal, err := s.svc.Meals.Create(r.Context(), userID(r), domain.Meal{
		Name:         req.MealName,
		TotalKcal:    req.TotalKcal,
		TotalProtein: req.TotalProtein,
		TotalFat:     req.TotalFat,
		TotalFibers:  req.TotalFibers,
		TotalKJ:      req.TotalKJ,
		Ingredients:  ingredients,
	})
	if err != nil {
		s.respondError(w, r, "meal create", err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleMealList(w http.ResponseWriter, r *http.Request) {
	meals, err := s.svc.Meals.List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "meal list", err)
		return
	}
	if len(meals) == 0 {
		writeError(w, http.StatusNotFound, "no meals found")
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "mealId")
	if err != nil {
		s.respondError(w, r, "meal delete", err)
		return
	}
	if err := s.svc.Meals.Delete(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, "meal delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Meal deleted"})
}

type intakeRequest struct {
	MealID          int64    `json:"MealID"`
	MealName        string   `json:"MealName"`
	MealWeight      float64  `json:"MealWeight"`
	ConsumptionTime string   `json:"ConsumptionTime"`
	Latitude        *float64 `json:"Latitude"`
	Longitude       *float64 `json:"Longitude"`
}

func (s *Server) handleIntakeRecord(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "intake record", err)
		return
	}
	at, err := optionalTime("ConsumptionTime", req.ConsumptionTime)
	if err != nil {
		s.respondError(w, r, "intake record", err)
		return
	}
	in := domain.NewIntake{
		UserID:     userID(r),
		MealID:     req.MealID,
		MealName:   req.MealName,
		MealWeight: req.MealWeight,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if at != nil {
		in.ConsumptionTime = *at
	}

	rec, err := s.svc.Intakes.Record(r.Context(), in)
	if err != nil {
		s.respondError(w, r, "intake record", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleIntakeList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Intakes.List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, "intake list", err)
		return
	}
	if items == nil {
		items = []domain.IntakeRecord{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleIntakeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "intakeId")
	if err != nil {
		s.respondError(w, r, "intake update", err)
		return
	}
	var req struct {
		MealWeight      *float64 `json:"MealWeight"`
		MealName        *string  `json:"MealName"`
		ConsumptionTime string   `json:"ConsumptionTime"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.respondError(w, r, "intake update", err)
		return
	}
	at, err := optionalTime("ConsumptionTime", req.ConsumptionTime)
	if err != nil {
		s.respondError(w, r, "intake update", err)
		return
	}

	p := domain.IntakePatch{MealWeight: req.MealWeight, MealName: req.MealName, ConsumptionTime: at}
	if err := s.svc.Intakes.Update(r.Context(), userID(r), id, p); err != nil {
		s.respondError(w, r, "intake update", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Intake updated"})
}

func (s *Server) handleIntakeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "intakeId")
	if err != nil {
		s.respondError(w, r, "intake delete", err)
		return
	}
	if err := s.svc.Intakes.Delete(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, "intake delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Intake deleted"})
}
