package adapthttp

import (
	"net/http"
)

func (s *Server) handleFoodSearch(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Food.Search(r.Context(), r.URL.Query().Get("productName"))
	if err != nil {
		s.respondError(w, r, "food search", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFoodCompSpecs(w http.ResponseWriter, r *http.Request) {
	itemID, err := intQuery(r, "itemID")
	if err != nil {
		s.respondError(w, r, "food comp specs", err)
		return
	}
	sortKey, err := intQuery(r, "sortKey")
	if err != nil {
		s.respondError(w, r, "food comp specs", err)
		return
	}
	specs, err := s.svc.Food.CompSpecs(r.Context(), itemID, int(sortKey))
	if err != nil {
		s.respondError(w, r, "food comp specs", err)
		return
	}
	writeJSON(w, http.StatusOK, specs)
}

func (s *Server) handleFoodNutrients(w http.ResponseWriter, r *http.Request) {
	itemID, err := intQuery(r, "itemID")
	if err != nil {
		s.respondError(w, r, "food nutrients", err)
		return
	}
	weight, err := floatQuery(r, "weight")
	if err != nil {
		s.respondError(w, r, "food nutrients", err)
		return
	}
	values, err := s.svc.Food.Nutrients(r.Context(), itemID, weight)
	if err != nil {
		s.respondError(w, r, "food nutrients", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"itemID":    itemID,
		"weight":    weight,
		"nutrients": values,
	})
}
