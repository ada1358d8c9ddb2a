package sandbox

import (
	"net/http"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// listMeals handles GET /api/meals. Presets are always listed; meals built by
// user_id are added when the parameter is present.
func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	meals := []models.Meal{}
	for _, m := range s.store.meals {
		if m.IsPreset || (userID != "" && m.CreatedBy == userID) {
			meals = append(meals, m)
		}
	}
	respondJSON(w, http.StatusOK, meals)
}

// getMeal handles GET /api/meals/{meal_id}
func (s *Server) getMeal(w http.ResponseWriter, r *http.Request) {
	mealID := chi.URLParam(r, "meal_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, m := range s.store.meals {
		if m.ID == mealID {
			respondJSON(w, http.StatusOK, m)
			return
		}
	}
	respondError(w, "Meal not found", http.StatusNotFound)
}

// listIngredients handles GET /api/ingredients
func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	respondJSON(w, http.StatusOK, append([]models.Ingredient{}, s.store.ingredients...))
}
