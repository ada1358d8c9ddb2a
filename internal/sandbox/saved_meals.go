package sandbox

import (
	"net/http"
	"slices"
	"strings"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// listSavedMeals handles GET /api/saved-meals. The type parameter is accepted
// and ignored; only meals are saved.
func (s *Server) listSavedMeals(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	meals := []models.SavedMeal{}
	for _, m := range s.store.savedMeals {
		if m.OwnerID == myID {
			meals = append(meals, *m)
		}
	}
	respondJSON(w, http.StatusOK, meals)
}

// saveMeal handles POST /api/saved-meals
func (s *Server) saveMeal(w http.ResponseWriter, r *http.Request) {
	var req models.SavedMealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.MealName) == "" {
		respondError(w, "Meal name is required", http.StatusBadRequest)
		return
	}
	if req.Ingredients == nil {
		req.Ingredients = []models.MealIngredient{}
	}

	meal := &models.SavedMeal{
		ID:          newID(),
		OwnerID:     currentUserID(r.Context()),
		MealName:    req.MealName,
		Ingredients: req.Ingredients,
		TotalPrice:  req.TotalPrice,
		CreatedAt:   now(),
	}

	s.store.mu.Lock()
	s.store.savedMeals = append(s.store.savedMeals, meal)
	s.store.mu.Unlock()

	respondCreated(w, "Meal saved", meal.ID)
}

// deleteSavedMeal handles DELETE /api/saved-meals/{meal_id}
func (s *Server) deleteSavedMeal(w http.ResponseWriter, r *http.Request) {
	mealID := chi.URLParam(r, "meal_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	before := len(s.store.savedMeals)
	s.store.savedMeals = slices.DeleteFunc(s.store.savedMeals, func(m *models.SavedMeal) bool {
		return m.ID == mealID && m.OwnerID == myID
	})
	if len(s.store.savedMeals) == before {
		respondError(w, "Meal not found", http.StatusNotFound)
		return
	}
	respondMessage(w, "Meal deleted")
}
