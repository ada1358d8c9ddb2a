package sandbox

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// habitsFor returns userID's habits, latest date first. Must be called with
// mu held.
func (s *store) habitsFor(userID string) []models.Habit {
	habits := []models.Habit{}
	for _, h := range s.habits {
		if h.UserID == userID {
			habits = append(habits, *h)
		}
	}
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].Date.After(habits[j].Date.Time)
	})
	return habits
}

// listHabits handles GET /api/habits
func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	respondJSON(w, http.StatusOK, s.store.habitsFor(currentUserID(r.Context())))
}

// listUserHabits handles GET /api/habits/user/{user_id}. Guides may read
// their guidees' timelines.
func (s *Server) listUserHabits(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.users[userID]; !ok {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	if userID != myID {
		me := s.store.users[myID]
		allowed := false
		for _, id := range me.Guidees {
			if id == userID {
				allowed = true
				break
			}
		}
		if !allowed {
			respondError(w, "Not authorized to view these habits", http.StatusForbidden)
			return
		}
	}
	respondJSON(w, http.StatusOK, s.store.habitsFor(userID))
}

// logHabit handles POST /api/habits
func (s *Server) logHabit(w http.ResponseWriter, r *http.Request) {
	var req models.HabitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.HabitType) == "" || strings.TrimSpace(req.Description) == "" {
		respondError(w, "habit_type and description are required", http.StatusUnprocessableEntity)
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}

	habit := &models.Habit{
		ID:          newID(),
		UserID:      currentUserID(r.Context()),
		Date:        models.NewTimestamp(req.Date.UTC()),
		HabitType:   req.HabitType,
		Description: req.Description,
		Value:       req.Value,
		Unit:        req.Unit,
		CreatedAt:   now(),
	}

	s.store.mu.Lock()
	s.store.habits = append(s.store.habits, habit)
	s.store.mu.Unlock()

	respondCreated(w, "Habit logged successfully", habit.ID)
}

// deleteHabit handles DELETE /api/habits/{habit_id}
func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, h := range s.store.habits {
		if h.ID == habitID && h.UserID == myID {
			s.store.habits = append(s.store.habits[:i], s.store.habits[i+1:]...)
			respondMessage(w, "Habit deleted")
			return
		}
	}
	respondError(w, "Habit not found", http.StatusNotFound)
}
