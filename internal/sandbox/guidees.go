package sandbox

import (
	"net/http"
	"slices"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// addGuidee handles POST /api/users/{user_id}/add-guidee: the caller becomes
// a guidee of user_id, who must be a guide
func (s *Server) addGuidee(w http.ResponseWriter, r *http.Request) {
	guideID := chi.URLParam(r, "user_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	guide, ok := s.store.users[guideID]
	if !ok || !guide.IsGuide || guideID == myID {
		respondError(w, "Target user is not a guide", http.StatusBadRequest)
		return
	}
	me := s.store.users[myID]
	if !slices.Contains(guide.Guidees, myID) {
		guide.Guidees = append(guide.Guidees, myID)
	}
	if !slices.Contains(me.Guides, guideID) {
		me.Guides = append(me.Guides, guideID)
	}
	s.store.notify(guideID, "guidee", myID, me.Name, "", me.Name+" is now your guidee")
	respondMessage(w, "Added as guidee")
}

// removeGuidee handles DELETE /api/users/{user_id}/remove-guidee
func (s *Server) removeGuidee(w http.ResponseWriter, r *http.Request) {
	guideID := chi.URLParam(r, "user_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if guide, ok := s.store.users[guideID]; ok {
		guide.Guidees = slices.DeleteFunc(guide.Guidees, func(id string) bool { return id == myID })
	}
	me := s.store.users[myID]
	me.Guides = slices.DeleteFunc(me.Guides, func(id string) bool { return id == guideID })
	respondMessage(w, "Removed as guidee")
}

// myGuidees handles GET /api/my-guidees for guides
func (s *Server) myGuidees(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	me := s.store.users[currentUserID(r.Context())]
	if !me.IsGuide {
		respondError(w, "Only guides can view guidees", http.StatusForbidden)
		return
	}
	guidees := []models.Guidee{}
	for _, id := range me.Guidees {
		if u, ok := s.store.users[id]; ok {
			guidees = append(guidees, models.Guidee{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture})
		}
	}
	respondJSON(w, http.StatusOK, guidees)
}
