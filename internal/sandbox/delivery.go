package sandbox

import (
	"net/http"
	"strings"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

var agentStatuses = map[string]bool{
	models.AgentStatusAvailable: true,
	models.AgentStatusBusy:      true,
	models.AgentStatusOffline:   true,
}

// agentForUser returns the agent linked to the user's email. Must be called
// with mu held.
func (s *store) agentForUser(userID string) *models.DeliveryAgent {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	for _, a := range s.agents {
		if strings.EqualFold(a.Email, u.Email) {
			return a
		}
	}
	return nil
}

// checkAgent handles GET /api/delivery-agents/check
func (s *Server) checkAgent(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil {
		respondJSON(w, http.StatusOK, models.AgentCheck{IsDeliveryAgent: false})
		return
	}
	cp := *agent
	respondJSON(w, http.StatusOK, models.AgentCheck{IsDeliveryAgent: true, Agent: &cp})
}

// agentOrders handles GET /api/delivery-agents/my-orders, newest first
func (s *Server) agentOrders(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil {
		respondError(w, "Not a delivery agent", http.StatusForbidden)
		return
	}
	orders := []models.Order{}
	for i := len(s.store.orders) - 1; i >= 0; i-- {
		if o := s.store.orders[i]; o.agentID == agent.ID {
			orders = append(orders, o.order)
		}
	}
	respondJSON(w, http.StatusOK, orders)
}

// agentCredits handles GET /api/delivery-agents/credits
func (s *Server) agentCredits(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil {
		respondError(w, "Not a delivery agent", http.StatusForbidden)
		return
	}
	respondJSON(w, http.StatusOK, models.AgentCredits{
		Credits:      append([]models.AgentCredit{}, s.store.agentCredits[agent.ID]...),
		TotalBalance: agent.WalletBalance,
	})
}

// setAgentStatus handles PUT /api/delivery-agents/{agent_id}/status
func (s *Server) setAgentStatus(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !agentStatuses[req.Status] {
		respondError(w, "Invalid status", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil || agent.ID != agentID {
		respondError(w, "Cannot update another agent", http.StatusForbidden)
		return
	}
	agent.Status = req.Status
	respondMessage(w, "Status updated")
}
