package sandbox

import (
	"net/http"

	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// requestWithdrawal handles POST /api/withdrawal-requests. The request stays
// pending and the balance is left alone until an admin approves it.
func (s *Server) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	me := s.store.users[currentUserID(r.Context())]
	if !me.IsGuide {
		respondError(w, "Only guides can request withdrawals", http.StatusForbidden)
		return
	}
	if req.Amount <= 0 {
		respondError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}
	if me.CommissionBalance < req.Amount {
		respondError(w, "Insufficient balance", http.StatusBadRequest)
		return
	}

	withdrawal := &models.Withdrawal{
		ID:            newID(),
		GuideID:       me.ID,
		GuideName:     me.Name,
		Amount:        req.Amount,
		UPIID:         req.UPIID,
		ContactNumber: req.ContactNumber,
		Status:        models.WithdrawalPending,
		CreatedAt:     now(),
	}
	s.store.withdrawals = append(s.store.withdrawals, withdrawal)

	log.Info().Str("guide_id", me.ID).Float64("amount", req.Amount).Msg("Sandbox withdrawal requested")
	respondCreated(w, "Withdrawal request submitted", withdrawal.ID)
}

// myWithdrawals handles GET /api/withdrawal-requests/my, newest first
func (s *Server) myWithdrawals(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	me := s.store.users[currentUserID(r.Context())]
	if !me.IsGuide {
		respondError(w, "Only guides can view withdrawals", http.StatusForbidden)
		return
	}
	withdrawals := []models.Withdrawal{}
	for i := len(s.store.withdrawals) - 1; i >= 0; i-- {
		if wd := s.store.withdrawals[i]; wd.GuideID == me.ID {
			withdrawals = append(withdrawals, *wd)
		}
	}
	respondJSON(w, http.StatusOK, withdrawals)
}
