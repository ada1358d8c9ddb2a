package sandbox

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"strings"
	"time"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// guideCommissionRate is the share of an order credited to the guide who
// placed it for a guidee
const guideCommissionRate = 0.10

var orderStatuses = map[string]bool{
	models.OrderStatusPending:        true,
	models.OrderStatusConfirmed:      true,
	"preparing":                      true,
	models.OrderStatusOutForDelivery: true,
	models.OrderStatusDelivered:      true,
	models.OrderStatusCancelled:      true,
}

// createOrder handles POST /api/orders. The caller's cart is emptied and an
// available delivery agent, if any, is assigned.
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		respondError(w, "No items in order", http.StatusBadRequest)
		return
	}

	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	me := s.store.users[myID]
	ownerID := myID
	var commission *float64
	if req.OrderedForGuideeID != "" {
		if !slices.Contains(me.Guidees, req.OrderedForGuideeID) {
			respondError(w, "Not a guide of this user", http.StatusForbidden)
			return
		}
		ownerID = req.OrderedForGuideeID
	}
	owner := s.store.users[ownerID]

	finalPrice := math.Max(req.TotalPrice-req.DiscountAmount, 0)
	order := &agentOrder{order: models.Order{
		ID:              newID(),
		UserID:          owner.ID,
		UserName:        owner.Name,
		UserEmail:       owner.Email,
		Items:           req.Items,
		TotalPrice:      req.TotalPrice,
		DiscountAmount:  req.DiscountAmount,
		CouponCode:      req.CouponCode,
		FinalPrice:      finalPrice,
		Status:          models.OrderStatusPending,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		PaymentID:       req.PaymentID,
		CreatedAt:       now(),
	}}

	for _, a := range s.store.agents {
		if a.Status == models.AgentStatusAvailable {
			order.agentID = a.ID
			a.Status = models.AgentStatusBusy
			order.order.Status = models.OrderStatusConfirmed
			order.order.AcceptedAt = now()
			break
		}
	}
	s.store.orders = append(s.store.orders, order)

	if ownerID != myID {
		amount := math.Round(finalPrice*guideCommissionRate*100) / 100
		me.CommissionBalance += amount
		commission = &amount
	}
	delete(s.store.carts, myID)

	log.Info().Str("order_id", order.order.ID).Str("user_id", ownerID).Str("agent_id", order.agentID).Msg("Sandbox order created")

	respondJSON(w, http.StatusOK, models.OrderCreated{
		Message:          "Order created successfully",
		ID:               order.order.ID,
		CommissionEarned: commission,
	})
}

// listOrders handles GET /api/orders, newest first
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	orders := []models.Order{}
	for i := len(s.store.orders) - 1; i >= 0; i-- {
		if o := s.store.orders[i]; o.order.UserID == myID {
			orders = append(orders, o.order)
		}
	}
	respondJSON(w, http.StatusOK, orders)
}

// cancelOrder handles PUT /api/orders/{order_id}/cancel
func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o := s.store.findOrder(orderID)
	if o == nil || o.order.UserID != myID {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}
	switch o.order.Status {
	case models.OrderStatusPending, models.OrderStatusConfirmed:
	default:
		respondError(w, "Order cannot be cancelled", http.StatusBadRequest)
		return
	}
	o.order.Status = models.OrderStatusCancelled
	s.store.releaseAgent(o.agentID)
	respondMessage(w, "Order cancelled")
}

// setOrderStatus handles PUT /api/orders/{order_id}/status. Only the assigned
// agent may move an order; delivering it credits the agent's wallet.
func (s *Server) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !orderStatuses[req.Status] {
		respondError(w, fmt.Sprintf("Invalid status %q", req.Status), http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o := s.store.findOrder(orderID)
	if o == nil {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}
	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil || agent.ID != o.agentID {
		respondError(w, "Not assigned to this order", http.StatusForbidden)
		return
	}
	if o.order.Status == models.OrderStatusDelivered || o.order.Status == models.OrderStatusCancelled {
		respondError(w, "Order is already closed", http.StatusBadRequest)
		return
	}

	o.order.Status = req.Status
	switch req.Status {
	case models.OrderStatusDelivered:
		agent.WalletBalance += agent.PaymentPerDelivery
		s.store.agentCredits[agent.ID] = append(s.store.agentCredits[agent.ID], models.AgentCredit{
			ID:        newID(),
			OrderID:   o.order.ID,
			Amount:    agent.PaymentPerDelivery,
			CreatedAt: now(),
		})
		s.store.releaseAgent(agent.ID)
	case models.OrderStatusCancelled:
		s.store.releaseAgent(agent.ID)
	}
	respondMessage(w, "Order status updated")
}

// undoDelivery handles PUT /api/orders/{order_id}/undo-delivery. The
// assigned agent reopens a delivered order and the wallet credit for it is
// taken back.
func (s *Server) undoDelivery(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	o := s.store.findOrder(orderID)
	if o == nil {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}
	agent := s.store.agentForUser(currentUserID(r.Context()))
	if agent == nil || agent.ID != o.agentID {
		respondError(w, "Not assigned to this order", http.StatusForbidden)
		return
	}
	if o.order.Status != models.OrderStatusDelivered {
		respondError(w, "Order is not delivered", http.StatusBadRequest)
		return
	}

	o.order.Status = models.OrderStatusOutForDelivery
	credits := s.store.agentCredits[agent.ID]
	for i, c := range credits {
		if c.OrderID == o.order.ID {
			agent.WalletBalance -= c.Amount
			s.store.agentCredits[agent.ID] = slices.Delete(credits, i, i+1)
			break
		}
	}
	if agent.Status == models.AgentStatusAvailable {
		agent.Status = models.AgentStatusBusy
	}

	log.Info().Str("order_id", o.order.ID).Str("agent_id", agent.ID).Msg("Sandbox delivery undone")
	respondMessage(w, "Delivery undone")
}

// validateCoupon handles POST /api/coupons/validate
func (s *Server) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code       string  `json:"code"`
		OrderValue float64 `json:"order_value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	c, ok := s.store.coupons[strings.ToUpper(strings.TrimSpace(req.Code))]
	s.store.mu.Unlock()

	if !ok {
		respondError(w, "Invalid coupon code", http.StatusNotFound)
		return
	}
	if !c.expiresAt.IsZero() && time.Now().After(c.expiresAt) {
		respondError(w, "Coupon has expired", http.StatusBadRequest)
		return
	}
	if req.OrderValue < c.minOrderValue {
		respondError(w, fmt.Sprintf("Minimum order value of %.2f required", c.minOrderValue), http.StatusBadRequest)
		return
	}

	discount := c.discountValue
	if c.discountType == "percentage" {
		discount = req.OrderValue * c.discountValue / 100
	}
	discount = math.Min(discount, req.OrderValue)

	respondJSON(w, http.StatusOK, models.CouponResult{
		Valid:          true,
		DiscountAmount: discount,
		DiscountType:   c.discountType,
		FinalPrice:     req.OrderValue - discount,
	})
}

// findOrder must be called with mu held
func (s *store) findOrder(id string) *agentOrder {
	for _, o := range s.orders {
		if o.order.ID == id {
			return o
		}
	}
	return nil
}

// releaseAgent marks a busy agent available again. Must be called with mu held.
func (s *store) releaseAgent(agentID string) {
	for _, a := range s.agents {
		if a.ID == agentID && a.Status == models.AgentStatusBusy {
			a.Status = models.AgentStatusAvailable
		}
	}
}
