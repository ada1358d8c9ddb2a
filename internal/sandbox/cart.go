package sandbox

import (
	"net/http"

	"mealcircle-client/internal/models"
)

// getCart handles GET /api/cart
func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	respondJSON(w, http.StatusOK, models.Cart{
		UserID: myID,
		Items:  append([]models.CartItem{}, s.store.carts[myID]...),
	})
}

// addCartItem handles POST /api/cart
func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.MealName == "" {
		respondError(w, "meal_name is required", http.StatusUnprocessableEntity)
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.Customizations == nil {
		item.Customizations = []models.MealIngredient{}
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	s.store.carts[myID] = append(s.store.carts[myID], item)
	s.store.mu.Unlock()

	respondMessage(w, "Item added to cart")
}

// updateCartItem handles PUT /api/cart/{index}
func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r, "index")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		respondError(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	items := s.store.carts[myID]
	if index >= len(items) {
		respondError(w, "Item not found in cart", http.StatusNotFound)
		return
	}
	items[index].Quantity = req.Quantity
	respondMessage(w, "Cart updated")
}

// removeCartItem handles DELETE /api/cart/{index}
func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r, "index")
	if !ok {
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	items := s.store.carts[myID]
	if index >= len(items) {
		respondError(w, "Item not found in cart", http.StatusNotFound)
		return
	}
	s.store.carts[myID] = append(items[:index:index], items[index+1:]...)
	respondMessage(w, "Item removed from cart")
}

// clearCart handles DELETE /api/cart
func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	delete(s.store.carts, myID)
	s.store.mu.Unlock()

	respondMessage(w, "Cart cleared")
}
