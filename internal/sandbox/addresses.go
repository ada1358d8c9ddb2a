package sandbox

import (
	"net/http"

	"mealcircle-client/internal/models"
)

// setDefault marks index as the only default address
func setDefault(addresses []models.Address, index int) {
	for i := range addresses {
		addresses[i].IsDefault = i == index
	}
}

// listAddresses handles GET /api/addresses
func (s *Server) listAddresses(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	respondJSON(w, http.StatusOK, append([]models.Address{}, s.store.addresses[currentUserID(r.Context())]...))
}

// addAddress handles POST /api/addresses. The first address becomes the
// default.
func (s *Server) addAddress(w http.ResponseWriter, r *http.Request) {
	var address models.Address
	if !decodeBody(w, r, &address) {
		return
	}
	if address.FullAddress == "" {
		respondError(w, "full_address is required", http.StatusUnprocessableEntity)
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	addresses := append(s.store.addresses[myID], address)
	if len(addresses) == 1 || address.IsDefault {
		setDefault(addresses, len(addresses)-1)
	}
	s.store.addresses[myID] = addresses
	respondMessage(w, "Address added successfully")
}

// updateAddress handles PUT /api/addresses/{index}
func (s *Server) updateAddress(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r, "index")
	if !ok {
		return
	}
	var address models.Address
	if !decodeBody(w, r, &address) {
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	addresses := s.store.addresses[myID]
	if index >= len(addresses) {
		respondError(w, "Address not found", http.StatusNotFound)
		return
	}
	wasDefault := addresses[index].IsDefault
	addresses[index] = address
	if address.IsDefault {
		setDefault(addresses, index)
	} else {
		addresses[index].IsDefault = wasDefault
	}
	respondMessage(w, "Address updated successfully")
}

// deleteAddress handles DELETE /api/addresses/{index}
func (s *Server) deleteAddress(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r, "index")
	if !ok {
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	addresses := s.store.addresses[myID]
	if index >= len(addresses) {
		respondError(w, "Address not found", http.StatusNotFound)
		return
	}
	wasDefault := addresses[index].IsDefault
	addresses = append(addresses[:index:index], addresses[index+1:]...)
	if wasDefault && len(addresses) > 0 {
		setDefault(addresses, 0)
	}
	s.store.addresses[myID] = addresses
	respondMessage(w, "Address deleted successfully")
}

// setDefaultAddress handles PUT /api/addresses/{index}/default
func (s *Server) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r, "index")
	if !ok {
		return
	}

	myID := currentUserID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	addresses := s.store.addresses[myID]
	if index >= len(addresses) {
		respondError(w, "Address not found", http.StatusNotFound)
		return
	}
	setDefault(addresses, index)
	respondMessage(w, "Default address updated")
}
