package services

import (
	"context"
	"sync"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// TokenClient hands out an API client bound to the current session token
type TokenClient interface {
	Client() *api.Client
}

// Cart mirrors the server-held cart. Every mutation goes to the backend and is
// followed by a full refetch; local state is never patched.
type Cart struct {
	clients TokenClient

	mu      sync.RWMutex
	items   []models.CartItem
	loading bool
}

// NewCart creates an empty cart cache
func NewCart(clients TokenClient) *Cart {
	return &Cart{
		clients: clients,
		items:   []models.CartItem{},
	}
}

// Refresh replaces the cached items with the backend's cart. Without a token
// it does nothing; on error the last known items are kept.
func (c *Cart) Refresh(ctx context.Context) {
	client := c.clients.Client()
	if !client.HasToken() {
		return
	}

	c.setLoading(true)
	defer c.setLoading(false)

	cart, err := client.GetCart(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching cart")
		return
	}

	c.mu.Lock()
	c.items = cart.Items
	c.mu.Unlock()
}

// Add appends item on the backend and resynchronizes
func (c *Cart) Add(ctx context.Context, item models.CartItem) error {
	return c.mutate(ctx, "Error adding to cart", func(client *api.Client) error {
		return client.AddCartItem(ctx, item)
	})
}

// Remove deletes the line at index on the backend and resynchronizes
func (c *Cart) Remove(ctx context.Context, index int) error {
	return c.mutate(ctx, "Error removing from cart", func(client *api.Client) error {
		return client.RemoveCartItem(ctx, index)
	})
}

// UpdateQuantity sets the quantity of the line at index and resynchronizes
func (c *Cart) UpdateQuantity(ctx context.Context, index, quantity int) error {
	return c.mutate(ctx, "Error updating quantity", func(client *api.Client) error {
		return client.UpdateCartQuantity(ctx, index, quantity)
	})
}

// Clear empties the cart on the backend and resynchronizes
func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, "Error clearing cart", func(client *api.Client) error {
		return client.ClearCart(ctx)
	})
}

func (c *Cart) mutate(ctx context.Context, msg string, call func(*api.Client) error) error {
	client := c.clients.Client()
	if !client.HasToken() {
		return api.ErrUnauthenticated
	}
	if err := call(client); err != nil {
		log.Error().Err(err).Msg(msg)
		return err
	}
	c.Refresh(ctx)
	return nil
}

// Items returns a copy of the cached cart lines
func (c *Cart) Items() []models.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Count returns the total number of units in the cart
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// TotalPrice is recomputed from the cached items on every call. It is for
// display only; the backend prices the order itself.
func (c *Cart) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Loading reports whether a refresh is in flight
func (c *Cart) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Reset drops the cached items, used when the user logs out
func (c *Cart) Reset() {
	c.mu.Lock()
	c.items = []models.CartItem{}
	c.mu.Unlock()
}

func (c *Cart) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}
