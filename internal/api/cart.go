package api

import (
	"context"
	"fmt"

	"mealcircle-client/internal/models"
)

// GetCart returns the server-held cart
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/cart", &cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// AddCartItem appends item to the cart
func (c *Client) AddCartItem(ctx context.Context, item models.CartItem) error {
	if item.Customizations == nil {
		item.Customizations = []models.MealIngredient{}
	}
	return c.post(ctx, "/cart", item, nil)
}

// RemoveCartItem removes the line at index
func (c *Client) RemoveCartItem(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("invalid cart index %d", index)
	}
	return c.delete(ctx, pathf("/cart/%d", index), nil)
}

// UpdateCartQuantity sets the quantity of the line at index
func (c *Client) UpdateCartQuantity(ctx context.Context, index, quantity int) error {
	if index < 0 {
		return fmt.Errorf("invalid cart index %d", index)
	}
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	return c.put(ctx, pathf("/cart/%d", index), body, nil)
}

// ClearCart empties the cart
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart", nil)
}
