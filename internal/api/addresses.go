package api

import (
	"context"
	"fmt"

	"mealcircle-client/internal/models"
)

// ListAddresses returns the saved addresses in index order
func (c *Client) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.get(ctx, "/addresses", &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddAddress saves a new address
func (c *Client) AddAddress(ctx context.Context, address models.Address) error {
	return c.post(ctx, "/addresses", address, nil)
}

// UpdateAddress replaces the address at index
func (c *Client) UpdateAddress(ctx context.Context, index int, address models.Address) error {
	if index < 0 {
		return fmt.Errorf("invalid address index %d", index)
	}
	return c.put(ctx, pathf("/addresses/%d", index), address, nil)
}

// DeleteAddress removes the address at index
func (c *Client) DeleteAddress(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("invalid address index %d", index)
	}
	return c.delete(ctx, pathf("/addresses/%d", index), nil)
}

// SetDefaultAddress marks the address at index as the default
func (c *Client) SetDefaultAddress(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("invalid address index %d", index)
	}
	return c.put(ctx, pathf("/addresses/%d/default", index), struct{}{}, nil)
}
