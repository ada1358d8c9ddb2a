package api

import (
	"context"
	"fmt"
	"strings"

	"mealcircle-client/internal/models"
)

// PlaceOrder submits an order; the backend empties the cart on success
func (c *Client) PlaceOrder(ctx context.Context, order models.OrderRequest) (*models.OrderCreated, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	var created models.OrderCreated
	if err := c.post(ctx, "/orders", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListOrders returns the current user's orders, newest first
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder cancels a pending order
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.put(ctx, pathf("/orders/%s/cancel", orderID), struct{}{}, nil)
}

// SetOrderStatus moves an order to status; used by delivery agents
func (c *Client) SetOrderStatus(ctx context.Context, orderID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("status is required")
	}
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.put(ctx, pathf("/orders/%s/status", orderID), body, nil)
}

// UndoDelivery moves a delivered order back to out for delivery and takes
// back the agent's credit for it. Only the assigned agent may undo.
func (c *Client) UndoDelivery(ctx context.Context, orderID string) error {
	return c.put(ctx, pathf("/orders/%s/undo-delivery", orderID), struct{}{}, nil)
}

// ValidateCoupon checks code against orderValue and returns the discount
func (c *Client) ValidateCoupon(ctx context.Context, code string, orderValue float64) (*models.CouponResult, error) {
	body := struct {
		Code       string  `json:"code"`
		OrderValue float64 `json:"order_value"`
	}{Code: strings.ToUpper(strings.TrimSpace(code)), OrderValue: orderValue}

	var result models.CouponResult
	if err := c.post(ctx, "/coupons/validate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
