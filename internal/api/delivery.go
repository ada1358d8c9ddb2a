package api

import (
	"context"
	"fmt"

	"mealcircle-client/internal/models"
)

var agentStatuses = map[string]bool{
	models.AgentStatusAvailable: true,
	models.AgentStatusBusy:      true,
	models.AgentStatusOffline:   true,
}

// CheckDeliveryAgent reports whether the current user is a delivery agent
func (c *Client) CheckDeliveryAgent(ctx context.Context) (*models.AgentCheck, error) {
	var check models.AgentCheck
	if err := c.get(ctx, "/delivery-agents/check", &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// AgentOrders returns the orders assigned to the current agent
func (c *Client) AgentOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/delivery-agents/my-orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AgentCredits returns the agent's wallet credits and balance
func (c *Client) AgentCredits(ctx context.Context) (*models.AgentCredits, error) {
	var credits models.AgentCredits
	if err := c.get(ctx, "/delivery-agents/credits", &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// SetAgentStatus sets an agent to available, busy or offline
func (c *Client) SetAgentStatus(ctx context.Context, agentID, status string) error {
	if !agentStatuses[status] {
		return fmt.Errorf("invalid agent status %q", status)
	}
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.put(ctx, pathf("/delivery-agents/%s/status", agentID), body, nil)
}
