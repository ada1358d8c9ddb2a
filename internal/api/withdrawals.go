package api

import (
	"context"
	"fmt"

	"mealcircle-client/internal/models"
)

// RequestWithdrawal asks to cash out amount of the guide's commission and
// returns the request id. The balance is only debited once an admin approves.
func (c *Client) RequestWithdrawal(ctx context.Context, req models.WithdrawalRequest) (string, error) {
	if req.Amount <= 0 {
		return "", fmt.Errorf("withdrawal amount must be positive")
	}
	var ack models.Ack
	if err := c.post(ctx, "/withdrawal-requests", req, &ack); err != nil {
		return "", err
	}
	return ack.ID, nil
}

// MyWithdrawals lists the current guide's withdrawal requests, newest first
func (c *Client) MyWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := c.get(ctx, "/withdrawal-requests/my", &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}
