package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mealcircle-client/internal/models"
)

// ExchangeSession trades a one-time OAuth session id for a durable session token
func (c *Client) ExchangeSession(ctx context.Context, oneTimeID string) (*models.SessionData, error) {
	oneTimeID = strings.TrimSpace(oneTimeID)
	if oneTimeID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	var data models.SessionData
	err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/auth/session-data",
		headers: map[string]string{headerSessionID: oneTimeID},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SessionToken == "" {
		return nil, fmt.Errorf("session exchange returned no token")
	}
	return &data, nil
}

// Me returns the user the session token belongs to
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the session token on the backend
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", struct{}{}, nil)
}

// UpdateProfile sends the profile fields to be stored for the current user
func (c *Client) UpdateProfile(ctx context.Context, profile models.UserProfile) error {
	return c.put(ctx, "/users/profile", profile, nil)
}
