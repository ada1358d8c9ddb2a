package api

import (
	"context"
	"fmt"
	"strings"

	"mealcircle-client/internal/models"
)

// ListHabits returns the current user's habit timeline
func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.get(ctx, "/habits", &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// ListUserHabits returns another user's habit timeline
func (c *Client) ListUserHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.get(ctx, pathf("/habits/user/%s", userID), &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// LogHabit records a habit entry
func (c *Client) LogHabit(ctx context.Context, habit models.HabitRequest) error {
	if strings.TrimSpace(habit.Description) == "" {
		return fmt.Errorf("habit description is required")
	}
	return c.post(ctx, "/habits", habit, nil)
}

// DeleteHabit removes a habit entry
func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	return c.delete(ctx, pathf("/habits/%s", habitID), nil)
}
