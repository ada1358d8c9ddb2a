package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mealcircle-client/internal/models"
)

// ListMeals returns preset meals, or the meals built by userID when set
func (c *Client) ListMeals(ctx context.Context, userID string) ([]models.Meal, error) {
	var query url.Values
	if userID != "" {
		query = url.Values{"user_id": {userID}}
	}
	var meals []models.Meal
	err := c.do(ctx, request{method: http.MethodGet, path: "/meals", query: query}, &meals)
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// GetMeal returns a single meal
func (c *Client) GetMeal(ctx context.Context, id string) (*models.Meal, error) {
	var meal models.Meal
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/meals/%s", id)}, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListIngredients returns the DIY ingredient catalog
func (c *Client) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ingredients"}, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// ListSavedMeals returns the DIY meals the current user saved
func (c *Client) ListSavedMeals(ctx context.Context) ([]models.SavedMeal, error) {
	var meals []models.SavedMeal
	req := request{
		method: http.MethodGet,
		path:   "/saved-meals",
		query:  url.Values{"type": {"meal"}},
		auth:   true,
	}
	if err := c.do(ctx, req, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// SaveMeal keeps a DIY meal for later and returns its id
func (c *Client) SaveMeal(ctx context.Context, meal models.SavedMealRequest) (string, error) {
	if strings.TrimSpace(meal.MealName) == "" {
		return "", fmt.Errorf("meal name is required")
	}
	if meal.Ingredients == nil {
		meal.Ingredients = []models.MealIngredient{}
	}
	var ack models.Ack
	if err := c.post(ctx, "/saved-meals", meal, &ack); err != nil {
		return "", err
	}
	return ack.ID, nil
}

// DeleteSavedMeal removes one of the current user's saved meals
func (c *Client) DeleteSavedMeal(ctx context.Context, id string) error {
	return c.delete(ctx, pathf("/saved-meals/%s", id), nil)
}
