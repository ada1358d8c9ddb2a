package sandbox

import (
	"strings"
	"time"

	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// RegisterLogin makes oneTimeID log in as email. Unregistered ids log in as
// <id>@sandbox.local.
func (s *Server) RegisterLogin(oneTimeID, email, name string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.pending[oneTimeID] = pendingLogin{email: email, name: name}
}

// CreateUser adds a user, or returns the existing one with that email
func (s *Server) CreateUser(email, name string) models.User {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if u := s.store.userByEmail(email); u != nil {
		return *u
	}
	return *s.store.createUser(email, name)
}

// IssueToken signs a session token for an existing user
func (s *Server) IssueToken(userID string) (string, error) {
	return s.issueToken(userID)
}

// LinkGuide makes guideID a guide of guideeID
func (s *Server) LinkGuide(guideID, guideeID string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	guide, ok1 := s.store.users[guideID]
	guidee, ok2 := s.store.users[guideeID]
	if !ok1 || !ok2 {
		return
	}
	guide.IsGuide = true
	guide.Guidees = append(guide.Guidees, guideeID)
	guidee.Guides = append(guidee.Guides, guideID)
}

// SeedMeal adds a meal to the catalog, assigning an id when missing
func (s *Server) SeedMeal(meal models.Meal) models.Meal {
	if meal.ID == "" {
		meal.ID = newID()
	}
	if meal.Ingredients == nil {
		meal.Ingredients = []models.MealIngredient{}
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.meals = append(s.store.meals, meal)
	return meal
}

// SeedIngredient adds a DIY ingredient, assigning an id when missing
func (s *Server) SeedIngredient(ingredient models.Ingredient) models.Ingredient {
	if ingredient.ID == "" {
		ingredient.ID = newID()
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.ingredients = append(s.store.ingredients, ingredient)
	return ingredient
}

// SeedAgent adds a delivery agent linked to agent.Email
func (s *Server) SeedAgent(agent models.DeliveryAgent) models.DeliveryAgent {
	if agent.ID == "" {
		agent.ID = newID()
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusAvailable
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cp := agent
	s.store.agents = append(s.store.agents, &cp)
	return agent
}

// SeedCoupon adds a flat or percentage coupon. A zero expiresAt never expires.
func (s *Server) SeedCoupon(code, discountType string, value, minOrderValue float64, expiresAt time.Time) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	code = strings.ToUpper(code)
	s.store.coupons[code] = coupon{
		code:          code,
		discountType:  discountType,
		discountValue: value,
		minOrderValue: minOrderValue,
		expiresAt:     expiresAt,
	}
}

// SeedDemo fills the sandbox with a small catalog, a coupon, an agent and a
// second user with a post, for trying the CLI by hand
func (s *Server) SeedDemo() {
	qty := func(v float64) *float64 { return &v }

	s.SeedMeal(models.Meal{
		Name:        "Protein Power Bowl",
		Description: "Grilled chicken, quinoa and greens",
		BasePrice:   250,
		IsPreset:    true,
		Tags:        []string{"high-protein"},
		Ingredients: []models.MealIngredient{
			{IngredientID: "chicken", Name: "Chicken", Price: 120, DefaultQuantity: 1, Quantity: qty(1)},
			{IngredientID: "quinoa", Name: "Quinoa", Price: 80, DefaultQuantity: 1, Quantity: qty(1)},
		},
	})
	s.SeedMeal(models.Meal{
		Name:        "Green Detox Salad",
		Description: "Spinach, cucumber and avocado",
		BasePrice:   180,
		IsPreset:    true,
		Tags:        []string{"vegan"},
		Ingredients: []models.MealIngredient{},
	})
	s.SeedIngredient(models.Ingredient{Name: "Chicken", PricePerUnit: 120, Unit: "100g"})
	s.SeedIngredient(models.Ingredient{Name: "Quinoa", PricePerUnit: 80, Unit: "100g"})
	s.SeedIngredient(models.Ingredient{Name: "Avocado", PricePerUnit: 90, Unit: "piece"})
	s.SeedCoupon("WELCOME10", "percentage", 10, 0, time.Time{})
	s.SeedAgent(models.DeliveryAgent{
		Name:               "Ravi",
		Email:              "ravi@sandbox.local",
		Vehicle:            "bike",
		VehicleNumber:      "KA01AB1234",
		PaymentPerDelivery: 40,
	})

	friend := s.CreateUser("priya@sandbox.local", "Priya")
	s.store.mu.Lock()
	s.store.posts = append(s.store.posts, &models.Post{
		ID:        newID(),
		UserID:    friend.ID,
		UserName:  friend.Name,
		Content:   "Day 10 of clean eating!",
		VotedBy:   []string{},
		CreatedAt: now(),
	})
	s.store.mu.Unlock()

	log.Info().Str("friend_id", friend.ID).Msg("Sandbox seeded with demo data")
}
