package sandbox

import (
	"sort"
	"strings"
	"sync"
	"time"

	"mealcircle-client/internal/models"

	"github.com/google/uuid"
)

type pendingLogin struct {
	email string
	name  string
}

type coupon struct {
	code          string
	discountType  string // flat or percentage
	discountValue float64
	minOrderValue float64
	expiresAt     time.Time
}

type note struct {
	models.Notification
	userID string
}

type agentOrder struct {
	order   models.Order
	agentID string
}

// store is the sandbox's whole state, guarded by one mutex
type store struct {
	mu sync.Mutex

	users        map[string]*models.User
	addresses    map[string][]models.Address
	pending      map[string]pendingLogin
	usedLogins   map[string]bool
	revoked      map[string]bool
	carts        map[string][]models.CartItem
	meals        []models.Meal
	ingredients  []models.Ingredient
	orders       []*agentOrder
	coupons      map[string]coupon
	posts        []*models.Post
	comments     []models.Comment
	notes        []*note
	convs        []*models.Conversation
	messages     []*models.Message
	habits       []*models.Habit
	savedMeals   []*models.SavedMeal
	withdrawals  []*models.Withdrawal
	agents       []*models.DeliveryAgent
	agentCredits map[string][]models.AgentCredit
}

func newStore() *store {
	return &store{
		users:        make(map[string]*models.User),
		addresses:    make(map[string][]models.Address),
		pending:      make(map[string]pendingLogin),
		usedLogins:   make(map[string]bool),
		revoked:      make(map[string]bool),
		carts:        make(map[string][]models.CartItem),
		coupons:      make(map[string]coupon),
		agentCredits: make(map[string][]models.AgentCredit),
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:24]
}

func now() models.Timestamp {
	return models.NewTimestamp(time.Now().UTC())
}

// userByEmail must be called with mu held
func (s *store) userByEmail(email string) *models.User {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// createUser must be called with mu held
func (s *store) createUser(email, name string) *models.User {
	u := &models.User{
		ID:        newID(),
		Email:     email,
		Name:      name,
		Guides:    []string{},
		Guidees:   []string{},
		Idols:     []string{},
		Fans:      []string{},
		CreatedAt: now(),
	}
	s.users[u.ID] = u
	return u
}

// redeemLogin consumes a one-time session id and returns the user it logs in
func (s *store) redeemLogin(oneTimeID string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usedLogins[oneTimeID] {
		return nil, false
	}
	s.usedLogins[oneTimeID] = true

	login, ok := s.pending[oneTimeID]
	if ok {
		delete(s.pending, oneTimeID)
	} else {
		login = pendingLogin{email: oneTimeID + "@sandbox.local", name: oneTimeID}
	}

	user := s.userByEmail(login.email)
	if user == nil {
		user = s.createUser(login.email, login.name)
	}
	cp := *user
	return &cp, true
}

func (s *store) getUser(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (s *store) updateProfile(id string, profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Profile = profile
	}
}

func (s *store) isRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token]
}

func (s *store) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// notify must be called with mu held
func (s *store) notify(userID, kind, fromID, fromName, postID, message string) {
	if userID == fromID {
		return
	}
	s.notes = append(s.notes, &note{
		userID: userID,
		Notification: models.Notification{
			ID:           newID(),
			Type:         kind,
			PostID:       postID,
			FromUser:     fromID,
			FromUserName: fromName,
			Message:      message,
			CreatedAt:    now(),
		},
	})
}

func sortPostsNewest(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt.Time)
	})
}
