package models

import "time"

// UserProfile is the editable profile sub-document of a user
type UserProfile struct {
	Height    *float64 `json:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Allergies []string `json:"allergies,omitempty"`
	Expertise string   `json:"expertise,omitempty"`
}

// User is the logged-in account as returned by /auth/me
type User struct {
	ID                string      `json:"_id"`
	Email             string      `json:"email"`
	Name              string      `json:"name"`
	Picture           string      `json:"picture,omitempty"`
	Profile           UserProfile `json:"profile"`
	ContactPhone      string      `json:"contact_phone,omitempty"`
	Points            int         `json:"points"`
	InherentPoints    int         `json:"inherent_points"`
	StarRating        int         `json:"star_rating"`
	IsGuide           bool        `json:"is_guide"`
	CommissionBalance float64     `json:"commission_balance"`
	Guides            []string    `json:"guides"`
	Guidees           []string    `json:"guidees"`
	Idols             []string    `json:"idols"`
	Fans              []string    `json:"fans"`
	CreatedAt         Timestamp   `json:"created_at,omitempty"`
}

// PublicUser is another user's profile with their recent posts
type PublicUser struct {
	User
	Posts []Post `json:"posts,omitempty"`
}

// SessionData is the response of the one-time session exchange
type SessionData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
}

// MealIngredient is an ingredient line of a meal or a cart customization
type MealIngredient struct {
	IngredientID    string   `json:"ingredient_id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DefaultQuantity float64  `json:"default_quantity"`
	Quantity        *float64 `json:"quantity,omitempty"`
}

// Meal is a preset or user-built meal
type Meal struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Images      []string         `json:"images,omitempty"`
	BasePrice   float64          `json:"base_price"`
	Ingredients []MealIngredient `json:"ingredients"`
	Tags        []string         `json:"tags,omitempty"`
	IsPreset    bool             `json:"is_preset"`
	CreatedBy   string           `json:"created_by,omitempty"`
}

// Ingredient is a DIY building block priced per unit
type Ingredient struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	PricePerUnit float64  `json:"price_per_unit"`
	Unit         string   `json:"unit"`
	Description  string   `json:"description,omitempty"`
	Images       []string `json:"images,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// CartItem is one line of the server-held cart
type CartItem struct {
	MealID         string           `json:"meal_id,omitempty"`
	MealName       string           `json:"meal_name"`
	Customizations []MealIngredient `json:"customizations"`
	Quantity       int              `json:"quantity"`
	Price          float64          `json:"price"`
}

// Subtotal returns price times quantity
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the GET /cart response
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// SavedMeal is a DIY meal a user kept for reordering
type SavedMeal struct {
	ID          string           `json:"_id"`
	OwnerID     string           `json:"guide_id"`
	MealName    string           `json:"meal_name"`
	Ingredients []MealIngredient `json:"ingredients"`
	TotalPrice  float64          `json:"total_price"`
	CreatedAt   Timestamp        `json:"created_at"`
}

// SavedMealRequest is the POST /saved-meals body
type SavedMealRequest struct {
	MealName    string           `json:"meal_name"`
	Ingredients []MealIngredient `json:"ingredients"`
	TotalPrice  float64          `json:"total_price"`
}

// Address is a saved delivery address
type Address struct {
	Label       string `json:"label"`
	Apartment   string `json:"apartment,omitempty"`
	FullAddress string `json:"full_address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
	IsDefault   bool   `json:"is_default"`
}

// Order statuses used by the client
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderRequest is the POST /orders body
type OrderRequest struct {
	Items              []CartItem `json:"items"`
	TotalPrice         float64    `json:"total_price"`
	DiscountAmount     float64    `json:"discount_amount"`
	CouponCode         string     `json:"coupon_code,omitempty"`
	BillingAddress     Address    `json:"billing_address"`
	ShippingAddress    Address    `json:"shipping_address"`
	PaymentID          string     `json:"payment_id,omitempty"`
	OrderedByGuideID   string     `json:"ordered_by_guide_id,omitempty"`
	OrderedForGuideeID string     `json:"ordered_for_guidee_id,omitempty"`
}

// OrderCreated is the POST /orders response
type OrderCreated struct {
	Message          string   `json:"message"`
	ID               string   `json:"id"`
	CommissionEarned *float64 `json:"commission_earned,omitempty"`
}

// Order is a placed order
type Order struct {
	ID              string     `json:"_id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name,omitempty"`
	UserEmail       string     `json:"user_email,omitempty"`
	Items           []CartItem `json:"items"`
	TotalPrice      float64    `json:"total_price"`
	DiscountAmount  float64    `json:"discount_amount"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	FinalPrice      float64    `json:"final_price"`
	Status          string     `json:"status"`
	BillingAddress  Address    `json:"billing_address"`
	ShippingAddress Address    `json:"shipping_address"`
	PaymentID       string     `json:"payment_id,omitempty"`
	AcceptedAt      Timestamp  `json:"accepted_at,omitempty"`
	CreatedAt       Timestamp  `json:"created_at"`
}

// CouponResult is the POST /coupons/validate response
type CouponResult struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	DiscountType   string  `json:"discount_type"`
	FinalPrice     float64 `json:"final_price"`
}

// Post is a social feed entry
type Post struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserPicture string    `json:"user_picture,omitempty"`
	StarRating  int       `json:"star_rating,omitempty"`
	Content     string    `json:"content"`
	Images      []string  `json:"images,omitempty"`
	VoteUps     int       `json:"vote_ups"`
	VotedBy     []string  `json:"voted_by"`
	CreatedAt   Timestamp `json:"created_at"`
}

// VoteResult is the POST /posts/{id}/vote response; voting again removes the vote
type VoteResult struct {
	Message string `json:"message"`
	Voted   bool   `json:"voted"`
}

// Comment is a reply to a post
type Comment struct {
	ID        string    `json:"_id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Notification is an activity entry addressed to the current user
type Notification struct {
	ID           string    `json:"_id"`
	Type         string    `json:"type"`
	PostID       string    `json:"post_id,omitempty"`
	FromUser     string    `json:"from_user"`
	FromUserName string    `json:"from_user_name"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	CreatedAt    Timestamp `json:"created_at"`
}

// Guidee is the short profile of a user a guide looks after
type Guidee struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Withdrawal statuses
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// Withdrawal is a guide's request to cash out commission
type Withdrawal struct {
	ID            string    `json:"_id"`
	GuideID       string    `json:"guide_id"`
	GuideName     string    `json:"guide_name"`
	Amount        float64   `json:"amount"`
	UPIID         string    `json:"upi_id,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     Timestamp `json:"created_at"`
	ProcessedAt   Timestamp `json:"processed_at,omitempty"`
}

// WithdrawalRequest is the POST /withdrawal-requests body
type WithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	UPIID         string  `json:"upi_id,omitempty"`
	ContactNumber string  `json:"contact_number,omitempty"`
}

// Message is a direct message inside a conversation
type Message struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderPicture  string    `json:"sender_picture,omitempty"`
	Content        string    `json:"content"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	Read           bool      `json:"read"`
}

// Conversation is a two-party thread. Which side is "me" is decided by the
// caller comparing ids.
type Conversation struct {
	ID               string    `json:"_id"`
	User1ID          string    `json:"user1_id"`
	User1Name        string    `json:"user1_name"`
	User1Picture     string    `json:"user1_picture,omitempty"`
	User2ID          string    `json:"user2_id"`
	User2Name        string    `json:"user2_name"`
	User2Picture     string    `json:"user2_picture,omitempty"`
	LastMessage      string    `json:"last_message,omitempty"`
	LastMessageAt    Timestamp `json:"last_message_at,omitempty"`
	UnreadCountUser1 int       `json:"unread_count_user1"`
	UnreadCountUser2 int       `json:"unread_count_user2"`
}

// Participant identifies one side of a conversation
type Participant struct {
	ID      string
	Name    string
	Picture string
}

// OtherParticipant returns the side of the conversation that is not myID
func (c Conversation) OtherParticipant(myID string) Participant {
	if c.User1ID == myID {
		return Participant{ID: c.User2ID, Name: c.User2Name, Picture: c.User2Picture}
	}
	return Participant{ID: c.User1ID, Name: c.User1Name, Picture: c.User1Picture}
}

// UnreadFor returns the unread counter attributable to myID
func (c Conversation) UnreadFor(myID string) int {
	if c.User1ID == myID {
		return c.UnreadCountUser1
	}
	return c.UnreadCountUser2
}

// Habit is a timeline entry
type Habit struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"user_id,omitempty"`
	Date        Timestamp `json:"date"`
	HabitType   string    `json:"habit_type"`
	Description string    `json:"description"`
	Value       *float64  `json:"value,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// HabitRequest is the POST /habits body
type HabitRequest struct {
	Date        time.Time `json:"date"`
	HabitType   string    `json:"habit_type"`
	Description string    `json:"description"`
	Value       *float64  `json:"value,omitempty"`
	Unit        string    `json:"unit,omitempty"`
}

// Delivery agent statuses
const (
	AgentStatusAvailable = "available"
	AgentStatusBusy      = "busy"
	AgentStatusOffline   = "offline"
)

// DeliveryAgent is the agent record linked to a user's email
type DeliveryAgent struct {
	ID                 string  `json:"_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Image              string  `json:"image,omitempty"`
	Vehicle            string  `json:"vehicle"`
	VehicleNumber      string  `json:"vehicle_number"`
	ContactNumber      string  `json:"contact_number,omitempty"`
	Status             string  `json:"status"`
	PaymentPerDelivery float64 `json:"payment_per_delivery"`
	WalletBalance      float64 `json:"wallet_balance"`
}

// AgentCheck is the GET /delivery-agents/check response
type AgentCheck struct {
	IsDeliveryAgent bool           `json:"is_delivery_agent"`
	Agent           *DeliveryAgent `json:"agent,omitempty"`
}

// AgentCredit is one wallet credit for a delivered order
type AgentCredit struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	CreatedAt Timestamp `json:"created_at"`
}

// AgentCredits is the GET /delivery-agents/credits response
type AgentCredits struct {
	Credits      []AgentCredit `json:"credits"`
	TotalBalance float64       `json:"total_balance"`
}

// Ack is the generic {"message": ...} response of mutating endpoints
type Ack struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
