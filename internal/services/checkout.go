package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// Checkout turns the cached cart into an order
type Checkout struct {
	session *Session
	cart    *Cart
}

// NewCheckout creates a checkout flow over session and cart
func NewCheckout(session *Session, cart *Cart) *Checkout {
	return &Checkout{session: session, cart: cart}
}

// CheckoutRequest carries what the person chose on the checkout screen
type CheckoutRequest struct {
	ShippingAddress models.Address
	// BillingAddress defaults to the shipping address when zero
	BillingAddress *models.Address
	CouponCode     string
	PaymentID      string
	// ForGuideeID places the order on behalf of a guidee of the current user
	ForGuideeID string
}

// Quote is the price breakdown shown before placing an order
type Quote struct {
	Items      []models.CartItem
	Total      float64
	Discount   float64
	FinalPrice float64
	CouponCode string
}

// Quote prices the current cart, applying coupon when given
func (c *Checkout) Quote(ctx context.Context, coupon string) (*Quote, error) {
	c.cart.Refresh(ctx)
	items := c.cart.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	q := &Quote{Items: items, Total: c.cart.TotalPrice()}
	q.FinalPrice = q.Total

	coupon = strings.TrimSpace(coupon)
	if coupon == "" {
		return q, nil
	}

	client := c.session.Client()
	if !client.HasToken() {
		return nil, api.ErrUnauthenticated
	}
	result, err := client.ValidateCoupon(ctx, coupon, q.Total)
	if err != nil {
		return nil, err
	}
	q.CouponCode = strings.ToUpper(coupon)
	q.Discount = math.Min(result.DiscountAmount, q.Total)
	q.FinalPrice = q.Total - q.Discount
	return q, nil
}

// PlaceOrder submits the cart as an order and resynchronizes the cart, which
// the backend empties
func (c *Checkout) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.OrderCreated, error) {
	client := c.session.Client()
	if !client.HasToken() {
		return nil, api.ErrUnauthenticated
	}

	quote, err := c.Quote(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := models.OrderRequest{
		Items:           quote.Items,
		TotalPrice:      quote.Total,
		DiscountAmount:  quote.Discount,
		CouponCode:      quote.CouponCode,
		BillingAddress:  billing,
		ShippingAddress: req.ShippingAddress,
		PaymentID:       req.PaymentID,
	}
	if req.ForGuideeID != "" {
		if user := c.session.User(); user != nil {
			order.OrderedByGuideID = user.ID
		}
		order.OrderedForGuideeID = req.ForGuideeID
	}

	created, err := client.PlaceOrder(ctx, order)
	if err != nil {
		log.Error().Err(err).Msg("Error placing order")
		return nil, err
	}
	log.Info().Str("order_id", created.ID).Float64("final_price", quote.FinalPrice).Msg("Order placed")

	c.cart.Refresh(ctx)
	return created, nil
}
