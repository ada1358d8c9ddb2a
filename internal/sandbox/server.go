// Package sandbox is an in-memory stand-in for the MealCircle backend. It
// serves the same REST contract under /api and is used for local development
// and tests.
package sandbox

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server holds the sandbox state and its signing secret
type Server struct {
	store  *store
	secret []byte
}

// New creates an empty sandbox signing tokens with secret
func New(secret string) *Server {
	return &Server{store: newStore(), secret: []byte(secret)}
}

// Handler returns the router serving the backend contract
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/auth/session-data", s.sessionData)
		r.Get("/meals", s.listMeals)
		r.Get("/meals/{meal_id}", s.getMeal)
		r.Get("/ingredients", s.listIngredients)
		r.Get("/posts", s.listPosts)
		r.Get("/posts/{post_id}/comments", s.listComments)
		r.Get("/users/{user_id}", s.getUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.me)
			r.Post("/auth/logout", s.logout)
			r.Put("/users/profile", s.updateProfile)
			r.Post("/users/{user_id}/become-fan", s.becomeFan)
			r.Delete("/users/{user_id}/unfan", s.unfan)
			r.Post("/users/{user_id}/add-guidee", s.addGuidee)
			r.Delete("/users/{user_id}/remove-guidee", s.removeGuidee)
			r.Get("/my-guidees", s.myGuidees)

			r.Post("/posts", s.createPost)
			r.Put("/posts/{post_id}", s.updatePost)
			r.Delete("/posts/{post_id}", s.deletePost)
			r.Post("/posts/{post_id}/vote", s.votePost)
			r.Post("/posts/{post_id}/comments", s.addComment)
			r.Get("/notifications", s.listNotifications)
			r.Put("/notifications/{notification_id}/read", s.markNotificationRead)

			r.Get("/conversations", s.listConversations)
			r.Get("/conversations/{id}", s.openConversation)
			r.Get("/conversations/{id}/messages", s.listMessages)
			r.Post("/conversations/{id}/messages", s.sendMessage)

			r.Get("/cart", s.getCart)
			r.Post("/cart", s.addCartItem)
			r.Delete("/cart", s.clearCart)
			r.Put("/cart/{index}", s.updateCartItem)
			r.Delete("/cart/{index}", s.removeCartItem)

			r.Post("/orders", s.createOrder)
			r.Get("/orders", s.listOrders)
			r.Put("/orders/{order_id}/cancel", s.cancelOrder)
			r.Put("/orders/{order_id}/status", s.setOrderStatus)
			r.Put("/orders/{order_id}/undo-delivery", s.undoDelivery)
			r.Post("/coupons/validate", s.validateCoupon)

			r.Get("/saved-meals", s.listSavedMeals)
			r.Post("/saved-meals", s.saveMeal)
			r.Delete("/saved-meals/{meal_id}", s.deleteSavedMeal)

			r.Post("/withdrawal-requests", s.requestWithdrawal)
			r.Get("/withdrawal-requests/my", s.myWithdrawals)

			r.Get("/habits", s.listHabits)
			r.Get("/habits/user/{user_id}", s.listUserHabits)
			r.Post("/habits", s.logHabit)
			r.Delete("/habits/{habit_id}", s.deleteHabit)

			r.Get("/addresses", s.listAddresses)
			r.Post("/addresses", s.addAddress)
			r.Put("/addresses/{index}", s.updateAddress)
			r.Delete("/addresses/{index}", s.deleteAddress)
			r.Put("/addresses/{index}/default", s.setDefaultAddress)

			r.Get("/delivery-agents/check", s.checkAgent)
			r.Get("/delivery-agents/my-orders", s.agentOrders)
			r.Get("/delivery-agents/credits", s.agentCredits)
			r.Put("/delivery-agents/{agent_id}/status", s.setAgentStatus)
		})
	})

	return r
}

// Run serves the sandbox on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting sandbox backend")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down sandbox backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Sandbox forced to shutdown")
		return err
	}

	log.Info().Msg("Sandbox exited")
	return nil
}

// requestLogger logs each request through zerolog at debug level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Sandbox request")
	})
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-ID, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
