package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealcircle-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sessionTTL = 7 * 24 * time.Hour

type contextKey string

const (
	userIDKey contextKey = "user_id"
	tokenKey  contextKey = "token"
)

// issueToken signs a session token for userID
func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(sessionTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// validateToken checks the signature, expiry and revocation of tokenString
// and returns the user id it was issued to
func (s *Server) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	if s.store.isRevoked(tokenString) {
		return "", fmt.Errorf("token revoked")
	}
	if _, ok := s.store.getUser(userID); !ok {
		return "", fmt.Errorf("user not found")
	}
	return userID, nil
}

// requireAuth rejects requests without a valid bearer token
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userID, err := s.validateToken(parts[1])
		if err != nil {
			respondError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, tokenKey, parts[1])
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func currentUser(r *http.Request, s *Server) models.User {
	u, _ := s.store.getUser(currentUserID(r.Context()))
	return u
}

// sessionData handles GET /api/auth/session-data
func (s *Server) sessionData(w http.ResponseWriter, r *http.Request) {
	oneTimeID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if oneTimeID == "" {
		respondError(w, "No session ID provided", http.StatusBadRequest)
		return
	}

	user, ok := s.store.redeemLogin(oneTimeID)
	if !ok {
		respondError(w, "Invalid session", http.StatusUnauthorized)
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		respondError(w, "Error processing session", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Session created")

	respondJSON(w, http.StatusOK, models.SessionData{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Picture:      user.Picture,
		SessionToken: token,
		UserID:       user.ID,
	})
}

// me handles GET /api/auth/me
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currentUser(r, s))
}

// logout handles POST /api/auth/logout
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := r.Context().Value(tokenKey).(string)
	s.store.revoke(token)
	respondMessage(w, "Logged out successfully")
}

// updateProfile handles PUT /api/users/profile
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if !decodeBody(w, r, &profile) {
		return
	}
	s.store.updateProfile(currentUserID(r.Context()), profile)
	respondMessage(w, "Profile updated successfully")
}
