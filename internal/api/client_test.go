package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mealcircle-client/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", Options{Timeout: 2 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestExchangeSession_SendsSessionHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/session-data", r.URL.Path)
		assert.Equal(t, "abc123", r.Header.Get("X-Session-ID"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		writeJSON(w, http.StatusOK, map[string]string{"session_token": "tok", "user_id": "u1"})
	})

	data, err := client.ExchangeSession(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "tok", data.SessionToken)
	assert.Equal(t, "u1", data.UserID)
}

func TestExchangeSession_EmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})

	_, err := client.ExchangeSession(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestAuthenticatedCall_RequiresToken(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.GetCart(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, calls.Load(), "no request must be sent without a token")
}

func TestWithToken_SetsBearerAndDoesNotMutateParent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.User{ID: "u9", Name: "Nia"})
	})

	user, err := client.WithToken("tok-9").Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.False(t, client.HasToken())
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   Code
		detail string
	}{
		{name: "string detail", status: 400, body: `{"detail":"Quantity must be at least 1"}`, code: CodeInvalidArgument, detail: "Quantity must be at least 1"},
		{name: "validation list", status: 422, body: `{"detail":[{"msg":"field required"},{"msg":"bad type"}]}`, code: CodeInvalidArgument, detail: "field required; bad type"},
		{name: "error key", status: 403, body: `{"error":"nope"}`, code: CodePermissionDenied, detail: "nope"},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`, code: CodeUnavailable, detail: ""},
		{name: "not found", status: 404, body: `{"detail":"Item not found in cart"}`, code: CodeNotFound, detail: "Item not found in cart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := client.WithToken("t").UpdateCartQuantity(context.Background(), 0, 0)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	})

	_, err := client.WithToken("expired").Me(context.Background())
	assert.True(t, IsUnauthenticated(err))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "x"))
	assert.Equal(t, "Coupon has expired", UserMessage(&Error{Status: 400, Detail: "Coupon has expired"}, "Failed"))
	assert.Equal(t, "Failed to cancel order", UserMessage(&Error{Status: 500}, "Failed to cancel order"))
	assert.Equal(t, "Failed", UserMessage(errors.New("dial tcp: refused"), "Failed"))
	assert.Equal(t, "Please log in to continue", UserMessage(ErrUnauthenticated, "Failed"))
}

func TestCartEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var (
		mu  sync.Mutex
		got []call
	)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, call{method: r.Method, path: r.URL.Path, body: string(data)})
		mu.Unlock()
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"user_id":"u1"}`)
			return
		}
		io.WriteString(w, `{"message":"ok"}`)
	}).WithToken("tok")

	ctx := context.Background()
	cart, err := client.GetCart(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items, "missing items decode as an empty slice")

	require.NoError(t, client.AddCartItem(ctx, models.CartItem{MealName: "Bowl", Quantity: 1, Price: 10}))
	require.NoError(t, client.UpdateCartQuantity(ctx, 2, 5))
	require.NoError(t, client.RemoveCartItem(ctx, 1))
	require.NoError(t, client.ClearCart(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 5)
	assert.Equal(t, call{method: "POST", path: "/api/cart", body: `{"meal_name":"Bowl","customizations":[],"quantity":1,"price":10}`}, got[1])
	assert.Equal(t, call{method: "PUT", path: "/api/cart/2", body: `{"quantity":5}`}, got[2])
	assert.Equal(t, call{method: "DELETE", path: "/api/cart/1"}, got[3])
	assert.Equal(t, call{method: "DELETE", path: "/api/cart"}, got[4])

	assert.Error(t, client.RemoveCartItem(ctx, -1))
}

func TestPathEscaping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/a%2Fb/messages", r.URL.EscapedPath())
		io.WriteString(w, `[]`)
	}).WithToken("tok")

	messages, err := client.ListMessages(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestPublicEndpointsNeedNoToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/meals":
			assert.Equal(t, "u7", r.URL.Query().Get("user_id"))
			io.WriteString(w, `[{"_id":"m1","name":"Power Bowl","base_price":220,"ingredients":[]}]`)
		case "/api/posts":
			assert.Equal(t, "20", r.URL.Query().Get("skip"))
			io.WriteString(w, `[{"_id":"p1","content":"hi","vote_ups":2,"voted_by":[],"created_at":"2025-01-02T03:04:05"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	meals, err := client.ListMeals(ctx, "u7")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Power Bowl", meals[0].Name)

	posts, err := client.ListPosts(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 2025, posts[0].CreatedAt.Year())
}

func TestSetAgentStatus_Validates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}).WithToken("tok")

	assert.Error(t, client.SetAgentStatus(context.Background(), "a1", "sleeping"))
}

func TestLocalValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}).WithToken("tok")
	ctx := context.Background()

	_, err := client.RequestWithdrawal(ctx, models.WithdrawalRequest{Amount: 0})
	assert.Error(t, err)
	_, err = client.SaveMeal(ctx, models.SavedMealRequest{MealName: "  "})
	assert.Error(t, err)
	assert.Error(t, client.UpdatePost(ctx, "p1", "", nil))
}

func TestSavedMealsQueryAndWithdrawalPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/saved-meals":
			assert.Equal(t, "meal", r.URL.Query().Get("type"))
			io.WriteString(w, `[{"_id":"s1","guide_id":"u1","meal_name":"Bowl","ingredients":[],"total_price":90,"created_at":"2025-01-02T03:04:05"}]`)
		case "/api/withdrawal-requests/my":
			io.WriteString(w, `[{"_id":"w1","guide_id":"u1","guide_name":"G","amount":25,"status":"pending","created_at":"2025-01-02T03:04:05","processed_at":null}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}).WithToken("tok")
	ctx := context.Background()

	meals, err := client.ListSavedMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "u1", meals[0].OwnerID)

	withdrawals, err := client.MyWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, models.WithdrawalPending, withdrawals[0].Status)
	assert.True(t, withdrawals[0].ProcessedAt.IsZero())
}

func TestRateLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client := New(srv.URL+"/api", Options{RateLimit: 20, RateBurst: 1})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.ListIngredients(context.Background())
		require.NoError(t, err)
	}
	// burst of one at 20 rps: the 2nd and 3rd calls wait ~50ms each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListIngredients(ctx)
	assert.Error(t, err)
}
