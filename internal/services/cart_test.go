package services

import (
	"context"
	"testing"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCartMatchesBackend(t *testing.T, env *testEnv, cart *Cart) {
	t.Helper()
	backend, err := env.session.Client().GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, backend.Items, cart.Items())
}

func TestCart_RequiresSession(t *testing.T) {
	env := newTestEnv(t, nil)
	cart := NewCart(env.session)
	ctx := context.Background()

	err := cart.Add(ctx, models.CartItem{MealName: "Bowl", Quantity: 1, Price: 100})
	assert.ErrorIs(t, err, api.ErrUnauthenticated)

	cart.Refresh(ctx)
	assert.Empty(t, cart.Items())
	assert.False(t, cart.Loading())
}

func TestCart_MutationsResync(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, "a@example.com", "A")
	cart := NewCart(env.session)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, models.CartItem{MealName: "Bowl", Quantity: 2, Price: 100}))
	assertCartMatchesBackend(t, env, cart)
	assert.InDelta(t, 200, cart.TotalPrice(), 0.001)
	assert.Equal(t, 2, cart.Count())

	require.NoError(t, cart.UpdateQuantity(ctx, 0, 3))
	assertCartMatchesBackend(t, env, cart)
	assert.InDelta(t, 300, cart.TotalPrice(), 0.001)

	require.NoError(t, cart.Add(ctx, models.CartItem{MealName: "Salad", Quantity: 1, Price: 80.5}))
	assertCartMatchesBackend(t, env, cart)
	assert.InDelta(t, 380.5, cart.TotalPrice(), 0.001)
	assert.Equal(t, 4, cart.Count())

	require.NoError(t, cart.Remove(ctx, 0))
	assertCartMatchesBackend(t, env, cart)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, "Salad", cart.Items()[0].MealName)

	require.NoError(t, cart.Clear(ctx))
	assertCartMatchesBackend(t, env, cart)
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.TotalPrice())
}

func TestCart_RejectedMutationKeepsItems(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, "a@example.com", "A")
	cart := NewCart(env.session)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, models.CartItem{MealName: "Bowl", Quantity: 2, Price: 100}))

	err := cart.UpdateQuantity(ctx, 0, 0)
	require.Error(t, err)
	assert.Equal(t, "Quantity must be at least 1", api.UserMessage(err, "Failed to update quantity"))

	err = cart.Remove(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, "Item not found in cart", api.UserMessage(err, "Failed to remove item"))

	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestCart_Reset(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, "a@example.com", "A")
	cart := NewCart(env.session)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, models.CartItem{MealName: "Bowl", Quantity: 1, Price: 100}))
	unsubscribe := env.session.Subscribe(func(u *models.User) {
		if u == nil {
			cart.Reset()
		}
	})
	defer unsubscribe()

	env.session.Logout(ctx)
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.Count())
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, "a@example.com", "A")
	cart := NewCart(env.session)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, models.CartItem{MealName: "Bowl", Quantity: 1, Price: 100}))
	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}
