package sandbox_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"
	"mealcircle-client/internal/sandbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSandbox(t *testing.T) (*sandbox.Server, *api.Client) {
	t.Helper()
	sb := sandbox.New("test-secret")
	srv := httptest.NewServer(sb.Handler())
	t.Cleanup(srv.Close)
	return sb, api.New(srv.URL+"/api", api.Options{Timeout: 2 * time.Second})
}

func login(t *testing.T, sb *sandbox.Server, client *api.Client, email, name string) (*api.Client, models.User) {
	t.Helper()
	user := sb.CreateUser(email, name)
	token, err := sb.IssueToken(user.ID)
	require.NoError(t, err)
	return client.WithToken(token), user
}

func TestSessionExchange_OneTimeUse(t *testing.T) {
	sb, client := newSandbox(t)
	sb.RegisterLogin("abc123", "asha@example.com", "Asha")
	ctx := context.Background()

	data, err := client.ExchangeSession(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", data.Email)
	assert.NotEmpty(t, data.SessionToken)

	me, err := client.WithToken(data.SessionToken).Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.UserID, me.ID)
	assert.Equal(t, "Asha", me.Name)

	_, err = client.ExchangeSession(ctx, "abc123")
	assert.True(t, api.IsUnauthenticated(err))
}

func TestLogout_RevokesToken(t *testing.T) {
	sb, client := newSandbox(t)
	authed, _ := login(t, sb, client, "a@example.com", "A")
	ctx := context.Background()

	require.NoError(t, authed.Logout(ctx))
	_, err := authed.Me(ctx)
	assert.True(t, api.IsUnauthenticated(err))
}

func TestInvalidToken(t *testing.T) {
	_, client := newSandbox(t)
	_, err := client.WithToken("garbage").GetCart(context.Background())
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
}

func TestCart_Validation(t *testing.T) {
	sb, client := newSandbox(t)
	authed, user := login(t, sb, client, "a@example.com", "A")
	ctx := context.Background()

	require.NoError(t, authed.AddCartItem(ctx, models.CartItem{MealName: "Bowl", Quantity: 2, Price: 100}))

	err := authed.UpdateCartQuantity(ctx, 0, 0)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
	assert.Equal(t, "Quantity must be at least 1", api.UserMessage(err, ""))

	err = authed.UpdateCartQuantity(ctx, 5, 1)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.Equal(t, "Item not found in cart", api.UserMessage(err, ""))

	require.NoError(t, authed.UpdateCartQuantity(ctx, 0, 3))
	cart, err := authed.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	require.NoError(t, authed.RemoveCartItem(ctx, 0))
	cart, err = authed.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMessages_UnreadCounters(t *testing.T) {
	sb, client := newSandbox(t)
	alice, aliceUser := login(t, sb, client, "alice@example.com", "Alice")
	bob, bobUser := login(t, sb, client, "bob@example.com", "Bob")
	ctx := context.Background()

	conv, err := alice.OpenConversation(ctx, bobUser.ID)
	require.NoError(t, err)
	again, err := bob.OpenConversation(ctx, aliceUser.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	_, err = alice.SendMessage(ctx, conv.ID, "hi")
	require.NoError(t, err)
	_, err = alice.SendMessage(ctx, conv.ID, "there")
	require.NoError(t, err)

	convs, err := bob.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadFor(bobUser.ID))
	assert.Equal(t, 0, convs[0].UnreadFor(aliceUser.ID))
	assert.Equal(t, "there", convs[0].LastMessage)

	msgs, err := bob.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].Read)

	convs, err = bob.ListConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[0].UnreadFor(bobUser.ID))
}

func TestMessages_NonParticipant(t *testing.T) {
	sb, client := newSandbox(t)
	alice, _ := login(t, sb, client, "alice@example.com", "Alice")
	_, bobUser := login(t, sb, client, "bob@example.com", "Bob")
	eve, _ := login(t, sb, client, "eve@example.com", "Eve")
	ctx := context.Background()

	conv, err := alice.OpenConversation(ctx, bobUser.ID)
	require.NoError(t, err)

	_, err = eve.ListMessages(ctx, conv.ID)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
}

func TestCoupons(t *testing.T) {
	sb, client := newSandbox(t)
	authed, _ := login(t, sb, client, "a@example.com", "A")
	sb.SeedCoupon("FLAT50", "flat", 50, 200, time.Time{})
	sb.SeedCoupon("PCT10", "percentage", 10, 0, time.Time{})
	sb.SeedCoupon("OLD", "flat", 10, 0, time.Now().Add(-time.Hour))
	ctx := context.Background()

	res, err := authed.ValidateCoupon(ctx, "flat50", 300)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.InDelta(t, 50, res.DiscountAmount, 0.001)
	assert.InDelta(t, 250, res.FinalPrice, 0.001)

	res, err = authed.ValidateCoupon(ctx, "PCT10", 300)
	require.NoError(t, err)
	assert.InDelta(t, 30, res.DiscountAmount, 0.001)

	_, err = authed.ValidateCoupon(ctx, "FLAT50", 100)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	_, err = authed.ValidateCoupon(ctx, "OLD", 100)
	assert.Equal(t, "Coupon has expired", api.UserMessage(err, ""))

	_, err = authed.ValidateCoupon(ctx, "NOPE", 100)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
}

func TestOrders_DeliveryCreditsAgent(t *testing.T) {
	sb, client := newSandbox(t)
	customer, _ := login(t, sb, client, "c@example.com", "Customer")
	driver, _ := login(t, sb, client, "driver@example.com", "Driver")
	agent := sb.SeedAgent(models.DeliveryAgent{Name: "Driver", Email: "driver@example.com", PaymentPerDelivery: 40})
	ctx := context.Background()

	require.NoError(t, customer.AddCartItem(ctx, models.CartItem{MealName: "Bowl", Quantity: 1, Price: 200}))
	created, err := customer.PlaceOrder(ctx, models.OrderRequest{
		Items:      []models.CartItem{{MealName: "Bowl", Quantity: 1, Price: 200}},
		TotalPrice: 200,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.CommissionEarned)

	cart, err := customer.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	check, err := driver.CheckDeliveryAgent(ctx)
	require.NoError(t, err)
	require.True(t, check.IsDeliveryAgent)
	assert.Equal(t, models.AgentStatusBusy, check.Agent.Status)

	orders, err := driver.AgentOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)

	require.NoError(t, driver.SetOrderStatus(ctx, created.ID, models.OrderStatusDelivered))
	credits, err := driver.AgentCredits(ctx)
	require.NoError(t, err)
	require.Len(t, credits.Credits, 1)
	assert.InDelta(t, 40, credits.TotalBalance, 0.001)

	err = customer.CancelOrder(ctx, created.ID)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	err = customer.SetAgentStatus(ctx, agent.ID, models.AgentStatusOffline)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
}

func TestOrders_GuideCommission(t *testing.T) {
	sb, client := newSandbox(t)
	guide, guideUser := login(t, sb, client, "g@example.com", "Guide")
	guidee, guideeUser := login(t, sb, client, "e@example.com", "Guidee")
	sb.LinkGuide(guideUser.ID, guideeUser.ID)
	ctx := context.Background()

	created, err := guide.PlaceOrder(ctx, models.OrderRequest{
		Items:              []models.CartItem{{MealName: "Bowl", Quantity: 1, Price: 300}},
		TotalPrice:         300,
		OrderedByGuideID:   guideUser.ID,
		OrderedForGuideeID: guideeUser.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CommissionEarned)
	assert.InDelta(t, 30, *created.CommissionEarned, 0.001)

	orders, err := guidee.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)

	require.NoError(t, guidee.CancelOrder(ctx, created.ID))
}

func TestPosts_VoteTogglesAndNotifies(t *testing.T) {
	sb, client := newSandbox(t)
	author, _ := login(t, sb, client, "author@example.com", "Author")
	fan, _ := login(t, sb, client, "fan@example.com", "Fan")
	ctx := context.Background()

	postID, err := author.CreatePost(ctx, "Day 1", nil)
	require.NoError(t, err)

	res, err := fan.VotePost(ctx, postID)
	require.NoError(t, err)
	assert.True(t, res.Voted)
	res, err = fan.VotePost(ctx, postID)
	require.NoError(t, err)
	assert.False(t, res.Voted)

	require.NoError(t, fan.AddComment(ctx, postID, "nice"))
	comments, err := client.ListComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	posts, err := client.ListPosts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 0, posts[0].VoteUps)

	notes, err := author.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "comment", notes[0].Type)
	require.NoError(t, author.MarkNotificationRead(ctx, notes[0].ID))
}

func TestAddresses_DefaultHandling(t *testing.T) {
	sb, client := newSandbox(t)
	authed, _ := login(t, sb, client, "a@example.com", "A")
	ctx := context.Background()

	require.NoError(t, authed.AddAddress(ctx, models.Address{Label: "Home", FullAddress: "1 Main St"}))
	require.NoError(t, authed.AddAddress(ctx, models.Address{Label: "Work", FullAddress: "2 Side St"}))

	addresses, err := authed.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)

	require.NoError(t, authed.SetDefaultAddress(ctx, 1))
	require.NoError(t, authed.DeleteAddress(ctx, 1))
	addresses, err = authed.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)
}

func TestHabits_GuideAccess(t *testing.T) {
	sb, client := newSandbox(t)
	guide, guideUser := login(t, sb, client, "g@example.com", "Guide")
	guidee, guideeUser := login(t, sb, client, "e@example.com", "Guidee")
	stranger, _ := login(t, sb, client, "s@example.com", "Stranger")
	ctx := context.Background()

	require.NoError(t, guidee.LogHabit(ctx, models.HabitRequest{HabitType: "water", Description: "2 litres"}))

	_, err := guide.ListUserHabits(ctx, guideeUser.ID)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	sb.LinkGuide(guideUser.ID, guideeUser.ID)
	habits, err := guide.ListUserHabits(ctx, guideeUser.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)

	err = stranger.DeleteHabit(ctx, habits[0].ID)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	require.NoError(t, guidee.DeleteHabit(ctx, habits[0].ID))
}

func TestCatalog(t *testing.T) {
	sb, client := newSandbox(t)
	sb.SeedDemo()
	ctx := context.Background()

	meals, err := client.ListMeals(ctx, "")
	require.NoError(t, err)
	require.Len(t, meals, 2)

	meal, err := client.GetMeal(ctx, meals[0].ID)
	require.NoError(t, err)
	assert.Equal(t, meals[0].Name, meal.Name)

	_, err = client.GetMeal(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))

	ingredients, err := client.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Len(t, ingredients, 3)
}

func TestOrders_UndoDeliveryTakesCreditBack(t *testing.T) {
	sb, client := newSandbox(t)
	customer, _ := login(t, sb, client, "c@example.com", "Customer")
	driver, _ := login(t, sb, client, "driver@example.com", "Driver")
	sb.SeedAgent(models.DeliveryAgent{Name: "Driver", Email: "driver@example.com", PaymentPerDelivery: 40})
	ctx := context.Background()

	created, err := customer.PlaceOrder(ctx, models.OrderRequest{
		Items:      []models.CartItem{{MealName: "Bowl", Quantity: 1, Price: 200}},
		TotalPrice: 200,
	})
	require.NoError(t, err)

	err = driver.UndoDelivery(ctx, created.ID)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	require.NoError(t, driver.SetOrderStatus(ctx, created.ID, models.OrderStatusDelivered))
	err = customer.UndoDelivery(ctx, created.ID)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	require.NoError(t, driver.UndoDelivery(ctx, created.ID))

	credits, err := driver.AgentCredits(ctx)
	require.NoError(t, err)
	assert.Empty(t, credits.Credits)
	assert.InDelta(t, 0, credits.TotalBalance, 0.001)

	orders, err := driver.AgentOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusOutForDelivery, orders[0].Status)

	check, err := driver.CheckDeliveryAgent(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusBusy, check.Agent.Status)
}

func TestPosts_EditAndDeleteByAuthorOnly(t *testing.T) {
	sb, client := newSandbox(t)
	author, _ := login(t, sb, client, "author@example.com", "Author")
	other, _ := login(t, sb, client, "other@example.com", "Other")
	ctx := context.Background()

	postID, err := author.CreatePost(ctx, "first draft", nil)
	require.NoError(t, err)
	require.NoError(t, other.AddComment(ctx, postID, "nice"))

	err = other.UpdatePost(ctx, postID, "hijacked", nil)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
	require.NoError(t, author.UpdatePost(ctx, postID, "final text", nil))

	posts, err := client.ListPosts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "final text", posts[0].Content)

	err = other.DeletePost(ctx, postID)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
	require.NoError(t, author.DeletePost(ctx, postID))

	posts, err = client.ListPosts(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	comments, err := client.ListComments(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = author.DeletePost(ctx, postID)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
}

func TestSavedMeals(t *testing.T) {
	sb, client := newSandbox(t)
	asha, _ := login(t, sb, client, "asha@example.com", "Asha")
	ben, _ := login(t, sb, client, "ben@example.com", "Ben")
	ctx := context.Background()

	id, err := asha.SaveMeal(ctx, models.SavedMealRequest{
		MealName:    "My Bowl",
		Ingredients: []models.MealIngredient{{IngredientID: "rice", Name: "Rice", Price: 40, DefaultQuantity: 1}},
		TotalPrice:  40,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	meals, err := asha.ListSavedMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "My Bowl", meals[0].MealName)
	require.Len(t, meals[0].Ingredients, 1)

	others, err := ben.ListSavedMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, others)

	err = ben.DeleteSavedMeal(ctx, id)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	require.NoError(t, asha.DeleteSavedMeal(ctx, id))

	meals, err = asha.ListSavedMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestGuidees_AddListRemove(t *testing.T) {
	sb, client := newSandbox(t)
	guide, guideUser := login(t, sb, client, "g@example.com", "Guide")
	guidee, guideeUser := login(t, sb, client, "e@example.com", "Guidee")
	third, thirdUser := login(t, sb, client, "t@example.com", "Third")
	ctx := context.Background()

	err := guidee.AddGuidee(ctx, thirdUser.ID)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	_, err = third.MyGuidees(ctx)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	// LinkGuide with an existing guidee marks the guide
	sb.LinkGuide(guideUser.ID, thirdUser.ID)
	require.NoError(t, guidee.AddGuidee(ctx, guideUser.ID))
	require.NoError(t, guidee.AddGuidee(ctx, guideUser.ID))

	guidees, err := guide.MyGuidees(ctx)
	require.NoError(t, err)
	require.Len(t, guidees, 2)
	assert.Equal(t, guideeUser.ID, guidees[1].ID)
	assert.Equal(t, "e@example.com", guidees[1].Email)

	me, err := guidee.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{guideUser.ID}, me.Guides)

	notifications, err := guide.ListNotifications(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, notifications)
	assert.Equal(t, "guidee", notifications[0].Type)

	require.NoError(t, guidee.RemoveGuidee(ctx, guideUser.ID))
	guidees, err = guide.MyGuidees(ctx)
	require.NoError(t, err)
	require.Len(t, guidees, 1)
	assert.Equal(t, thirdUser.ID, guidees[0].ID)
}

func TestWithdrawals(t *testing.T) {
	sb, client := newSandbox(t)
	guide, guideUser := login(t, sb, client, "g@example.com", "Guide")
	_, guideeUser := login(t, sb, client, "e@example.com", "Guidee")
	plain, _ := login(t, sb, client, "p@example.com", "Plain")
	sb.LinkGuide(guideUser.ID, guideeUser.ID)
	ctx := context.Background()

	_, err := plain.RequestWithdrawal(ctx, models.WithdrawalRequest{Amount: 10})
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	_, err = guide.RequestWithdrawal(ctx, models.WithdrawalRequest{Amount: 10})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))

	_, err = guide.PlaceOrder(ctx, models.OrderRequest{
		Items:              []models.CartItem{{MealName: "Bowl", Quantity: 1, Price: 500}},
		TotalPrice:         500,
		OrderedForGuideeID: guideeUser.ID,
	})
	require.NoError(t, err)

	id, err := guide.RequestWithdrawal(ctx, models.WithdrawalRequest{Amount: 30, UPIID: "guide@upi"})
	require.NoError(t, err)

	withdrawals, err := guide.MyWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, id, withdrawals[0].ID)
	assert.Equal(t, models.WithdrawalPending, withdrawals[0].Status)
	assert.Equal(t, "guide@upi", withdrawals[0].UPIID)

	me, err := guide.Me(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 50, me.CommissionBalance, 0.001)

	_, err = plain.MyWithdrawals(ctx)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
}
