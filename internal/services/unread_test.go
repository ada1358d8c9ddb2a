package services

import (
	"context"
	"testing"
	"time"

	"mealcircle-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumUnread(t *testing.T) {
	conversations := []models.Conversation{
		{User1ID: "me", User2ID: "a", UnreadCountUser1: 2, UnreadCountUser2: 5},
		{User1ID: "b", User2ID: "me", UnreadCountUser1: 7, UnreadCountUser2: 1},
		{User1ID: "me", User2ID: "c"},
	}

	tests := []struct {
		name   string
		convs  []models.Conversation
		userID string
		want   int
	}{
		{name: "sums my side of each conversation", convs: conversations, userID: "me", want: 3},
		{name: "empty list", convs: nil, userID: "me", want: 0},
		{name: "single conversation as user2", convs: conversations[1:2], userID: "me", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumUnread(tt.convs, tt.userID))
		})
	}
}

func TestUnreadCounter_FollowsSession(t *testing.T) {
	env := newTestEnv(t, nil)
	alice, _ := env.otherUser(t, "alice@example.com", "Alice")
	ctx := context.Background()

	counter := NewUnreadCounter(ctx, env.session, time.Hour)
	defer counter.Close()
	assert.False(t, counter.Polling())
	assert.Zero(t, counter.Count())

	bob := env.login(t, "bob@example.com", "Bob")
	assert.True(t, counter.Polling())

	conv, err := alice.OpenConversation(ctx, bob.ID)
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		_, err := alice.SendMessage(ctx, conv.ID, text)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		counter.Refresh(ctx)
		return counter.Count() == 3
	}, time.Second, 5*time.Millisecond)

	_, err = env.session.Client().ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	counter.Refresh(ctx)
	assert.Zero(t, counter.Count())

	_, err = alice.SendMessage(ctx, conv.ID, "four")
	require.NoError(t, err)
	counter.Refresh(ctx)
	assert.Equal(t, 1, counter.Count())

	env.session.Logout(ctx)
	assert.False(t, counter.Polling())
	assert.Zero(t, counter.Count())
}

func TestUnreadCounter_PollsInBackground(t *testing.T) {
	env := newTestEnv(t, nil)
	alice, _ := env.otherUser(t, "alice@example.com", "Alice")
	bob := env.login(t, "bob@example.com", "Bob")
	ctx := context.Background()

	conv, err := alice.OpenConversation(ctx, bob.ID)
	require.NoError(t, err)
	_, err = alice.SendMessage(ctx, conv.ID, "hi")
	require.NoError(t, err)

	counter := NewUnreadCounter(ctx, env.session, 10*time.Millisecond)
	defer counter.Close()
	assert.True(t, counter.Polling())
	assert.Eventually(t, func() bool { return counter.Count() == 1 }, time.Second, 5*time.Millisecond)

	_, err = alice.SendMessage(ctx, conv.ID, "again")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return counter.Count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestUnreadCounter_ErrorKeepsCount(t *testing.T) {
	env := newTestEnv(t, nil)
	alice, _ := env.otherUser(t, "alice@example.com", "Alice")
	bob := env.login(t, "bob@example.com", "Bob")
	ctx := context.Background()

	conv, err := alice.OpenConversation(ctx, bob.ID)
	require.NoError(t, err)
	_, err = alice.SendMessage(ctx, conv.ID, "hi")
	require.NoError(t, err)

	counter := NewUnreadCounter(ctx, env.session, time.Hour)
	defer counter.Close()
	counter.Refresh(ctx)
	require.Equal(t, 1, counter.Count())

	env.srv.Close()
	counter.Refresh(ctx)
	assert.Equal(t, 1, counter.Count())
}

func TestUnreadCounter_CloseDetaches(t *testing.T) {
	env := newTestEnv(t, nil)
	counter := NewUnreadCounter(context.Background(), env.session, time.Hour)
	counter.Close()

	env.login(t, "a@example.com", "A")
	assert.False(t, counter.Polling())
}
