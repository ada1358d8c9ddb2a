package services

import (
	"context"
	"sync"
	"time"

	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultUnreadInterval is how often the unread counter polls
const DefaultUnreadInterval = 30 * time.Second

// UnreadCounter keeps the number of unread direct messages for the logged-in
// user. It polls while a user is present and stops when the user goes away.
type UnreadCounter struct {
	session *Session
	poller  *Poller
	ctx     context.Context

	mu    sync.RWMutex
	count int

	unsubscribe func()
}

// NewUnreadCounter creates a counter bound to session. Polling starts as soon
// as the session holds a user and runs under ctx until Close.
func NewUnreadCounter(ctx context.Context, session *Session, interval time.Duration) *UnreadCounter {
	if interval <= 0 {
		interval = DefaultUnreadInterval
	}
	u := &UnreadCounter{session: session, ctx: ctx}
	u.poller = NewPoller(interval, func(ctx context.Context) {
		u.Refresh(ctx)
	})
	u.unsubscribe = session.Subscribe(u.onUser)
	if session.User() != nil {
		u.poller.Start(ctx)
	}
	return u
}

func (u *UnreadCounter) onUser(user *models.User) {
	if user != nil {
		u.poller.Start(u.ctx)
		return
	}
	u.poller.Stop()
	u.setCount(0)
}

// Refresh fetches all conversations and sums the unread counters that belong
// to the current user. Without a user the count is zero. On error the
// previous count is kept.
func (u *UnreadCounter) Refresh(ctx context.Context) {
	user := u.session.User()
	if user == nil {
		u.setCount(0)
		return
	}

	conversations, err := u.session.Client().ListConversations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Error fetching unread messages count")
		}
		return
	}

	u.setCount(SumUnread(conversations, user.ID))
}

// SumUnread adds up, for each conversation, the counter of whichever side
// userID is on
func SumUnread(conversations []models.Conversation, userID string) int {
	total := 0
	for _, conv := range conversations {
		total += conv.UnreadFor(userID)
	}
	return total
}

// Count returns the last computed unread total
func (u *UnreadCounter) Count() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.count
}

// Polling reports whether the background refresh is active
func (u *UnreadCounter) Polling() bool {
	return u.poller.Running()
}

// Close stops polling and detaches from the session
func (u *UnreadCounter) Close() {
	u.unsubscribe()
	u.poller.Stop()
}

func (u *UnreadCounter) setCount(n int) {
	u.mu.Lock()
	u.count = n
	u.mu.Unlock()
}
