package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"mealcircle-client/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultChatInterval is how often an open thread polls for new messages
const DefaultChatInterval = 3 * time.Second

// ChatThread is the state behind an open conversation: the message list, the
// draft being typed and a poller that refetches the thread. Sent messages are
// never appended locally; the thread is refetched after every send so the
// list always matches the backend.
type ChatThread struct {
	session        *Session
	conversationID string
	poller         *Poller

	mu        sync.RWMutex
	other     models.Participant
	messages  []models.Message
	draft     string
	sending   bool
	loading   bool
	lastError error

	onUpdate func([]models.Message)

	unsubscribe func()
}

// ChatOptions are the navigation parameters a thread is opened with
type ChatOptions struct {
	OtherUserID   string
	OtherUserName string
	Interval      time.Duration
	// OnUpdate is called with a copy of the messages after the first
	// successful fetch, after each fetch that changed the thread and when a
	// logout clears it. It runs on the polling goroutine.
	OnUpdate func([]models.Message)
}

// NewChatThread creates a closed thread for conversationID. The thread
// follows session: when the user goes away polling stops and the messages
// are dropped.
func NewChatThread(session *Session, conversationID string, opts ChatOptions) *ChatThread {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultChatInterval
	}
	t := &ChatThread{
		session:        session,
		conversationID: conversationID,
		other:          models.Participant{ID: opts.OtherUserID, Name: opts.OtherUserName},
		messages:       []models.Message{},
		loading:        true,
		onUpdate:       opts.OnUpdate,
	}
	t.poller = NewPoller(interval, func(ctx context.Context) {
		t.Refresh(ctx)
	})
	t.unsubscribe = session.Subscribe(t.onUser)
	return t
}

// Open resolves the other participant if needed and starts polling. The
// first fetch happens immediately. Without a logged-in user it does nothing.
func (t *ChatThread) Open(ctx context.Context) {
	if t.session.User() == nil {
		return
	}

	t.mu.RLock()
	needName := t.other.Name == ""
	t.mu.RUnlock()

	if needName {
		t.resolveOther(ctx)
	}
	t.poller.Start(ctx)
}

// Close stops polling and detaches from the session
func (t *ChatThread) Close() {
	t.unsubscribe()
	t.poller.Stop()
}

// onUser ends the thread on logout. A thread is never restarted by a later
// login; the caller opens a new one for the new user.
func (t *ChatThread) onUser(user *models.User) {
	if user != nil {
		return
	}
	t.poller.Stop()

	t.mu.Lock()
	cleared := len(t.messages) > 0
	t.messages = []models.Message{}
	t.draft = ""
	t.loading = true
	t.lastError = nil
	onUpdate := t.onUpdate
	t.mu.Unlock()

	if cleared && onUpdate != nil {
		onUpdate([]models.Message{})
	}
}

// resolveOther looks the conversation up in the conversation list, there
// being no endpoint to fetch one conversation by id
func (t *ChatThread) resolveOther(ctx context.Context) {
	user := t.session.User()
	if user == nil {
		return
	}
	conversations, err := t.session.Client().ListConversations(ctx)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", t.conversationID).Msg("Error fetching conversation")
		return
	}
	for _, conv := range conversations {
		if conv.ID != t.conversationID {
			continue
		}
		other := conv.OtherParticipant(user.ID)
		t.mu.Lock()
		if t.other.ID == "" {
			t.other.ID = other.ID
		}
		t.other.Name = other.Name
		t.other.Picture = other.Picture
		t.mu.Unlock()
		return
	}
}

// Refresh replaces the message list with the backend's thread. Errors are
// logged and the previous list is kept.
func (t *ChatThread) Refresh(ctx context.Context) {
	messages, err := t.session.Client().ListMessages(ctx, t.conversationID)

	t.mu.Lock()
	first := t.loading
	t.loading = false
	if err != nil {
		t.lastError = err
		t.mu.Unlock()
		if ctx.Err() == nil {
			log.Error().Err(err).Str("conversation_id", t.conversationID).Msg("Error fetching messages")
		}
		return
	}
	t.lastError = nil
	changed := !sameMessages(t.messages, messages)
	t.messages = messages
	onUpdate := t.onUpdate
	t.mu.Unlock()

	if (changed || first) && onUpdate != nil {
		onUpdate(append([]models.Message(nil), messages...))
	}
}

// SetDraft replaces the text being composed
func (t *ChatThread) SetDraft(text string) {
	t.mu.Lock()
	t.draft = text
	t.mu.Unlock()
}

// Draft returns the text being composed
func (t *ChatThread) Draft() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.draft
}

// Send posts the draft. Blank drafts and sends while another send is in
// flight are ignored. The draft is cleared before the request goes out and
// restored if it fails; on success the thread is refetched.
func (t *ChatThread) Send(ctx context.Context) error {
	t.mu.Lock()
	content := t.draft
	if strings.TrimSpace(content) == "" || t.sending {
		t.mu.Unlock()
		return nil
	}
	t.sending = true
	t.draft = ""
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.sending = false
		t.mu.Unlock()
	}()

	if _, err := t.session.Client().SendMessage(ctx, t.conversationID, content); err != nil {
		log.Error().Err(err).Str("conversation_id", t.conversationID).Msg("Error sending message")
		t.mu.Lock()
		if t.draft == "" {
			t.draft = content
		}
		t.mu.Unlock()
		return err
	}

	t.Refresh(ctx)
	return nil
}

// Messages returns a copy of the thread, oldest first
func (t *ChatThread) Messages() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Message(nil), t.messages...)
}

// Other returns the participant on the far side of the thread
func (t *ChatThread) Other() models.Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.other
}

// ConversationID returns the id the thread is keyed by
func (t *ChatThread) ConversationID() string {
	return t.conversationID
}

// Loading is true until the first fetch completes
func (t *ChatThread) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// Sending reports whether a send is in flight
func (t *ChatThread) Sending() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sending
}

// LastError is the error of the most recent fetch, nil after a success
func (t *ChatThread) LastError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

// IsMine reports whether msg was sent by the logged-in user
func (t *ChatThread) IsMine(msg models.Message) bool {
	user := t.session.User()
	return user != nil && msg.SenderID == user.ID
}

func sameMessages(a, b []models.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Read != b[i].Read || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}
