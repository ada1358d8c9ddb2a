package sandbox

import (
	"net/http"
	"sort"
	"strings"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// listConversations handles GET /api/conversations, most recent first
func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	conversations := []models.Conversation{}
	for _, c := range s.store.convs {
		if c.User1ID == myID || c.User2ID == myID {
			conversations = append(conversations, *c)
		}
	}
	s.store.mu.Unlock()

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt.Time)
	})
	respondJSON(w, http.StatusOK, conversations)
}

// openConversation handles GET /api/conversations/{id}, where id is the other
// user. The conversation is created on first use.
func (s *Server) openConversation(w http.ResponseWriter, r *http.Request) {
	otherID := chi.URLParam(r, "id")
	myID := currentUserID(r.Context())
	if otherID == myID {
		respondError(w, "Cannot start a conversation with yourself", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	other, ok := s.store.users[otherID]
	if !ok {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	for _, c := range s.store.convs {
		if (c.User1ID == myID && c.User2ID == otherID) || (c.User1ID == otherID && c.User2ID == myID) {
			respondJSON(w, http.StatusOK, *c)
			return
		}
	}

	me := s.store.users[myID]
	conv := &models.Conversation{
		ID:            newID(),
		User1ID:       me.ID,
		User1Name:     me.Name,
		User1Picture:  me.Picture,
		User2ID:       other.ID,
		User2Name:     other.Name,
		User2Picture:  other.Picture,
		LastMessageAt: now(),
	}
	s.store.convs = append(s.store.convs, conv)
	respondJSON(w, http.StatusOK, *conv)
}

// listMessages handles GET /api/conversations/{id}/messages. Fetching marks the
// other side's messages read and resets the caller's unread counter.
func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	conv := s.store.participantConversation(w, convID, myID)
	if conv == nil {
		return
	}

	messages := []models.Message{}
	for _, m := range s.store.messages {
		if m.ConversationID != convID {
			continue
		}
		if m.SenderID != myID {
			m.Read = true
		}
		messages = append(messages, *m)
	}
	if conv.User1ID == myID {
		conv.UnreadCountUser1 = 0
	} else {
		conv.UnreadCountUser2 = 0
	}
	respondJSON(w, http.StatusOK, messages)
}

// sendMessage handles POST /api/conversations/{id}/messages
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "id")
	myID := currentUserID(r.Context())

	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" && req.Image == "" {
		respondError(w, "Message content is required", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	conv := s.store.participantConversation(w, convID, myID)
	if conv == nil {
		return
	}

	me := s.store.users[myID]
	msg := &models.Message{
		ID:             newID(),
		ConversationID: convID,
		SenderID:       myID,
		SenderName:     me.Name,
		SenderPicture:  me.Picture,
		Content:        req.Content,
		Image:          req.Image,
		CreatedAt:      now(),
	}
	s.store.messages = append(s.store.messages, msg)

	conv.LastMessage = req.Content
	conv.LastMessageAt = msg.CreatedAt
	if conv.User1ID == myID {
		conv.UnreadCountUser2++
	} else {
		conv.UnreadCountUser1++
	}
	respondCreated(w, "Message sent", msg.ID)
}

// participantConversation returns the conversation if userID takes part in
// it, writing the error response otherwise. Must be called with mu held.
func (s *store) participantConversation(w http.ResponseWriter, convID, userID string) *models.Conversation {
	for _, c := range s.convs {
		if c.ID != convID {
			continue
		}
		if c.User1ID != userID && c.User2ID != userID {
			respondError(w, "Not a participant in this conversation", http.StatusForbidden)
			return nil
		}
		return c
	}
	respondError(w, "Conversation not found", http.StatusNotFound)
	return nil
}
