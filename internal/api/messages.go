package api

import (
	"context"
	"fmt"
	"strings"

	"mealcircle-client/internal/models"
)

// ListConversations returns every conversation the current user is part of
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := c.get(ctx, "/conversations", &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// OpenConversation returns the conversation with otherUserID, creating it if needed
func (c *Client) OpenConversation(ctx context.Context, otherUserID string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := c.get(ctx, pathf("/conversations/%s", otherUserID), &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListMessages returns the thread oldest first. Fetching marks the other
// party's messages as read on the backend.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.get(ctx, pathf("/conversations/%s/messages", conversationID), &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// SendMessage posts content to a conversation and returns the new message id
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("message content is required")
	}
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	var ack models.Ack
	if err := c.post(ctx, pathf("/conversations/%s/messages", conversationID), body, &ack); err != nil {
		return "", err
	}
	return ack.ID, nil
}
