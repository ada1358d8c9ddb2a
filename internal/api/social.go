package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mealcircle-client/internal/models"
)

// ListPosts returns a page of the public feed, newest first
func (c *Client) ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var posts []models.Post
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts", query: query}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a post with optional images (data URIs or URLs)
func (c *Client) CreatePost(ctx context.Context, content string, images []string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("post content is required")
	}
	if images == nil {
		images = []string{}
	}
	body := struct {
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}{Content: content, Images: images}

	var ack models.Ack
	if err := c.post(ctx, "/posts", body, &ack); err != nil {
		return "", err
	}
	return ack.ID, nil
}

// UpdatePost replaces the text and images of one of the current user's
// posts. A nil images slice leaves the images untouched.
func (c *Client) UpdatePost(ctx context.Context, postID, content string, images []string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("post content is required")
	}
	body := struct {
		Content string   `json:"content"`
		Images  []string `json:"images,omitempty"`
	}{Content: content, Images: images}
	return c.put(ctx, pathf("/posts/%s", postID), body, nil)
}

// DeletePost removes one of the current user's posts with its comments
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.delete(ctx, pathf("/posts/%s", postID), nil)
}

// VotePost toggles the current user's up-vote on a post
func (c *Client) VotePost(ctx context.Context, postID string) (*models.VoteResult, error) {
	var result models.VoteResult
	if err := c.post(ctx, pathf("/posts/%s/vote", postID), struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListComments returns the comments on a post
func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, request{method: http.MethodGet, path: pathf("/posts/%s/comments", postID)}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment replies to a post
func (c *Client) AddComment(ctx context.Context, postID, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment content is required")
	}
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	return c.post(ctx, pathf("/posts/%s/comments", postID), body, nil)
}

// ListNotifications returns the current user's notifications
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.get(ctx, "/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.put(ctx, pathf("/notifications/%s/read", id), struct{}{}, nil)
}

// GetUser returns another user's public profile
func (c *Client) GetUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	var user models.PublicUser
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/users/%s", userID)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// BecomeFan makes the current user a fan of userID
func (c *Client) BecomeFan(ctx context.Context, userID string) error {
	return c.post(ctx, pathf("/users/%s/become-fan", userID), struct{}{}, nil)
}

// Unfan reverses BecomeFan
func (c *Client) Unfan(ctx context.Context, userID string) error {
	return c.delete(ctx, pathf("/users/%s/unfan", userID), nil)
}

// AddGuidee makes the current user a guidee of guideID, who must be a guide
func (c *Client) AddGuidee(ctx context.Context, guideID string) error {
	return c.post(ctx, pathf("/users/%s/add-guidee", guideID), struct{}{}, nil)
}

// RemoveGuidee reverses AddGuidee
func (c *Client) RemoveGuidee(ctx context.Context, guideID string) error {
	return c.delete(ctx, pathf("/users/%s/remove-guidee", guideID), nil)
}

// MyGuidees lists the users the current guide looks after. Non-guides get a
// 403.
func (c *Client) MyGuidees(ctx context.Context) ([]models.Guidee, error) {
	var guidees []models.Guidee
	if err := c.get(ctx, "/my-guidees", &guidees); err != nil {
		return nil, err
	}
	return guidees, nil
}
