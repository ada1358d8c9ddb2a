package sandbox

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"mealcircle-client/internal/models"

	"github.com/go-chi/chi/v5"
)

// getUser handles GET /api/users/{user_id}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, ok := s.store.users[userID]
	if !ok {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	public := models.PublicUser{User: *u, Posts: []models.Post{}}
	for _, p := range s.store.posts {
		if p.UserID == userID {
			public.Posts = append(public.Posts, *p)
		}
	}
	sortPostsNewest(public.Posts)
	respondJSON(w, http.StatusOK, public)
}

// becomeFan handles POST /api/users/{user_id}/become-fan
func (s *Server) becomeFan(w http.ResponseWriter, r *http.Request) {
	idolID := chi.URLParam(r, "user_id")
	myID := currentUserID(r.Context())
	if idolID == myID {
		respondError(w, "Cannot become your own fan", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idol, ok := s.store.users[idolID]
	if !ok {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	me := s.store.users[myID]
	if slices.Contains(idol.Fans, myID) {
		respondError(w, "Already a fan", http.StatusBadRequest)
		return
	}
	idol.Fans = append(idol.Fans, myID)
	me.Idols = append(me.Idols, idolID)
	s.store.notify(idolID, "fan", myID, me.Name, "", me.Name+" became your fan")
	respondMessage(w, "You are now a fan")
}

// unfan handles DELETE /api/users/{user_id}/unfan
func (s *Server) unfan(w http.ResponseWriter, r *http.Request) {
	idolID := chi.URLParam(r, "user_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idol, ok := s.store.users[idolID]
	if !ok {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	me := s.store.users[myID]
	idol.Fans = slices.DeleteFunc(idol.Fans, func(id string) bool { return id == myID })
	me.Idols = slices.DeleteFunc(me.Idols, func(id string) bool { return id == idolID })
	respondMessage(w, "Unfanned successfully")
}

// listPosts handles GET /api/posts?skip=&limit=
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	s.store.mu.Lock()
	posts := make([]models.Post, 0, len(s.store.posts))
	for _, p := range s.store.posts {
		posts = append(posts, *p)
	}
	s.store.mu.Unlock()

	sortPostsNewest(posts)
	if skip < 0 || skip > len(posts) {
		skip = len(posts)
	}
	posts = posts[skip:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	respondJSON(w, http.StatusOK, posts)
}

// createPost handles POST /api/posts
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, "Content is required", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	me := s.store.users[currentUserID(r.Context())]
	post := &models.Post{
		ID:          newID(),
		UserID:      me.ID,
		UserName:    me.Name,
		UserPicture: me.Picture,
		StarRating:  me.StarRating,
		Content:     req.Content,
		Images:      req.Images,
		VotedBy:     []string{},
		CreatedAt:   now(),
	}
	s.store.posts = append(s.store.posts, post)
	respondCreated(w, "Post created successfully", post.ID)
}

// updatePost handles PUT /api/posts/{post_id}. Only the author may edit;
// images are replaced only when sent.
func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")
	var req struct {
		Content *string  `json:"content"`
		Images  []string `json:"images"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post := s.store.findPost(postID)
	if post == nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}
	if post.UserID != currentUserID(r.Context()) {
		respondError(w, "Not authorized to edit this post", http.StatusForbidden)
		return
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Images != nil {
		post.Images = req.Images
	}
	respondMessage(w, "Post updated")
}

// deletePost handles DELETE /api/posts/{post_id}, dropping its comments too
func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post := s.store.findPost(postID)
	if post == nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}
	if post.UserID != currentUserID(r.Context()) {
		respondError(w, "Not authorized to delete this post", http.StatusForbidden)
		return
	}
	s.store.posts = slices.DeleteFunc(s.store.posts, func(p *models.Post) bool { return p.ID == postID })
	s.store.comments = slices.DeleteFunc(s.store.comments, func(c models.Comment) bool { return c.PostID == postID })
	respondMessage(w, "Post deleted")
}

// votePost handles POST /api/posts/{post_id}/vote, toggling the vote
func (s *Server) votePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post := s.store.findPost(postID)
	if post == nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}

	if slices.Contains(post.VotedBy, myID) {
		post.VotedBy = slices.DeleteFunc(post.VotedBy, func(id string) bool { return id == myID })
		post.VoteUps--
		respondJSON(w, http.StatusOK, models.VoteResult{Message: "Vote removed", Voted: false})
		return
	}

	post.VotedBy = append(post.VotedBy, myID)
	post.VoteUps++
	me := s.store.users[myID]
	s.store.notify(post.UserID, "vote", myID, me.Name, post.ID, me.Name+" voted up your post")
	respondJSON(w, http.StatusOK, models.VoteResult{Message: "Vote added", Voted: true})
}

// listComments handles GET /api/posts/{post_id}/comments
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range s.store.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	respondJSON(w, http.StatusOK, comments)
}

// addComment handles POST /api/posts/{post_id}/comments
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, "Content is required", http.StatusBadRequest)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post := s.store.findPost(postID)
	if post == nil {
		respondError(w, "Post not found", http.StatusNotFound)
		return
	}
	me := s.store.users[currentUserID(r.Context())]
	comment := models.Comment{
		ID:        newID(),
		PostID:    postID,
		UserID:    me.ID,
		UserName:  me.Name,
		Content:   req.Content,
		CreatedAt: now(),
	}
	s.store.comments = append(s.store.comments, comment)
	s.store.notify(post.UserID, "comment", me.ID, me.Name, postID, me.Name+" commented on your post")
	respondCreated(w, "Comment added successfully", comment.ID)
}

// listNotifications handles GET /api/notifications, newest first
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	notifications := []models.Notification{}
	for i := len(s.store.notes) - 1; i >= 0; i-- {
		if n := s.store.notes[i]; n.userID == myID {
			notifications = append(notifications, n.Notification)
		}
	}
	respondJSON(w, http.StatusOK, notifications)
}

// markNotificationRead handles PUT /api/notifications/{notification_id}/read
func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notification_id")
	myID := currentUserID(r.Context())

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, n := range s.store.notes {
		if n.ID == id && n.userID == myID {
			n.Read = true
			respondMessage(w, "Notification marked as read")
			return
		}
	}
	respondError(w, "Notification not found", http.StatusNotFound)
}

// findPost must be called with mu held
func (s *store) findPost(id string) *models.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}
