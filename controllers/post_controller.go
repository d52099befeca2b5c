package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courseswap_server/models"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// PostController manages exchange posts
type PostController struct {
	PostService  *services.PostService
	MatchService *services.MatchService
}

// NewPostController initializes PostController
func NewPostController(postService *services.PostService, matchService *services.MatchService) *PostController {
	return &PostController{PostService: postService, MatchService: matchService}
}

// CreatePostResponse is the payload returned after creating a post. Match
// is non-nil only when the new post was paired immediately.
type CreatePostResponse struct {
	Post  *models.Post  `json:"post"`
	Match *models.Match `json:"match,omitempty"`
}

// CreatePostHandler creates a post and attempts an immediate match for swaps
func (pc *PostController) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	post, err := pc.PostService.CreatePost(r.Context(), req)
	if err != nil {
		log.Printf("❌ Failed to create post for user %s: %v", req.UserID, err)
		writeError(w, err)
		return
	}

	match, err := pc.MatchService.TryMatch(r.Context(), post)
	if err != nil {
		// The post exists either way, report it without a match.
		log.Printf("⚠️ Matching failed for post %s: %v", post.ID, err)
	}

	writeJSON(w, http.StatusCreated, CreatePostResponse{Post: post, Match: match})
}

// GetFeedHandler returns all open posts with owner details
func (pc *PostController) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.PostService.GetOpenPosts(r.Context())
	if err != nil {
		log.Printf("❌ Failed to fetch feed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetUserPostsHandler returns a user's open posts
func (pc *PostController) GetUserPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	posts, err := pc.PostService.GetPostsByUser(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to fetch posts for user %s: %v", userID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CompletePostHandler marks a post as completed
func (pc *PostController) CompletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	if err := pc.MatchService.CompletePost(r.Context(), postID); err != nil {
		log.Printf("❌ Failed to complete post %s: %v", postID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post completed"})
}

// DeletePostHandler deletes a post and unwinds its pending matches
func (pc *PostController) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	if err := pc.MatchService.DeletePost(r.Context(), postID); err != nil {
		log.Printf("❌ Failed to delete post %s: %v", postID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}
