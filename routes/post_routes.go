package routes

import (
	"courseswap_server/controllers"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// RegisterPostRoutes sets up routes for exchange posts
func RegisterPostRoutes(r *mux.Router, postService *services.PostService, matchService *services.MatchService) {
	controller := controllers.NewPostController(postService, matchService)

	postRouter := r.PathPrefix("/api/posts").Subrouter()
	postRouter.HandleFunc("", controller.CreatePostHandler).Methods("POST")
	postRouter.HandleFunc("", controller.GetFeedHandler).Methods("GET")
	postRouter.HandleFunc("/user/{userId}", controller.GetUserPostsHandler).Methods("GET")
	postRouter.HandleFunc("/{postId}/complete", controller.CompletePostHandler).Methods("POST")
	postRouter.HandleFunc("/{postId}", controller.DeletePostHandler).Methods("DELETE")
}
