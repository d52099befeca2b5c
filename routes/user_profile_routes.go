package routes

import (
	"courseswap_server/controllers"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profiles
func RegisterUserProfileRoutes(r *mux.Router, service *services.UserProfileService) {
	controller := controllers.NewUserProfileController(service)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.HandleFunc("", controller.AddProfileHandler).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.GetProfileHandler).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.UpdateProfileHandler).Methods("PATCH")
	profileRouter.HandleFunc("/{userId}", controller.DeleteProfileHandler).Methods("DELETE")
}
