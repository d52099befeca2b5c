package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courseswap_server/models"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController manages user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes UserProfileController
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// AddProfileHandler creates a new user profile
func (upc *UserProfileController) AddProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := upc.UserProfileService.AddProfile(r.Context(), profile)
	if err != nil {
		log.Printf("❌ Failed to create profile %s: %v", profile.ID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetProfileHandler fetches a profile by user ID
func (upc *UserProfileController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	profile, err := upc.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler updates mutable profile fields
func (upc *UserProfileController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := upc.UserProfileService.UpdateProfile(r.Context(), userID, updates)
	if err != nil {
		log.Printf("❌ Failed to update profile %s: %v", userID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// DeleteProfileHandler removes a profile
func (upc *UserProfileController) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := upc.UserProfileService.DeleteProfile(r.Context(), userID); err != nil {
		log.Printf("❌ Failed to delete profile %s: %v", userID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}
