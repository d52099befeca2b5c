package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courseswap_server/models"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// MatchController manages match responses
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes MatchController
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

type matchActionRequest struct {
	Side string `json:"side"`
}

func decodeSide(r *http.Request) (string, bool) {
	var req matchActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", false
	}
	if req.Side != models.SideA && req.Side != models.SideB {
		return "", false
	}
	return req.Side, true
}

// GetUserMatchesHandler returns a user's visible matches with post details
func (mc *MatchController) GetUserMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	matches, err := mc.MatchService.GetUserMatches(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to fetch matches for user %s: %v", userID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// AcceptMatchHandler records one side's acceptance of a match
func (mc *MatchController) AcceptMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	side, ok := decodeSide(r)
	if !ok {
		http.Error(w, "Invalid request payload, side must be A or B", http.StatusBadRequest)
		return
	}

	match, err := mc.MatchService.Accept(r.Context(), matchID, side)
	if err != nil {
		log.Printf("❌ Failed to accept match %s: %v", matchID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// DeclineMatchHandler declines a match and frees both posts for re-matching
func (mc *MatchController) DeclineMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	side, ok := decodeSide(r)
	if !ok {
		http.Error(w, "Invalid request payload, side must be A or B", http.StatusBadRequest)
		return
	}

	if err := mc.MatchService.Decline(r.Context(), matchID, side); err != nil {
		log.Printf("❌ Failed to decline match %s: %v", matchID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Match declined"})
}
