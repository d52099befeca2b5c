package routes

import (
	"courseswap_server/controllers"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match responses
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("/user/{userId}", controller.GetUserMatchesHandler).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/accept", controller.AcceptMatchHandler).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/decline", controller.DeclineMatchHandler).Methods("POST")
}
