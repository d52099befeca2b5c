package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"courseswap_server/services"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Course Swap"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// statusForError maps service errors to HTTP status codes. Validation
// failures carry their message verbatim to the user.
func statusForError(err error) int {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, services.ErrSameSection),
		errors.Is(err, services.ErrMatchNotPending),
		errors.Is(err, services.ErrProfileRequired),
		errors.Is(err, services.ErrUnknownCourse),
		errors.Is(err, services.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPostLimitReached),
		errors.Is(err, services.ErrDuplicatePost),
		errors.Is(err, services.ErrStudentIDTaken),
		errors.Is(err, services.ErrConditionFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}
