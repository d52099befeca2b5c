package services

import "errors"

// Sentinel errors surfaced to controllers for status-code mapping.
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMatchNotPending  = errors.New("match is no longer pending")
	ErrPostLimitReached = errors.New("maximum of 5 active posts reached")
	ErrDuplicatePost    = errors.New("you already have an active post for this course/section combination")
	ErrSameSection      = errors.New("have and want sections cannot be the same")
	ErrProfileRequired  = errors.New("complete your profile (name, student id, phone) before posting")
	ErrStudentIDTaken   = errors.New("this university id is already registered")
	ErrUnknownCourse    = errors.New("unknown course")
	ErrUnknownSection   = errors.New("unknown section for this course")

	// ErrConditionFailed signals that a conditional write lost its
	// precondition, e.g. a post was no longer active when a match tried
	// to lock it.
	ErrConditionFailed = errors.New("conditional update failed")
)

// ValidationError carries a user-facing message for rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(msg string) error {
	return &ValidationError{Message: msg}
}
