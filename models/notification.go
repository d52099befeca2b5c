package models

// MatchNotification is the payload sent to the notify-match endpoint when
// a match is formed.
type MatchNotification struct {
	UserAID      string `json:"userAId"`
	UserBID      string `json:"userBId"`
	CourseCode   string `json:"courseCode"`
	CourseName   string `json:"courseName"`
	UserASection string `json:"userASection"`
	UserBSection string `json:"userBSection"`
	UserAName    string `json:"userAName"`
	UserBName    string `json:"userBName"`
}

// NotifyResult is the notify-match endpoint's response body.
type NotifyResult struct {
	Success    bool          `json:"success"`
	EmailsSent []string      `json:"emailsSent"`
	Errors     []NotifyError `json:"errors"`
}

// NotifyError reports a per-recipient delivery failure.
type NotifyError struct {
	User  string `json:"user"`
	Error string `json:"error"`
}
