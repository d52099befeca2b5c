package models

// Match statuses
const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
	MatchStatusDeclined = "declined"
)

// Match sides. Side A is always the post that initiated the match.
const (
	SideA = "A"
	SideB = "B"
)

// Match links two complementary swap posts awaiting mutual acceptance.
// The per-side resolved flags record that a user marked their post
// completed; listing filters on them so the counterpart keeps seeing
// their side of the match.
type Match struct {
	ID            string `dynamodbav:"id" json:"id"` // ✅ Partition Key
	PostAID       string `dynamodbav:"postAId" json:"postAId"`
	PostBID       string `dynamodbav:"postBId" json:"postBId"`
	UserAID       string `dynamodbav:"userAId" json:"userAId"` // Indexed via GSI
	UserBID       string `dynamodbav:"userBId" json:"userBId"` // Indexed via GSI
	UserAAccepted bool   `dynamodbav:"userAAccepted" json:"userAAccepted"`
	UserBAccepted bool   `dynamodbav:"userBAccepted" json:"userBAccepted"`
	UserAResolved bool   `dynamodbav:"userAResolved" json:"userAResolved"`
	UserBResolved bool   `dynamodbav:"userBResolved" json:"userBResolved"`
	Status        string `dynamodbav:"status" json:"status"` // pending, accepted, declined
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// PostFor returns the post id on the given side.
func (m Match) PostFor(side string) string {
	if side == SideA {
		return m.PostAID
	}
	return m.PostBID
}

// UserFor returns the user id on the given side.
func (m Match) UserFor(side string) string {
	if side == SideA {
		return m.UserAID
	}
	return m.UserBID
}

// Accepted reports whether the given side has accepted.
func (m Match) Accepted(side string) bool {
	if side == SideA {
		return m.UserAAccepted
	}
	return m.UserBAccepted
}

// Resolved reports whether the given side has completed their post.
func (m Match) Resolved(side string) bool {
	if side == SideA {
		return m.UserAResolved
	}
	return m.UserBResolved
}

// SideOfPost returns which side of the match the given post id is on.
func (m Match) SideOfPost(postID string) (string, bool) {
	switch postID {
	case m.PostAID:
		return SideA, true
	case m.PostBID:
		return SideB, true
	}
	return "", false
}

// SideOfUser returns which side of the match the given user id is on.
func (m Match) SideOfUser(userID string) (string, bool) {
	switch userID {
	case m.UserAID:
		return SideA, true
	case m.UserBID:
		return SideB, true
	}
	return "", false
}

// OtherSide returns the opposite side flag.
func OtherSide(side string) string {
	if side == SideA {
		return SideB
	}
	return SideA
}

// MatchWithDetails is a Match enriched with both posts and counterpart
// contact details for one user's view. TheirPhone is only populated once
// the match status is accepted.
type MatchWithDetails struct {
	Match
	MyPost         *Post  `json:"myPost,omitempty"`
	TheirPost      *Post  `json:"theirPost,omitempty"`
	TheirName      string `json:"theirName,omitempty"`
	TheirStudentID string `json:"theirStudentId,omitempty"`
	TheirPhone     string `json:"theirPhone,omitempty"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSI names on the Matches table
const (
	MatchesUserAIndex = "userA-index"
	MatchesUserBIndex = "userB-index"
)
