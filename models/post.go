package models

// Post types
const (
	PostTypeSwap     = "swap"
	PostTypeGiveaway = "giveaway"
	PostTypeRequest  = "request"
)

// Post statuses
const (
	PostStatusActive    = "active"
	PostStatusPending   = "pending"
	PostStatusCompleted = "completed"
	PostStatusExpired   = "expired"
)

// MaxOpenPosts is the per-user cap on posts in active or pending status.
const MaxOpenPosts = 5

// Post represents a section listing (swap, giveaway, or request)
type Post struct {
	ID              string `dynamodbav:"id" json:"id"` // ✅ Partition Key
	UserID          string `dynamodbav:"userId" json:"userId"`
	Type            string `dynamodbav:"type" json:"type"` // swap, giveaway, request
	CourseCode      string `dynamodbav:"courseCode" json:"courseCode"`
	CourseName      string `dynamodbav:"courseName,omitempty" json:"courseName,omitempty"`
	HaveSection     string `dynamodbav:"haveSection" json:"haveSection"`
	HaveSectionTime string `dynamodbav:"haveSectionTime,omitempty" json:"haveSectionTime,omitempty"`
	WantSection     string `dynamodbav:"wantSection,omitempty" json:"wantSection,omitempty"` // required for swap
	WantSectionTime string `dynamodbav:"wantSectionTime,omitempty" json:"wantSectionTime,omitempty"`
	Status          string `dynamodbav:"status" json:"status"` // active, pending, completed, expired
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt       string `dynamodbav:"expiresAt" json:"expiresAt"`
}

// IsOpen reports whether the post still counts against the owner's post limit.
func (p Post) IsOpen() bool {
	return p.Status == PostStatusActive || p.Status == PostStatusPending
}

// PostWithOwner is a Post enriched with owner details for the feed.
// Phone is only populated for giveaway/request posts; swap contact info
// stays hidden until both sides accept a match.
type PostWithOwner struct {
	Post
	OwnerName      string `json:"ownerName,omitempty"`
	OwnerStudentID string `json:"ownerStudentId,omitempty"`
	OwnerPhone     string `json:"ownerPhone,omitempty"`
}

// PostsTable is the DynamoDB table name for posts
const PostsTable = "Posts"

// GSI names on the Posts table
const (
	PostsUserIndex   = "userId-index"
	PostsCourseIndex = "courseCode-index"
)
