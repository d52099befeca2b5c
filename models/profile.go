package models

// Profile holds the student details attached to an externally authenticated
// user. The id is the identity provider's user id.
type Profile struct {
	ID        string `dynamodbav:"id" json:"id"` // ✅ Partition Key
	Name      string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	StudentID string `dynamodbav:"studentId,omitempty" json:"studentId,omitempty"` // Indexed via GSI
	Phone     string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Email     string `dynamodbav:"email,omitempty" json:"email,omitempty"`
}

// IsComplete reports whether the profile has everything a post requires.
func (p Profile) IsComplete() bool {
	return p.Name != "" && p.StudentID != "" && p.Phone != ""
}

// ProfilesTable is the DynamoDB table name for profiles
const ProfilesTable = "Profiles"

// ProfilesStudentIDIndex is the GSI used for the student-id uniqueness check
const ProfilesStudentIDIndex = "studentId-index"
