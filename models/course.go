package models

// Course is a catalog entry posts refer to by course code.
type Course struct {
	CourseID   string `dynamodbav:"courseId" json:"courseId"` // ✅ Partition Key
	CourseName string `dynamodbav:"courseName" json:"courseName"`
}

// Section is one offered section of a course.
type Section struct {
	CourseID   string `dynamodbav:"courseId" json:"courseId"`     // Partition Key (PK)
	SectionNum string `dynamodbav:"sectionNum" json:"sectionNum"` // Sort Key (SK)
	ClassTime  string `dynamodbav:"classTime,omitempty" json:"classTime,omitempty"`
	Professor  string `dynamodbav:"professor,omitempty" json:"professor,omitempty"`
	CRN        string `dynamodbav:"crn,omitempty" json:"crn,omitempty"`
}

// CoursesTable is the DynamoDB table name for courses
const CoursesTable = "Courses"

// SectionsTable is the DynamoDB table name for sections
const SectionsTable = "Sections"
