package services

import (
	"context"
	"fmt"
	"sort"

	"courseswap_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CourseService reads the course/section catalog posts are validated against.
type CourseService struct {
	Dynamo *DynamoService
}

// GetCourses returns the full catalog ordered by course id.
func (cs *CourseService) GetCourses(ctx context.Context) ([]models.Course, error) {
	items, err := cs.Dynamo.ScanItems(ctx, models.CoursesTable, "", nil, nil)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := attributevalue.UnmarshalListOfMaps(items, &courses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal courses: %w", err)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })
	return courses, nil
}

// GetSections returns a course's sections ordered by section number.
func (cs *CourseService) GetSections(ctx context.Context, courseID string) ([]models.Section, error) {
	keyCondition := "courseId = :courseId"
	expressionValues := map[string]types.AttributeValue{
		":courseId": &types.AttributeValueMemberS{Value: courseID},
	}

	items, err := cs.Dynamo.QueryItems(ctx, models.SectionsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var sections []models.Section
	if err := attributevalue.UnmarshalListOfMaps(items, &sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].SectionNum < sections[j].SectionNum })
	return sections, nil
}
