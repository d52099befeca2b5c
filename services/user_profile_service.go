package services

import (
	"context"
	"fmt"
	"log"

	"courseswap_server/models"
	"courseswap_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddProfile validates and stores a new profile. The student id must be
// well-formed and not yet registered by another user.
func (ups *UserProfileService) AddProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if profile.ID == "" {
		return nil, validationErrorf("id is required")
	}
	if profile.Name == "" {
		return nil, validationErrorf("please enter your full name")
	}
	if !utils.IsValidStudentID(profile.StudentID) {
		return nil, validationErrorf("student id must follow the format UYYSSXXXX (e.g., U2410xxxx for Fall 2024)")
	}
	if !utils.IsValidPhone(profile.Phone) {
		return nil, validationErrorf("please enter a valid phone number")
	}

	taken, err := ups.studentIDTaken(ctx, profile.StudentID, profile.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrStudentIDTaken
	}

	if err := ups.Dynamo.PutItem(ctx, models.ProfilesTable, profile); err != nil {
		return nil, err
	}
	log.Printf("✅ Profile created for %s (%s)", profile.ID, profile.StudentID)
	return &profile, nil
}

// GetProfile retrieves a profile by user id.
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.ProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrProfileNotFound
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies partial updates to name, phone, or email.
// Student ids are immutable once registered.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, userID string, updates map[string]string) (*models.Profile, error) {
	if _, err := ups.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range updates {
		switch field {
		case "name", "phone", "email":
		default:
			return nil, validationErrorf(fmt.Sprintf("field '%s' cannot be updated", field))
		}
		if field == "phone" && !utils.IsValidPhone(value) {
			return nil, validationErrorf("please enter a valid phone number")
		}

		placeholder := ":" + field
		attributeName := "#" + field
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: value}
		expressionAttributeNames[attributeName] = field
	}
	if len(expressionAttributeValues) == 0 {
		return nil, validationErrorf("no updatable fields provided")
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}
	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.ProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.Profile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// DeleteProfile removes a profile.
func (ups *UserProfileService) DeleteProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.ProfilesTable, key)
}

func (ups *UserProfileService) studentIDTaken(ctx context.Context, studentID, userID string) (bool, error) {
	keyCondition := "studentId = :studentId"
	expressionValues := map[string]types.AttributeValue{
		":studentId": &types.AttributeValueMemberS{Value: studentID},
	}

	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, models.ProfilesTable, models.ProfilesStudentIDIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check student id: %w", err)
	}

	for _, item := range items {
		var existing models.Profile
		if err := attributevalue.UnmarshalMap(item, &existing); err != nil {
			continue
		}
		if existing.ID != userID {
			return true, nil
		}
	}
	return false, nil
}
