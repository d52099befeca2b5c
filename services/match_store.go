package services

import (
	"context"
	"fmt"

	"courseswap_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchRecordStore owns the Matches table.
type MatchRecordStore struct {
	Dynamo *DynamoService
}

// PutMatch inserts a match record.
func (ms *MatchRecordStore) PutMatch(ctx context.Context, match models.Match) error {
	return ms.Dynamo.PutItem(ctx, models.MatchesTable, match)
}

// GetMatch fetches a match by id.
func (ms *MatchRecordStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMatchNotFound
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// SetAccepted flips one side's accepted flag, and the match status to
// accepted in the same write when the other side had already accepted.
func (ms *MatchRecordStore) SetAccepted(ctx context.Context, matchID, side string, markAccepted bool) (*models.Match, error) {
	flag := "userAAccepted"
	if side == models.SideB {
		flag = "userBAccepted"
	}

	updateExpression := fmt.Sprintf("SET %s = :true", flag)
	expressionValues := map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	}
	var expressionNames map[string]string
	if markAccepted {
		updateExpression += ", #s = :accepted"
		expressionValues[":accepted"] = &types.AttributeValueMemberS{Value: models.MatchStatusAccepted}
		expressionNames = map[string]string{"#s": "status"}
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	updated, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(updated, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &match, nil
}

// SetMatchStatus sets the match status.
func (ms *MatchRecordStore) SetMatchStatus(ctx context.Context, matchID, status string) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	_, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, "SET #s = :status", key,
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		map[string]string{"#s": "status"},
	)
	return err
}

// SetResolved marks one side of the match as resolved (that side's post
// was completed).
func (ms *MatchRecordStore) SetResolved(ctx context.Context, matchID, side string) error {
	flag := "userAResolved"
	if side == models.SideB {
		flag = "userBResolved"
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}
	_, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, fmt.Sprintf("SET %s = :true", flag), key,
		map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}, nil,
	)
	return err
}

// GetMatchesByUser returns every match the user sits on either side of.
func (ms *MatchRecordStore) GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	sideA, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchesUserAIndex, "userAId = :userId", expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}
	sideB, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchesUserBIndex, "userBId = :userId", expressionValues, nil, 0)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(append(sideA, sideB...), &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}
	return matches, nil
}

// GetMatchesByPost returns every match referencing the post on either side.
func (ms *MatchRecordStore) GetMatchesByPost(ctx context.Context, postID string) ([]models.Match, error) {
	filter := "postAId = :postId OR postBId = :postId"
	expressionValues := map[string]types.AttributeValue{
		":postId": &types.AttributeValueMemberS{Value: postID},
	}

	items, err := ms.Dynamo.ScanItems(ctx, models.MatchesTable, filter, expressionValues, nil)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}
	return matches, nil
}
