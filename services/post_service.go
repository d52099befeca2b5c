package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"courseswap_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// PostService owns the Posts table: creation with its validation rules,
// listing, and the status transitions the matching engine drives.
type PostService struct {
	Dynamo *DynamoService
}

// CreatePostRequest carries the user-provided fields of a new post.
type CreatePostRequest struct {
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	CourseCode  string `json:"courseCode"`
	HaveSection string `json:"haveSection"`
	WantSection string `json:"wantSection,omitempty"`
}

// validateNewPost checks the field-level rules that need no store access.
func validateNewPost(req CreatePostRequest) error {
	if req.UserID == "" {
		return validationErrorf("userId is required")
	}
	switch req.Type {
	case models.PostTypeSwap, models.PostTypeGiveaway, models.PostTypeRequest:
	default:
		return validationErrorf("type must be one of swap, giveaway, request")
	}
	if req.CourseCode == "" {
		return validationErrorf("please select a course")
	}
	if req.HaveSection == "" {
		return validationErrorf("please select a section")
	}
	if req.Type == models.PostTypeSwap {
		if req.WantSection == "" {
			return validationErrorf("please select the section you want")
		}
		if req.HaveSection == req.WantSection {
			return ErrSameSection
		}
	}
	return nil
}

// checkOpenPostRules enforces the per-user invariants against the user's
// current open posts: the post cap and the one-open-post-per
// (course, haveSection) rule.
func checkOpenPostRules(open []models.Post, req CreatePostRequest) error {
	if len(open) >= models.MaxOpenPosts {
		return ErrPostLimitReached
	}
	for _, p := range open {
		if p.CourseCode == req.CourseCode && p.HaveSection == req.HaveSection {
			return ErrDuplicatePost
		}
	}
	return nil
}

// CreatePost validates and inserts a new post. All checks run before any
// store mutation, so a rejected request leaves nothing behind.
func (ps *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if err := validateNewPost(req); err != nil {
		return nil, err
	}

	profile, err := ps.getOwnerProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsComplete() {
		return nil, ErrProfileRequired
	}

	sections, err := ps.courseSections(ctx, req.CourseCode)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrUnknownCourse
	}
	haveTime, ok := sectionTime(sections, req.HaveSection)
	if !ok {
		return nil, ErrUnknownSection
	}
	wantTime := ""
	if req.Type == models.PostTypeSwap {
		wantTime, ok = sectionTime(sections, req.WantSection)
		if !ok {
			return nil, ErrUnknownSection
		}
	}

	open, err := ps.GetPostsByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := checkOpenPostRules(open, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Type:            req.Type,
		CourseCode:      req.CourseCode,
		CourseName:      ps.courseName(ctx, req.CourseCode),
		HaveSection:     req.HaveSection,
		HaveSectionTime: haveTime,
		Status:          models.PostStatusActive,
		CreatedAt:       now.Format(time.RFC3339),
		ExpiresAt:       now.AddDate(1, 0, 0).Format(time.RFC3339),
	}
	if req.Type == models.PostTypeSwap {
		post.WantSection = req.WantSection
		post.WantSectionTime = wantTime
	}

	if err := ps.Dynamo.PutItem(ctx, models.PostsTable, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("✅ Post created: %s (%s %s %s→%s) by %s", post.ID, post.Type, post.CourseCode, post.HaveSection, post.WantSection, post.UserID)
	return &post, nil
}

// GetPost fetches a post by id.
func (ps *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: postID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.PostsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return &post, nil
}

// GetPostsByUser returns the user's open (active or pending) posts, newest first.
func (ps *PostService) GetPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := ps.Dynamo.QueryItemsWithIndex(ctx, models.PostsTable, models.PostsUserIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts for user %s: %w", userID, err)
	}

	var posts []models.Post
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}

	open := posts[:0]
	for _, p := range posts {
		if p.IsOpen() {
			open = append(open, p)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt > open[j].CreatedAt })
	return open, nil
}

// GetOpenPosts returns the feed: every active or pending post, newest first,
// with owner details attached. Phone numbers are shared immediately for
// giveaway and request posts only.
func (ps *PostService) GetOpenPosts(ctx context.Context) ([]models.PostWithOwner, error) {
	filter := "#s = :active OR #s = :pending"
	expressionValues := map[string]types.AttributeValue{
		":active":  &types.AttributeValueMemberS{Value: models.PostStatusActive},
		":pending": &types.AttributeValueMemberS{Value: models.PostStatusPending},
	}
	expressionNames := map[string]string{"#s": "status"}

	items, err := ps.Dynamo.ScanItems(ctx, models.PostsTable, filter, expressionValues, expressionNames)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open posts: %w", err)
	}

	var posts []models.Post
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt > posts[j].CreatedAt })

	profiles := map[string]*models.Profile{}
	enriched := make([]models.PostWithOwner, 0, len(posts))
	for _, p := range posts {
		entry := models.PostWithOwner{Post: p}
		owner, cached := profiles[p.UserID]
		if !cached {
			owner, err = ps.getOwnerProfile(ctx, p.UserID)
			if err != nil {
				log.Printf("⚠️ Skipping owner details for post %s: %v", p.ID, err)
			}
			profiles[p.UserID] = owner
		}
		if owner != nil {
			entry.OwnerName = owner.Name
			entry.OwnerStudentID = owner.StudentID
			if p.Type != models.PostTypeSwap {
				entry.OwnerPhone = owner.Phone
			}
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

// FindComplementary returns active swap posts in the candidate's course
// whose sections mirror the candidate's, owned by other users, oldest
// first. excludePostID drops the counterpart of a just-declined match.
func (ps *PostService) FindComplementary(ctx context.Context, post *models.Post, excludePostID string) ([]models.Post, error) {
	tableName := models.PostsTable
	filter := "#t = :swap AND #s = :active AND haveSection = :want AND wantSection = :have AND userId <> :owner"
	expressionValues := map[string]types.AttributeValue{
		":course": &types.AttributeValueMemberS{Value: post.CourseCode},
		":swap":   &types.AttributeValueMemberS{Value: models.PostTypeSwap},
		":active": &types.AttributeValueMemberS{Value: models.PostStatusActive},
		":want":   &types.AttributeValueMemberS{Value: post.WantSection},
		":have":   &types.AttributeValueMemberS{Value: post.HaveSection},
		":owner":  &types.AttributeValueMemberS{Value: post.UserID},
	}
	if excludePostID != "" {
		filter += " AND id <> :exclude"
		expressionValues[":exclude"] = &types.AttributeValueMemberS{Value: excludePostID}
	}

	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		IndexName:                 aws.String(models.PostsCourseIndex),
		KeyConditionExpression:    aws.String("courseCode = :course"),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeValues: expressionValues,
		ExpressionAttributeNames: map[string]string{
			"#t": "type",
			"#s": "status",
		},
	}

	items, err := ps.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to search complementary posts: %w", err)
	}

	var candidates []models.Post
	if err := attributevalue.UnmarshalListOfMaps(items, &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate posts: %w", err)
	}

	// Oldest-first keeps the tie-break deterministic.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].CreatedAt < candidates[j].CreatedAt })
	return candidates, nil
}

// LockForMatch flips a post active→pending with a compare-and-swap on its
// status, so two concurrent match attempts cannot both claim it. Returns
// ErrConditionFailed when the post is no longer active.
func (ps *PostService) LockForMatch(ctx context.Context, postID string) error {
	return ps.casStatus(ctx, postID, models.PostStatusActive, models.PostStatusPending)
}

// ReleaseToActive flips a post pending→active after a declined match.
// A post that was completed or removed in the meantime fails the
// condition and is left untouched.
func (ps *PostService) ReleaseToActive(ctx context.Context, postID string) error {
	return ps.casStatus(ctx, postID, models.PostStatusPending, models.PostStatusActive)
}

func (ps *PostService) casStatus(ctx context.Context, postID, from, to string) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: postID},
	}
	return ps.Dynamo.UpdateItemWithCondition(ctx, models.PostsTable,
		"SET #s = :to", "#s = :from", key,
		map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: to},
			":from": &types.AttributeValueMemberS{Value: from},
		},
		map[string]string{"#s": "status"},
	)
}

// SetPostStatus sets a post's status unconditionally.
func (ps *PostService) SetPostStatus(ctx context.Context, postID, status string) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: postID},
	}
	_, err := ps.Dynamo.UpdateItem(ctx, models.PostsTable, "SET #s = :status", key,
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		map[string]string{"#s": "status"},
	)
	return err
}

// DeletePost removes the post record.
func (ps *PostService) DeletePost(ctx context.Context, postID string) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: postID},
	}
	return ps.Dynamo.DeleteItem(ctx, models.PostsTable, key)
}

func (ps *PostService) getOwnerProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.ProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (ps *PostService) courseSections(ctx context.Context, courseCode string) ([]models.Section, error) {
	keyCondition := "courseId = :courseId"
	expressionValues := map[string]types.AttributeValue{
		":courseId": &types.AttributeValueMemberS{Value: courseCode},
	}
	items, err := ps.Dynamo.QueryItems(ctx, models.SectionsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sections for %s: %w", courseCode, err)
	}

	var sections []models.Section
	if err := attributevalue.UnmarshalListOfMaps(items, &sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	return sections, nil
}

func (ps *PostService) courseName(ctx context.Context, courseCode string) string {
	key := map[string]types.AttributeValue{
		"courseId": &types.AttributeValueMemberS{Value: courseCode},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.CoursesTable, key)
	if err != nil || item == nil {
		return ""
	}

	var course models.Course
	if err := attributevalue.UnmarshalMap(item, &course); err != nil {
		return ""
	}
	return course.CourseName
}

func sectionTime(sections []models.Section, sectionNum string) (string, bool) {
	for _, s := range sections {
		if s.SectionNum == sectionNum {
			return s.ClassTime, true
		}
	}
	return "", false
}
