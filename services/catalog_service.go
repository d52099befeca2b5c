package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"courseswap_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CatalogService seeds the Courses and Sections tables from a JSON
// catalog object kept in S3.
type CatalogService struct {
	Dynamo *DynamoService
	S3     *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

type catalogFile struct {
	Courses  []models.Course  `json:"courses"`
	Sections []models.Section `json:"sections"`
}

// ImportResult reports how many records a catalog import wrote.
type ImportResult struct {
	Courses  int `json:"courses"`
	Sections int `json:"sections"`
}

// ImportCatalog reads the catalog object at the given key and batch-writes
// its courses and sections.
func (cs *CatalogService) ImportCatalog(ctx context.Context, key string) (*ImportResult, error) {
	output, err := cs.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(cs.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog object '%s': %w", key, err)
	}
	defer output.Body.Close()

	var catalog catalogFile
	if err := json.NewDecoder(output.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog object '%s': %w", key, err)
	}
	if len(catalog.Courses) == 0 && len(catalog.Sections) == 0 {
		return nil, validationErrorf("catalog object contains no courses or sections")
	}

	courseWrites := make([]types.WriteRequest, 0, len(catalog.Courses))
	for _, course := range catalog.Courses {
		item, err := attributevalue.MarshalMap(course)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal course %s: %w", course.CourseID, err)
		}
		courseWrites = append(courseWrites, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	sectionWrites := make([]types.WriteRequest, 0, len(catalog.Sections))
	for _, section := range catalog.Sections {
		item, err := attributevalue.MarshalMap(section)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal section %s/%s: %w", section.CourseID, section.SectionNum, err)
		}
		sectionWrites = append(sectionWrites, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	if len(courseWrites) > 0 {
		if err := cs.Dynamo.BatchWriteItems(ctx, models.CoursesTable, courseWrites); err != nil {
			return nil, err
		}
	}
	if len(sectionWrites) > 0 {
		if err := cs.Dynamo.BatchWriteItems(ctx, models.SectionsTable, sectionWrites); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Catalog import from %s: %d courses, %d sections", key, len(courseWrites), len(sectionWrites))
	return &ImportResult{Courses: len(courseWrites), Sections: len(sectionWrites)}, nil
}
