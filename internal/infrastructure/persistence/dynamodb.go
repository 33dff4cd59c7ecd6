package persistence

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// NewDynamoDBClient creates a DynamoDB client; a non empty endpoint points it
// at a local or alternative DynamoDB deployment
func NewDynamoDBClient(region, endpoint string) (*dynamodb.DynamoDB, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return dynamodb.New(sess), nil
}
