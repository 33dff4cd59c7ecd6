package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// DynamoKeyValueStore implements KeyValueStore on a DynamoDB table whose
// hash key is the string attribute "id"
type DynamoKeyValueStore struct {
	client    *dynamodb.DynamoDB
	table     string
	sessionID string
}

// NewDynamoKeyValueStore creates a store scoped to one session
func NewDynamoKeyValueStore(client *dynamodb.DynamoDB, table, sessionID string) repository.KeyValueStore {
	return &DynamoKeyValueStore{
		client:    client,
		table:     table,
		sessionID: sessionID,
	}
}

// Get returns the value stored under key
func (s *DynamoKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}

	v, ok := out.Item["value"]
	if !ok || v.S == nil {
		return "", entity.ErrKeyNotFound
	}
	return *v.S, nil
}

// Set stores value under key
func (s *DynamoKeyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(s.id(key)),
			},
			"session_id": {
				S: aws.String(s.sessionID),
			},
			"value": {
				S: aws.String(value),
			},
		},
	})
	return err
}

// Delete removes the item stored under key
func (s *DynamoKeyValueStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.itemKey(key),
	})
	return err
}

func (s *DynamoKeyValueStore) id(key string) string {
	return s.sessionID + "#" + key
}

func (s *DynamoKeyValueStore) itemKey(key string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id": {
			S: aws.String(s.id(key)),
		},
	}
}
