package repository

import (
	"context"
	"errors"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKeyValueStore implements KeyValueStore on a MongoDB collection
type MongoKeyValueStore struct {
	collection *mongo.Collection
	sessionID  string
}

type sessionEntry struct {
	SessionID string    `bson:"sessionId"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoKeyValueStore creates a store scoped to one session
func NewMongoKeyValueStore(db *mongo.Database, sessionID string) repository.KeyValueStore {
	collection := db.Collection("session_entries")

	// One document per session and key
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "sessionId", Value: 1},
			{Key: "key", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoKeyValueStore{
		collection: collection,
		sessionID:  sessionID,
	}
}

// Get finds the value stored under key
func (s *MongoKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var entry sessionEntry
	err := s.collection.FindOne(ctx, s.filter(key)).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", entity.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Set upserts the value stored under key
func (s *MongoKeyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.collection.UpdateOne(
		ctx,
		s.filter(key),
		bson.M{"$set": bson.M{
			"value":     value,
			"updatedAt": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete removes the document stored under key
func (s *MongoKeyValueStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, s.filter(key))
	return err
}

func (s *MongoKeyValueStore) filter(key string) bson.M {
	return bson.M{"sessionId": s.sessionID, "key": key}
}
