package persistence

import (
	"context"
	"fmt"

	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/infrastructure/config"
	store "flightdesk-service/internal/interface/repository"
	"flightdesk-service/pkg/logger"
)

// CloseFunc releases the connection behind a session store
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// OpenSessionStore connects the key/value store selected by STORE_DRIVER
func OpenSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.KeyValueStore, CloseFunc, error) {
	log.Info("Opening session store", "driver", cfg.StoreDriver, "session", cfg.SessionID)

	switch cfg.StoreDriver {
	case config.StoreMemory:
		return store.NewMemoryKeyValueStore(), noopClose, nil

	case config.StoreMongo:
		client, err := NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMongoKeyValueStore(client.Database(cfg.MongoDB), cfg.SessionID), client.Disconnect, nil

	case config.StorePostgres:
		db, err := NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			return nil, nil, err
		}
		kv, err := store.NewGormKeyValueStore(db, cfg.SessionID)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return kv, closeFn, nil

	case config.StoreRedis:
		client, err := NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisKeyValueStore(client, cfg.SessionID), func(context.Context) error { return client.Close() }, nil

	case config.StoreDynamoDB:
		client, err := NewDynamoDBClient(cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return store.NewDynamoKeyValueStore(client, cfg.DynamoDBTable, cfg.SessionID), noopClose, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
