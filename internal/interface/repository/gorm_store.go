package repository

import (
	"context"
	"errors"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKeyValueStore implements KeyValueStore on a PostgreSQL table
type GormKeyValueStore struct {
	db        *gorm.DB
	sessionID string
}

// SessionEntries GORM model for database mapping
type SessionEntries struct {
	SessionID string `gorm:"column:session_id;primaryKey"`
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (SessionEntries) TableName() string {
	return "session_entries"
}

// NewGormKeyValueStore creates a store scoped to one session and migrates its table
func NewGormKeyValueStore(db *gorm.DB, sessionID string) (repository.KeyValueStore, error) {
	if err := db.AutoMigrate(&SessionEntries{}); err != nil {
		return nil, err
	}
	return &GormKeyValueStore{
		db:        db,
		sessionID: sessionID,
	}, nil
}

// Get finds the value stored under key
func (s *GormKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var row SessionEntries
	result := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", s.sessionID, key).
		First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", entity.ErrKeyNotFound
	}
	if result.Error != nil {
		return "", result.Error
	}
	return row.Value, nil
}

// Set upserts the value stored under key
func (s *GormKeyValueStore) Set(ctx context.Context, key, value string) error {
	row := SessionEntries{
		SessionID: s.sessionID,
		Key:       key,
		Value:     value,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Delete removes the row stored under key
func (s *GormKeyValueStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", s.sessionID, key).
		Delete(&SessionEntries{}).Error
}
