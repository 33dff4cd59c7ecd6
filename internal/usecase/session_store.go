package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
)

// SessionStore gives typed access to the persisted session state
type SessionStore struct {
	kv repository.KeyValueStore
}

// NewSessionStore wraps a key/value store
func NewSessionStore(kv repository.KeyValueStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// IsAuthenticated reports whether a login has been recorded
func (s *SessionStore) IsAuthenticated(ctx context.Context) (bool, error) {
	v, err := s.kv.Get(ctx, entity.KeyIsAuthenticated)
	if errors.Is(err, entity.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// AccessToken returns the stored bearer token
func (s *SessionStore) AccessToken(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, entity.KeyAccessToken)
	if errors.Is(err, entity.ErrKeyNotFound) {
		return "", entity.ErrNotAuthenticated
	}
	return v, err
}

// Profile returns the signed-in user, or nil when none is stored
func (s *SessionStore) Profile(ctx context.Context) (*entity.User, error) {
	v, err := s.kv.Get(ctx, entity.KeyUser)
	if errors.Is(err, entity.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := json.Unmarshal([]byte(v), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

// SaveLogin records the outcome of a successful login made by the host
func (s *SessionStore) SaveLogin(ctx context.Context, accessToken string, user entity.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, entity.KeyAccessToken, accessToken); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, entity.KeyIsAuthenticated, "true"); err != nil {
		return err
	}
	return s.kv.Set(ctx, entity.KeyUser, string(userJSON))
}

// Logout removes the credentials and profile but keeps the ledger
func (s *SessionStore) Logout(ctx context.Context) error {
	for _, key := range []string{entity.KeyAccessToken, entity.KeyIsAuthenticated, entity.KeyUser} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// Reservations reads the ledger; an absent ledger is empty. Entries are
// returned as stored, whatever their shape.
func (s *SessionStore) Reservations(ctx context.Context) ([]json.RawMessage, error) {
	v, err := s.kv.Get(ctx, entity.KeyReservations)
	if errors.Is(err, entity.ErrKeyNotFound) || (err == nil && v == "") {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	reservations := []json.RawMessage{}
	if err := json.Unmarshal([]byte(v), &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode stored reservations: %w", err)
	}
	return reservations, nil
}

// AppendReservation reads the stored ledger fresh, appends record and writes
// the whole list back. Earlier entries keep every field they were stored with. There
// is no compare-and-swap: concurrent writers are last-write-wins.
func (s *SessionStore) AppendReservation(ctx context.Context, record json.RawMessage) ([]json.RawMessage, error) {
	var entry bytes.Buffer
	if err := json.Compact(&entry, record); err != nil {
		return nil, fmt.Errorf("invalid reservation record: %w", err)
	}

	existing, err := s.Reservations(ctx)
	if err != nil {
		return nil, err
	}
	ledger := append(existing, json.RawMessage(entry.Bytes()))

	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ledger); err != nil {
		return nil, fmt.Errorf("failed to encode reservations: %w", err)
	}
	if err := s.kv.Set(ctx, entity.KeyReservations, strings.TrimSuffix(data.String(), "\n")); err != nil {
		return nil, fmt.Errorf("failed to write reservations: %w", err)
	}
	return ledger, nil
}
