package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"golang.org/x/oauth2"
)

const tokenReadTimeout = 5 * time.Second

// StoreTokenSource serves the bearer token kept in the session store.
// The token is issued elsewhere; this source only reads it, on every request,
// so a login or logout in the host is picked up immediately.
type StoreTokenSource struct {
	store repository.KeyValueStore
}

// NewStoreTokenSource creates a token source backed by the session store
func NewStoreTokenSource(store repository.KeyValueStore) *StoreTokenSource {
	return &StoreTokenSource{store: store}
}

// Token implements oauth2.TokenSource
func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenReadTimeout)
	defer cancel()

	accessToken, err := s.store.Get(ctx, entity.KeyAccessToken)
	if errors.Is(err, entity.ErrKeyNotFound) || (err == nil && accessToken == "") {
		return nil, entity.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}

// NewAuthorizedTransport wraps base so every request carries the stored bearer token
func NewAuthorizedTransport(src oauth2.TokenSource, base http.RoundTripper) *oauth2.Transport {
	return &oauth2.Transport{
		Source: src,
		Base:   base,
	}
}
