package token

import (
	"context"
	"errors"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"log"
	"time"
)

var ErrAuthentication = errors.New("failed to authenticate with M-PESA API")

type Fetcher interface {
	FetchToken(ctx context.Context) (*models.TokenResponse, error)
}

// Service caches the gateway access token and refreshes it lazily once expired.
// Concurrent callers that find the token expired may each refresh; the gateway
// issues a valid token to every one of them.
type Service struct {
	fetcher Fetcher
	store   Store
	now     func() time.Time
}

func NewService(fetcher Fetcher, store Store) *Service {
	if store == nil {
		store = NewMemoryStore()
	}

	return &Service{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
}

func (s *Service) Get(ctx context.Context) (models.AccessToken, error) {
	cached, ok, err := s.store.Load(ctx)
	if err != nil {
		log.Println("Error loading cached access token, refreshing:", err)
	}

	if ok && cached.Valid(s.now()) {
		return cached, nil
	}

	return s.Refresh(ctx)
}

func (s *Service) Refresh(ctx context.Context) (models.AccessToken, error) {
	log.Println("Generating new access token...")

	res, err := s.fetcher.FetchToken(ctx)
	if err != nil {
		log.Println("Token generation failed:", err)
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	token := models.AccessToken{
		Value:     res.AccessToken,
		ExpiresAt: s.now().Add(res.ExpiresIn.Duration()),
	}

	if err := s.store.Save(ctx, token); err != nil {
		log.Println("Error caching access token:", err)
	}

	log.Println("Access token generated successfully")
	return token, nil
}
