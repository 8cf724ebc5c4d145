package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type issuedToken struct {
	userID   uuid.UUID
	issuedAt time.Time
}

// TokenStore is a map-backed session whitelist.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]issuedToken
}

// NewTokenStore returns an empty whitelist.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: map[string]issuedToken{}}
}

func (s *TokenStore) Add(_ context.Context, token string, userID uuid.UUID, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = issuedToken{userID: userID, issuedAt: issuedAt}
	return nil
}

func (s *TokenStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *TokenStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *TokenStore) RemoveByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, t := range s.tokens {
		if t.userID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *TokenStore) Sweep(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, t := range s.tokens {
		if t.issuedAt.Before(cutoff) {
			delete(s.tokens, token)
			n++
		}
	}
	return n, nil
}
