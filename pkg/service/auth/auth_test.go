package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/user"
	"github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTokenStore is a mock implementation of repository.TokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Add(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error {
	return m.Called(ctx, token, userID, issuedAt).Error(0)
}

func (m *MockTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) Remove(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenStore) RemoveByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockTokenStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

var jwtCfg = &config.Jwt{Secret: "test-secret", Expiry: 24 * time.Hour}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) (*auth.Service, *memory.TokenStore, *user.User) {
	t.Helper()
	store := memory.NewStore()
	tokens := memory.NewTokenStore()
	u, err := user.New("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	users, _ := store.UserRepository()
	require.NoError(t, users.Create(context.Background(), u))
	return auth.New(store, tokens, jwtCfg, 24*time.Hour, discard()), tokens, u
}

func TestLogin(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	got, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueAndVerify(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	first, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	second, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	id, err := svc.Verify(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	parsed, err := jwt.Parse(first, func(*jwt.Token) (any, error) { return []byte(jwtCfg.Secret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID.String(), claims["id"])
	assert.Contains(t, claims, "jti")
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, exp.Sub(iat.Time))
}

func TestVerify_Rejections(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	unlisted, err := svc.GenerateToken(u.ID)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, unlisted)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	other := auth.New(memory.NewStore(), memory.NewTokenStore(), &config.Jwt{Secret: "other", Expiry: time.Hour}, 0, discard())
	forged, err := other.GenerateToken(u.ID)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, forged)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired := auth.New(memory.NewStore(), memory.NewTokenStore(), &config.Jwt{Secret: jwtCfg.Secret, Expiry: -time.Minute}, time.Hour, discard())
	stale, err := expired.GenerateToken(u.ID)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, stale)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, tokens, u := setup(t)
	ctx := context.Background()
	tok, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, tokens.Add(ctx, "ancient", u.ID, time.Now().Add(-48*time.Hour)))

	require.NoError(t, svc.Logout(ctx, tok))

	_, err = svc.Verify(ctx, tok)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	ok, err := tokens.Exists(ctx, "ancient")
	require.NoError(t, err)
	assert.False(t, ok, "logout sweeps expired tokens")
}

func TestRevokeUser(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()
	a, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	b, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeUser(ctx, u.ID))

	for _, tok := range []string{a, b} {
		_, err := svc.Verify(ctx, tok)
		assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()
	_, err := svc.Authenticate(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	raw, err := svc.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte(jwtCfg.Secret), nil })
	require.NoError(t, err)
	id, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	bad := &jwt.Token{Raw: raw, Claims: jwt.MapClaims{"id": "nope"}}
	_, err = svc.Authenticate(ctx, bad)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenStoreFailures(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("store unavailable")
	userID := uuid.New()

	t.Run("issue fails when whitelist write fails", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("Add", mock.Anything, mock.AnythingOfType("string"), userID, mock.AnythingOfType("time.Time")).Return(storeErr)
		svc := auth.New(memory.NewStore(), tokens, jwtCfg, time.Hour, discard())
		_, err := svc.IssueToken(ctx, userID)
		assert.ErrorIs(t, err, storeErr)
		tokens.AssertExpectations(t)
	})

	t.Run("whitelist lookup error is returned", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("Exists", mock.Anything, "tok").Return(false, storeErr)
		svc := auth.New(memory.NewStore(), tokens, jwtCfg, time.Hour, discard())
		assert.ErrorIs(t, svc.CheckWhitelist(ctx, "tok"), storeErr)
	})

	t.Run("sweep failure does not fail logout", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("Remove", mock.Anything, "tok").Return(nil)
		tokens.On("Sweep", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), storeErr)
		svc := auth.New(memory.NewStore(), tokens, jwtCfg, time.Hour, discard())
		assert.NoError(t, svc.Logout(ctx, "tok"))
		tokens.AssertExpectations(t)
	})

	t.Run("remove failure fails logout", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("Remove", mock.Anything, "tok").Return(storeErr)
		svc := auth.New(memory.NewStore(), tokens, jwtCfg, time.Hour, discard())
		assert.ErrorIs(t, svc.Logout(ctx, "tok"), storeErr)
		tokens.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything)
	})
}

func TestSweepCutoff(t *testing.T) {
	tokens := new(MockTokenStore)
	before := time.Now()
	tokens.On("Sweep", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.After(before.Add(-2*time.Hour).Add(time.Second)) && cutoff.After(before.Add(-2*time.Hour).Add(-time.Minute))
	})).Return(int64(3), nil)
	svc := auth.New(memory.NewStore(), tokens, jwtCfg, 2*time.Hour, discard())

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	tokens.AssertExpectations(t)
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	tokens := new(MockTokenStore)
	tokens.On("Sweep", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	svc := auth.New(memory.NewStore(), tokens, jwtCfg, time.Hour, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
