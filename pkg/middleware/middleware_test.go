package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/middleware"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/webapi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MiddlewareSuite struct {
	suite.Suite
	store  *memory.Store
	tokens *memory.TokenStore
	auth   *authsvc.Service
	cfg    *config.Auth
	app    *fiber.App
	owner  uuid.UUID
	acc    *account.Account
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = memory.NewStore()
	s.tokens = memory.NewTokenStore()
	s.cfg = &config.Auth{
		TokenHeader: "x-access-token",
		Jwt:         &config.Jwt{Secret: "middleware-secret", Expiry: time.Hour},
	}
	s.auth = authsvc.New(s.store, s.tokens, s.cfg.Jwt, time.Hour, logger)
	verifier := ownership.New(s.store, logger)

	s.owner = uuid.New()
	acc, err := account.New().WithUserID(s.owner).WithName("Main").Build()
	s.Require().NoError(err)
	accounts, _ := s.store.AccountRepository()
	s.Require().NoError(accounts.Create(context.Background(), acc))
	s.acc = acc

	s.app = fiber.New()
	s.app.Get("/whoami", middleware.Protected(s.cfg, s.auth, func(c *fiber.Ctx) error {
		subject, ok := middleware.Subject(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(subject.String())
	})...)
	s.app.Get("/accounts/:id", middleware.Protected(s.cfg, s.auth,
		middleware.VerifyAccount(verifier, "id"),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })...)
	s.app.Post("/entries", middleware.Protected(s.cfg, s.auth,
		middleware.VerifyEntryCreation(verifier),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusCreated) })...)
}

func (s *MiddlewareSuite) do(method, path, token, body string) (*http.Response, common.ProblemDetails) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("x-access-token", token)
	}
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	var pd common.ProblemDetails
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close() //nolint: errcheck
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	}
	return resp, pd
}

func (s *MiddlewareSuite) issue(userID uuid.UUID) string {
	token, err := s.auth.IssueToken(context.Background(), userID)
	s.Require().NoError(err)
	return token
}

func (s *MiddlewareSuite) TestMissingTokenIsUnauthorized() {
	resp, pd := s.do(http.MethodGet, "/whoami", "", "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(common.CodeUnauthorized, pd.Code)
}

func (s *MiddlewareSuite) TestGarbageTokenIsUnauthorized() {
	resp, pd := s.do(http.MethodGet, "/whoami", "not.a.jwt", "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(common.CodeUnauthorized, pd.Code)
}

func (s *MiddlewareSuite) TestValidTokenSetsSubject() {
	token := s.issue(s.owner)
	resp, _ := s.do(http.MethodGet, "/whoami", token, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(s.owner.String(), string(body))
}

func (s *MiddlewareSuite) TestSignedButUnlistedTokenIsRejected() {
	token, err := s.auth.GenerateToken(s.owner)
	s.Require().NoError(err)
	resp, pd := s.do(http.MethodGet, "/whoami", token, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(common.CodeUnauthorized, pd.Code)
}

func (s *MiddlewareSuite) TestRevokedTokenIsRejected() {
	token := s.issue(s.owner)
	s.Require().NoError(s.auth.Logout(context.Background(), token))
	resp, _ := s.do(http.MethodGet, "/whoami", token, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *MiddlewareSuite) TestVerifyAccount() {
	ownerToken := s.issue(s.owner)
	strangerToken := s.issue(uuid.New())

	resp, _ := s.do(http.MethodGet, "/accounts/"+s.acc.ID.String(), ownerToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, pd := s.do(http.MethodGet, "/accounts/"+uuid.NewString(), ownerToken, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(common.CodeNotFound, pd.Code)

	resp, pd = s.do(http.MethodGet, "/accounts/"+s.acc.ID.String(), strangerToken, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(common.CodeUnauthorized, pd.Code)

	resp, _ = s.do(http.MethodGet, "/accounts/nope", ownerToken, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *MiddlewareSuite) TestVerifyEntryCreation() {
	token := s.issue(s.owner)
	own := `{"userID":"` + s.owner.String() + `","accountID":"` + s.acc.ID.String() + `"}`
	resp, _ := s.do(http.MethodPost, "/entries", token, own)
	s.Equal(http.StatusCreated, resp.StatusCode)

	foreignUser := `{"userID":"` + uuid.NewString() + `","accountID":"` + s.acc.ID.String() + `"}`
	resp, _ = s.do(http.MethodPost, "/entries", token, foreignUser)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	missingAccount := `{"userID":"` + s.owner.String() + `","accountID":"` + uuid.NewString() + `"}`
	resp, _ = s.do(http.MethodPost, "/entries", token, missingAccount)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestSubjectAndRawTokenWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := middleware.Subject(c)
		assert.False(t, ok)
		assert.Empty(t, middleware.RawToken(c))
		return c.SendStatus(http.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
