// Package testutils builds a fully wired application on in-memory storage for
// HTTP tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	infraeventbus "github.com/saveblue/saveblue/infra/eventbus"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/app"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/webapi"
	"github.com/stretchr/testify/require"
)

// Env is a running application backed by a memory store.
type Env struct {
	App    *app.App
	Fiber  *fiber.App
	Store  *memory.Store
	Tokens *memory.TokenStore
	Bus    *infraeventbus.MemoryEventBus
	Config *config.App
}

// Config returns an application config suitable for tests.
func Config() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{},
		DB:     &config.DB{Driver: "memory"},
		Auth: &config.Auth{
			TokenHeader: "x-access-token",
			Jwt:         &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		},
		Whitelist: &config.Whitelist{Driver: "memory", TTL: time.Hour, SweepInterval: time.Hour},
		Redis:     &config.Redis{},
		Events:    &config.Events{Driver: "memory"},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Taxonomy:  &config.Taxonomy{},
	}
}

// NewEnv wires every service over fresh in-memory infrastructure.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnvWithConfig(t, Config())
}

// NewEnvWithConfig is NewEnv with a caller-supplied config.
func NewEnvWithConfig(t *testing.T, cfg *config.App) *Env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	tokens := memory.NewTokenStore()
	bus := infraeventbus.NewWithMemory(logger)
	a := app.New(&app.Deps{
		Uow:      store,
		Tokens:   tokens,
		EventBus: bus,
		Taxonomy: category.Default(),
		Logger:   logger,
	}, cfg)
	return &Env{
		App:    a,
		Fiber:  webapi.SetupApp(a),
		Store:  store,
		Tokens: tokens,
		Bus:    bus,
		Config: cfg,
	}
}

// Request performs an HTTP request against the app. body may be nil, a
// string or any JSON-encodable value.
func (e *Env) Request(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(e.Config.Auth.TokenHeader, token)
	}
	resp, err := e.Fiber.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Envelope is the decoded shape of both success and problem responses.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Title   string          `json:"title"`
	Detail  string          `json:"detail"`
	Code    string          `json:"code"`
}

// Decode reads and closes resp.Body.
func Decode(t *testing.T, resp *http.Response) Envelope {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

// DecodeData unmarshals the data field of resp into out.
func DecodeData(t *testing.T, resp *http.Response, out any) Envelope {
	t.Helper()
	env := Decode(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, out), "data: %s", env.Data)
	return env
}

// Session is a registered and logged in user.
type Session struct {
	UserID          uuid.UUID
	DraftsAccountID uuid.UUID
	Token           string
}

// Login registers a user named username and logs them in.
func (e *Env) Login(t *testing.T, username string) Session {
	t.Helper()
	resp := e.Request(t, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		ID              uuid.UUID `json:"id"`
		DraftsAccountID uuid.UUID `json:"draftsAccountID"`
	}
	DecodeData(t, resp, &registered)

	resp = e.Request(t, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	DecodeData(t, resp, &login)
	return Session{UserID: registered.ID, DraftsAccountID: registered.DraftsAccountID, Token: login.Token}
}

// CreateAccount opens a regular account for s and returns its id.
func (e *Env) CreateAccount(t *testing.T, s Session, name string) uuid.UUID {
	t.Helper()
	resp := e.Request(t, http.MethodPost, "/accounts/"+s.UserID.String(), map[string]any{"name": name}, s.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var acc struct {
		ID uuid.UUID `json:"id"`
	}
	DecodeData(t, resp, &acc)
	return acc.ID
}
