package user_test

import (
	"net/http"
	"testing"

	"github.com/saveblue/saveblue/webapi/common"
	"github.com/saveblue/saveblue/webapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOtherUserIsUnauthorized(t *testing.T) {
	env := testutils.NewEnv(t)
	alice := env.Login(t, "alice")
	bob := env.Login(t, "bob")

	resp := env.Request(t, http.MethodGet, "/users/"+bob.UserID.String(), nil, alice.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, common.CodeUnauthorized, testutils.Decode(t, resp).Code)
}

func TestUpdateUserRotatesToken(t *testing.T) {
	env := testutils.NewEnv(t)
	s := env.Login(t, "alice")

	resp := env.Request(t, http.MethodPut, "/users/"+s.UserID.String(), map[string]string{
		"username": "alice2",
	}, s.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	testutils.DecodeData(t, resp, &out)
	assert.Equal(t, "alice2", out.User.Username)
	require.NotEmpty(t, out.Token)
	assert.NotEqual(t, s.Token, out.Token)

	resp = env.Request(t, http.MethodGet, "/users/"+s.UserID.String(), nil, s.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = env.Request(t, http.MethodGet, "/users/"+s.UserID.String(), nil, out.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateUserConflict(t *testing.T) {
	env := testutils.NewEnv(t)
	env.Login(t, "alice")
	bob := env.Login(t, "bob")

	resp := env.Request(t, http.MethodPut, "/users/"+bob.UserID.String(), map[string]string{
		"email": "alice@example.com",
	}, bob.Token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	env := testutils.NewEnv(t)
	s := env.Login(t, "alice")
	env.CreateAccount(t, s, "Main")

	resp := env.Request(t, http.MethodDelete, "/users/"+s.UserID.String(), nil, s.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = env.Request(t, http.MethodGet, "/users/"+s.UserID.String(), nil, s.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.Request(t, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
