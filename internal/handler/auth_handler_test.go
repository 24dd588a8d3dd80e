package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type authServiceMock struct {
	resp *models.LoginResponse
	err  error
}

func (m authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return m.resp, m.err
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(authServiceMock{resp: &models.LoginResponse{AccessToken: "token"}})
	c, w := jsonContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@example.com", Password: "pw"}, nil)
	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)

	h = NewAuthHandler(authServiceMock{err: appErrors.ErrInvalidCredentials})
	c, w = jsonContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@example.com", Password: "bad"}, nil)
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(authServiceMock{})

	c, w := newTestContext(http.MethodGet, "/me", nil, nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newTestContext(http.MethodGet, "/me", nil, &models.Caller{UserID: "u1", Role: models.RolePending, Email: "u1@example.com"})
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	var info models.UserInfo
	require.NoError(t, json.Unmarshal(decodeEnvelope(w).Data, &info))
	assert.Equal(t, models.RolePending, info.Role)
	assert.Equal(t, "u1", info.ID)
}
