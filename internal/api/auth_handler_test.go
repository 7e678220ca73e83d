package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/api"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/service/auth"
)

type authFixture struct {
	handler    *api.AuthHandler
	users      *mocks.MemoryUserStore
	jwtService *mocks.MockJWTService
	verifier   *mocks.MockPasswordVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := mocks.NewMemoryUserStore()
	jwtService := &mocks.MockJWTService{}
	verifier := &mocks.MockPasswordVerifier{}

	return &authFixture{
		handler:    api.NewAuthHandler(users, jwtService, verifier, nil),
		users:      users,
		jwtService: jwtService,
		verifier:   verifier,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func (f *authFixture) register(t *testing.T, email, username, password string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, username, password)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	rr := postJSON(t, f.handler.Register, "/api/auth/register", map[string]string{
		"email":     "new@example.com",
		"username":  "newuser",
		"password":  "password123",
		"full_name": "New User",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		User struct {
			ID       uuid.UUID `json:"id"`
			Email    string    `json:"email"`
			Username string    `json:"username"`
			FullName string    `json:"full_name"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "newuser", resp.User.Username)
	assert.Equal(t, "New User", resp.User.FullName)
	assert.Equal(t, "mock-access-token", resp.AccessToken)
	assert.Equal(t, "mock-refresh-token", resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)

	// The plaintext password never appears in the response.
	assert.NotContains(t, rr.Body.String(), "password123")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"missing email", map[string]string{"username": "user", "password": "password123"}},
		{"bad email", map[string]string{"email": "notanemail", "username": "user", "password": "password123"}},
		{"short username", map[string]string{"email": "a@b.co", "username": "ab", "password": "password123"}},
		{"short password", map[string]string{"email": "a@b.co", "username": "user", "password": "short"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rr := postJSON(t, f.handler.Register, "/api/auth/register", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "taken@example.com", "original", "password123")

	rr := postJSON(t, f.handler.Register, "/api/auth/register", map[string]string{
		"email":    "taken@example.com",
		"username": "somebodyelse",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email already registered")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "first@example.com", "shared", "password123")

	rr := postJSON(t, f.handler.Register, "/api/auth/register", map[string]string{
		"email":    "second@example.com",
		"username": "shared",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Username already taken")
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "login@example.com", "loginuser", "password123")

	rr := postJSON(t, f.handler.Login, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "mock-access-token", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "known@example.com", "known", "password123")
	f.verifier.CompareFn = func(hashedPassword, password string) error {
		return auth.ErrInvalidCredentials
	}

	wrongPassword := postJSON(t, f.handler.Login, "/api/auth/login", map[string]string{
		"email":    "known@example.com",
		"password": "wrongpassword",
	})
	unknownEmail := postJSON(t, f.handler.Login, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	// Unknown email and wrong password are indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Invalid email or password")
}

func TestRefreshTokenSuccess(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := f.register(t, "refresh@example.com", "refresher", "password123")
	f.jwtService.ValidateRefreshTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		return &auth.Claims{UserID: user.ID, TokenType: "refresh"}, nil
	}

	rr := postJSON(t, f.handler.RefreshToken, "/api/auth/refresh", map[string]string{
		"refresh_token": "valid-refresh",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "mock-access-token", resp.AccessToken)
	assert.Equal(t, "mock-refresh-token", resp.RefreshToken)
}

func TestRefreshTokenInvalid(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	// The mock's default ValidateRefreshToken returns ErrInvalidToken.
	rr := postJSON(t, f.handler.RefreshToken, "/api/auth/refresh", map[string]string{
		"refresh_token": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshTokenInactiveUser(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := f.register(t, "inactive@example.com", "inactive", "password123")
	user.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), user))

	f.jwtService.ValidateRefreshTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		return &auth.Claims{UserID: user.ID, TokenType: "refresh"}, nil
	}

	rr := postJSON(t, f.handler.RefreshToken, "/api/auth/refresh", map[string]string{
		"refresh_token": "still-signed",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshTokenUnknownUser(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.jwtService.ValidateRefreshTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		return &auth.Claims{UserID: uuid.New(), TokenType: "refresh"}, nil
	}

	rr := postJSON(t, f.handler.RefreshToken, "/api/auth/refresh", map[string]string{
		"refresh_token": "orphaned",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
