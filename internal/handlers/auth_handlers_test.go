package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, req *services.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req *services.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, email string, update *services.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, email, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) ActivateUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockUserService) DeactivateUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockUserService) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserService) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_ReturnsToken(t *testing.T) {
	svc := &mockUserService{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r *services.RegisterRequest) bool {
		return r.Email == "alice@example.com" && r.FullName == "Alice Smith"
	})).Return("a.jwt.token", nil).Once()

	h := NewAuthHandlers(svc)
	c, rec := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"full_name":"Alice Smith","email":"alice@example.com","password":"secret123"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.jwt.token")
	svc.AssertExpectations(t)
}

func TestRegister_MissingPassword(t *testing.T) {
	h := NewAuthHandlers(&mockUserService{})
	c, _ := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com"}`)

	err := h.Register(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestRegister_ServiceError(t *testing.T) {
	svc := &mockUserService{}
	svc.On("Register", mock.Anything, mock.Anything).Return("", assert.AnError).Once()

	h := NewAuthHandlers(svc)
	c, _ := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret123"}`)

	err := h.Register(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertExpectations(t)
}

func TestLogin_BadCredentialsIs401(t *testing.T) {
	svc := &mockUserService{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", assert.AnError).Once()

	h := NewAuthHandlers(svc)
	c, _ := newJSONContext(http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	err := h.Login(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	svc.AssertExpectations(t)
}

func TestMe_HidesPasswordHash(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secrethash",
		FullName:     "Alice Smith",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	svc := &mockUserService{}
	svc.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()

	h := NewAuthHandlers(svc)
	c, rec := newJSONContext(http.MethodGet, "/api/users/me", "")
	ctx := context.WithValue(c.Request().Context(), common.UserEmailKey, "alice@example.com")
	c.SetRequest(c.Request().WithContext(ctx))

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
	assert.NotContains(t, rec.Body.String(), "secrethash")
	svc.AssertExpectations(t)
}

func TestMe_Unauthenticated(t *testing.T) {
	h := NewAuthHandlers(&mockUserService{})
	c, _ := newJSONContext(http.MethodGet, "/api/users/me", "")

	err := h.Me(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
