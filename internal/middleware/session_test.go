package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"canopy/internal/auth"
	"canopy/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

const testSecret = "test-secret"

// serve runs a request through the full session chain and reports which user,
// if any, the handler observed.
func serve(t *testing.T, repo *MockUserRepository, cookie *http.Cookie) (*model.User, int) {
	t.Helper()

	e := echo.New()
	e.Use(Session([]byte(testSecret)))
	e.Use(ResolveUser(repo))

	var seen *model.User
	e.GET("/", func(c echo.Context) error {
		seen, _ = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return seen, rec.Code
}

func TestSession_NoCookieIsAnonymous(t *testing.T) {
	repo := new(MockUserRepository)

	user, code := serve(t, repo, nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, user)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestSession_GarbageTokenDowngradesToAnonymous(t *testing.T) {
	repo := new(MockUserRepository)

	user, code := serve(t, repo, &http.Cookie{Name: auth.SessionCookieName, Value: "not-a-jwt"})

	// An invalid cookie must behave exactly like no cookie.
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, user)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestSession_TamperedTokenDowngradesToAnonymous(t *testing.T) {
	repo := new(MockUserRepository)

	// Signed with a different secret.
	other := auth.NewSessionService("wrong-secret", time.Hour, false, true, "lax")
	token, err := other.Issue("mallory@example.com")
	assert.NoError(t, err)

	user, code := serve(t, repo, &http.Cookie{Name: auth.SessionCookieName, Value: token})

	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, user)
}

func TestSession_ValidTokenResolvesUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "planter@example.com").Return(&model.User{
		ID:     7,
		Email:  "planter@example.com",
		RoleID: model.RoleIDUser,
	}, nil)

	sessions := auth.NewSessionService(testSecret, time.Hour, false, true, "lax")
	token, err := sessions.Issue("planter@example.com")
	assert.NoError(t, err)

	user, code := serve(t, repo, &http.Cookie{Name: auth.SessionCookieName, Value: token})

	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, user)
	assert.Equal(t, uint(7), user.ID)
	repo.AssertExpectations(t)
}

func TestSession_DeletedUserDowngradesToAnonymous(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "gone@example.com").Return(nil, gorm.ErrRecordNotFound)

	sessions := auth.NewSessionService(testSecret, time.Hour, false, true, "lax")
	token, err := sessions.Issue("gone@example.com")
	assert.NoError(t, err)

	user, code := serve(t, repo, &http.Cookie{Name: auth.SessionCookieName, Value: token})

	// A valid token for a vanished user is not an error, just anonymous.
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, user)
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("anonymous rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireAuth()(handler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		SetCurrentUser(c, &model.User{ID: 7, RoleID: model.RoleIDUser})

		err := RequireAuth()(handler)(c)
		assert.NoError(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	adminOnly := RequireRole(model.RoleIDAdmin)

	t.Run("anonymous gets 401", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		err := adminOnly(handler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		SetCurrentUser(c, &model.User{ID: 7, RoleID: model.RoleIDUser})

		err := adminOnly(handler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("matching role passes", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		SetCurrentUser(c, &model.User{ID: 1, RoleID: model.RoleIDAdmin})

		err := adminOnly(handler)(c)
		assert.NoError(t, err)
	})

	t.Run("any listed role passes", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		SetCurrentUser(c, &model.User{ID: 2, RoleID: model.RoleIDEnvironmentalist})

		err := RequireRole(model.RoleIDAdmin, model.RoleIDEnvironmentalist)(handler)(c)
		assert.NoError(t, err)
	})
}
