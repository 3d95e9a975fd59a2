package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "canopy/internal/errors"
	"canopy/internal/middleware"
	"canopy/internal/model"
	"canopy/internal/repository"
	"canopy/internal/service"
)

// MockTreeService is a mock implementation of TreeService.
type MockTreeService struct {
	mock.Mock
}

func (m *MockTreeService) Submit(ctx context.Context, user *model.User, sub service.TreeSubmission) (*model.Tree, error) {
	args := m.Called(ctx, user, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tree), args.Error(1)
}

func (m *MockTreeService) SubmitBatch(ctx context.Context, user *model.User, subs []service.TreeSubmission) ([]uint, error) {
	args := m.Called(ctx, user, subs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockTreeService) Verify(ctx context.Context, user *model.User, treeID uint, approved bool) (*model.Tree, error) {
	args := m.Called(ctx, user, treeID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tree), args.Error(1)
}

func (m *MockTreeService) ListPending(ctx context.Context, user *model.User) ([]model.Tree, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tree), args.Error(1)
}

func (m *MockTreeService) Explore(ctx context.Context) ([]model.Tree, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tree), args.Error(1)
}

func (m *MockTreeService) ManageList(ctx context.Context, user *model.User) ([]model.Tree, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tree), args.Error(1)
}

func (m *MockTreeService) Search(ctx context.Context, filter repository.TreeFilter) ([]service.TreeListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TreeListing), args.Error(1)
}

func (m *MockTreeService) Delete(ctx context.Context, user *model.User, treeID uint) error {
	args := m.Called(ctx, user, treeID)
	return args.Error(0)
}

func postForm(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestVerifyHandler_Verify(t *testing.T) {
	adminUser := &model.User{ID: 1, RoleID: model.RoleIDAdmin}

	tests := []struct {
		name         string
		body         string
		setupMock    func(*MockTreeService)
		expectedCode int
	}{
		{
			name: "approve decision",
			body: "tree_id=42&approved=true",
			setupMock: func(m *MockTreeService) {
				m.On("Verify", mock.Anything, adminUser, uint(42), true).
					Return(&model.Tree{ID: 42, Status: model.StatusApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "decline decision",
			body: "tree_id=42&approved=false",
			setupMock: func(m *MockTreeService) {
				m.On("Verify", mock.Anything, adminUser, uint(42), false).
					Return(&model.Tree{ID: 42, Status: model.StatusDeclined}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "anything but true declines",
			body: "tree_id=42&approved=yes",
			setupMock: func(m *MockTreeService) {
				m.On("Verify", mock.Anything, adminUser, uint(42), false).
					Return(&model.Tree{ID: 42, Status: model.StatusDeclined}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing tree id",
			body:         "approved=true",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "non-numeric tree id",
			body:         "tree_id=oak&approved=true",
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "unknown tree",
			body: "tree_id=99&approved=true",
			setupMock: func(m *MockTreeService) {
				m.On("Verify", mock.Anything, adminUser, uint(99), true).
					Return(nil, apperrors.ErrTreeNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTreeService)
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			c, _ := postForm(tt.body)
			middleware.SetCurrentUser(c, adminUser)

			h := NewVerifyHandler(mockService)
			err := h.Verify(c)

			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
			} else {
				httpErr, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tt.expectedCode, httpErr.Code)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestVerifyHandler_ListPending(t *testing.T) {
	adminUser := &model.User{ID: 1, RoleID: model.RoleIDAdmin}
	mockService := new(MockTreeService)
	mockService.On("ListPending", mock.Anything, adminUser).Return([]model.Tree{
		{ID: 1, Status: model.StatusPending},
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetCurrentUser(c, adminUser)

	h := NewVerifyHandler(mockService)
	err := h.ListPending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending_trees")
}
