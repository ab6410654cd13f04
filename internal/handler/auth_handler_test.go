package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func authServer(svc *MockAuthService) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	h := NewAuthHandler(svc)
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(*MockAuthService)
		expectedCode int
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","password":"pw123456"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw123456").Return(&model.User{Email: "a@x.com"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "missing email",
			body:         `{"password":"pw123456"}`,
			setupMock:    func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"email":"a@x.com"}`,
			setupMock:    func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email is 400",
			body: `{"email":"a@x.com","password":"pw123456"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw123456").Return(nil, apperrors.ErrEmailTaken)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "store failure is opaque 500",
			body: `{"email":"a@x.com","password":"pw123456"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw123456").Return(nil, assert.AnError)
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			tt.setupMock(mockSvc)

			rec := postJSON(authServer(mockSvc), "/api/auth/register", tt.body)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusInternalServerError {
				// No store detail may leak to the client.
				assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	mockSvc := new(MockAuthService)
	mockSvc.On("Login", mock.Anything, "a@x.com", "pw123456").Return("signed-token", nil)

	rec := postJSON(authServer(mockSvc), "/api/auth/login", `{"email":"a@x.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"signed-token"`)
	mockSvc.AssertExpectations(t)
}

// Unknown email and wrong password must produce byte-identical responses.
func TestAuthHandler_Login_NoUserEnumeration(t *testing.T) {
	mockSvc := new(MockAuthService)
	mockSvc.On("Login", mock.Anything, "ghost@x.com", "pw123456").Return("", apperrors.ErrInvalidCredentials)
	mockSvc.On("Login", mock.Anything, "real@x.com", "wrong-pw").Return("", apperrors.ErrInvalidCredentials)

	e := authServer(mockSvc)
	unknownEmail := postJSON(e, "/api/auth/login", `{"email":"ghost@x.com","password":"pw123456"}`)
	wrongPassword := postJSON(e, "/api/auth/login", `{"email":"real@x.com","password":"wrong-pw"}`)

	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	mockSvc := new(MockAuthService)
	rec := postJSON(authServer(mockSvc), "/api/auth/login", `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email and password are required")
	mockSvc.AssertExpectations(t)
}
