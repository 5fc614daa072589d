package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/realty/backend/internal/application/identity"
	"github.com/realty/backend/internal/domain/identity"
	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/infrastructure/auth"
	"github.com/realty/backend/internal/infrastructure/config"
	"github.com/realty/backend/internal/interfaces/http/middleware"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		RefreshSecret:          "test-refresh-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, role, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func createTestClient(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("client@realty.test", "Test Client", "Password123", identity.RoleClient)
	require.NoError(t, err)
	return user
}

func setupAuthRouter(h *AuthHandler, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	protected := r.Group("/api/v1/auth")
	protected.Use(middleware.JWTAuthMiddleware(jwtService))
	{
		protected.GET("/me", h.Me)
		protected.POST("/logout", h.Logout)
	}

	return r
}

func newAuthHandlerForTest(userRepo *MockUserRepository) (*AuthHandler, *auth.JWTService) {
	jwtService := auth.NewJWTService(testJWTConfig())
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, nil, zap.NewNop())
	return NewAuthHandler(authService), jwtService
}

func TestAuthHandler_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByEmail", mock.Anything, "new.client@realty.test").Return(false, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Email:    "new.client@realty.test",
		FullName: "New Client",
		Password: "Password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "new.client@realty.test", user["email"])
	assert.Equal(t, "client", user["role"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByEmail", mock.Anything, "taken@realty.test").Return(true, nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Email:    "taken@realty.test",
		FullName: "Someone Else",
		Password: "Password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errInfo := resp["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_EXISTS", errInfo["code"])
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	userRepo := new(MockUserRepository)
	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	// Password below the minimum length fails binding
	body, _ := json.Marshal(identityapp.RegisterRequest{
		Email:    "short@realty.test",
		FullName: "Short Password",
		Password: "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := createTestClient(t)

	userRepo.On("FindByEmail", mock.Anything, "client@realty.test").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "client@realty.test",
		Password: "Password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := createTestClient(t)

	userRepo.On("FindByEmail", mock.Anything, "client@realty.test").Return(user, nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "client@realty.test",
		Password: "WrongPassword1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errInfo := resp["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_CREDENTIALS", errInfo["code"])
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "nobody@realty.test").Return(nil, shared.ErrNotFound)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "nobody@realty.test",
		Password: "Password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Unknown email reads the same as a bad password
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errInfo := resp["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_CREDENTIALS", errInfo["code"])
}

func TestAuthHandler_Me_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := createTestClient(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), data["id"])
	assert.Equal(t, "client@realty.test", data["email"])
}

func TestAuthHandler_Me_MissingToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := createTestClient(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	h, jwtService := newAuthHandlerForTest(userRepo)
	router := setupAuthRouter(h, jwtService)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
