package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpin "repairshop/internal/adapters/in/http"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/user"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/tenantctx"
)

type MockAuthUserRepository struct{ mock.Mock }

func (m *MockAuthUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, httpin.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func runAuthRequest(t *testing.T, userRepo *MockAuthUserRepository, authorization string) (*httptest.ResponseRecorder, tenantctx.Scope, bool) {
	t.Helper()
	e := echo.New()

	var scope tenantctx.Scope
	var scopeBound bool
	next := func(c echo.Context) error {
		scope, scopeBound = tenantctx.ScopeFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders/open", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := httpin.AuthMiddleware(testSecret, userRepo)(next)
	require.NoError(t, handler(c))

	return rec, scope, scopeBound
}

func TestAuthMiddleware_ValidToken_BindsScope(t *testing.T) {
	userID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	actor, err := user.RestoreUser(userID, tenantID, "Ada Reyes", "ada@shop.test")
	require.NoError(t, err)

	userRepo := new(MockAuthUserRepository)
	userRepo.On("Get", mock.Anything, userID).Return(actor, nil).Once()

	rec, scope, scopeBound := runAuthRequest(t, userRepo, "Bearer "+signToken(t, userID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, scopeBound)
	require.Equal(t, tenantID, scope.TenantID)
	require.Equal(t, userID, scope.UserID)
	userRepo.AssertExpectations(t)
}

func TestAuthMiddleware_MissingToken_Unauthorized(t *testing.T) {
	userRepo := new(MockAuthUserRepository)

	rec, _, scopeBound := runAuthRequest(t, userRepo, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, scopeBound)
	userRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAuthMiddleware_MalformedToken_Unauthorized(t *testing.T) {
	userRepo := new(MockAuthUserRepository)

	rec, _, scopeBound := runAuthRequest(t, userRepo, "Bearer not-a-token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, scopeBound)
}

func TestAuthMiddleware_WrongSigningKey_Unauthorized(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, httpin.Claims{
		UserID: kernel.NewUUID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	userRepo := new(MockAuthUserRepository)

	rec, _, scopeBound := runAuthRequest(t, userRepo, "Bearer "+signed)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, scopeBound)
}

func TestAuthMiddleware_ExpiredToken_Unauthorized(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, httpin.Claims{
		UserID: kernel.NewUUID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	userRepo := new(MockAuthUserRepository)

	rec, _, scopeBound := runAuthRequest(t, userRepo, "Bearer "+signed)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, scopeBound)
}

func TestAuthMiddleware_UnknownUser_Unauthorized(t *testing.T) {
	userID := kernel.NewUUID()

	userRepo := new(MockAuthUserRepository)
	userRepo.On("Get", mock.Anything, userID).
		Return(nil, errs.NewObjectNotFoundError("user", userID.String())).
		Once()

	rec, _, scopeBound := runAuthRequest(t, userRepo, "Bearer "+signToken(t, userID.String()))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, scopeBound)
	userRepo.AssertExpectations(t)
}
