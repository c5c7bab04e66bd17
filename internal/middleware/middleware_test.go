package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

const testSecret = "test-secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Hour,
	})
}

func signToken(t *testing.T, permissions models.PermissionMatrix, expiry time.Duration) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID:      "u1",
		Email:       "admin@sgmi.com",
		Role:        models.RoleAdministrator,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Authenticate(testAuthService())}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func TestAuthenticateMissingHeaderIs401(t *testing.T) {
	w := doRequest(newProtectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, errorCode(t, w))
}

func TestAuthenticateMalformedHeaderIs401(t *testing.T) {
	w := doRequest(newProtectedRouter(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, errorCode(t, w))
}

func TestAuthenticateBadTokenIs403(t *testing.T) {
	w := doRequest(newProtectedRouter(), "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, errorCode(t, w))
}

func TestAuthenticateExpiredTokenIs403(t *testing.T) {
	token := signToken(t, nil, -time.Minute)
	w := doRequest(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, errorCode(t, w))
}

func TestAuthenticateValidTokenPasses(t *testing.T) {
	token := signToken(t, nil, time.Hour)
	w := doRequest(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionGranted(t *testing.T) {
	matrix := models.PermissionMatrix{
		models.ModuleOrders: {models.ActionView: true},
	}
	r := newProtectedRouter(RequirePermission(models.ModuleOrders, models.ActionView))
	w := doRequest(r, "Bearer "+signToken(t, matrix, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniedActionIs403(t *testing.T) {
	matrix := models.PermissionMatrix{
		models.ModuleOrders: {models.ActionView: true, models.ActionDelete: false},
	}
	r := newProtectedRouter(RequirePermission(models.ModuleOrders, models.ActionDelete))
	w := doRequest(r, "Bearer "+signToken(t, matrix, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrForbidden.Code, errorCode(t, w))
}

func TestRequirePermissionMissingModuleDeniesByDefault(t *testing.T) {
	matrix := models.PermissionMatrix{
		models.ModuleOrders: {models.ActionView: true},
	}
	r := newProtectedRouter(RequirePermission(models.ModuleUsers, models.ActionView))
	w := doRequest(r, "Bearer "+signToken(t, matrix, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionNilMatrixDenies(t *testing.T) {
	r := newProtectedRouter(RequirePermission(models.ModuleReports, models.ActionExport))
	w := doRequest(r, "Bearer "+signToken(t, nil, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalAuthenticateWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalAuthenticate(testAuthService()), func(c *gin.Context) {
		_, authenticated := c.Get(ContextUserKey)
		response.JSON(c, http.StatusOK, gin.H{"authenticated": authenticated}, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestOptionalAuthenticateSwallowsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalAuthenticate(testAuthService()), func(c *gin.Context) {
		_, authenticated := c.Get(ContextUserKey)
		response.JSON(c, http.StatusOK, gin.H{"authenticated": authenticated}, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestOptionalAuthenticateAttachesClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalAuthenticate(testAuthService()), func(c *gin.Context) {
		_, authenticated := c.Get(ContextUserKey)
		response.JSON(c, http.StatusOK, gin.H{"authenticated": authenticated}, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, nil, time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
