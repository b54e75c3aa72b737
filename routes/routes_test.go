package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"donlouis-backend/config"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.App.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

func testRouter() *gin.Engine {
	settings := config.DefaultSettings()
	settings.AdminLoginRate = 0.001
	settings.AdminLoginBurst = 2
	settings.LoginRate = 0.001
	settings.LoginBurst = 2
	settings.LoginIPBurst = 3
	return SetupRouter(settings)
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{"pin":"1234"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.4:5555"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r := testRouter()
	customer, err := utils.GenerateToken("70123456", utils.RoleCustomer)
	require.NoError(t, err)
	admin, err := utils.GenerateToken(utils.RoleAdmin, utils.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/admin/session", "").Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/admin/session", customer).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/admin/session", admin).Code)
}

func TestCustomerRoutesRequireCustomer(t *testing.T) {
	r := testRouter()
	admin, err := utils.GenerateToken(utils.RoleAdmin, utils.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/me/loyalty", "").Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/me/spin", admin).Code)
}

func TestPublicRoutes(t *testing.T) {
	r := testRouter()
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/zones", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/status", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/zones", "forged").Code)
}

func TestAdminLoginIsRateLimited(t *testing.T) {
	r := testRouter()
	config.App.AdminPinHash = ""

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, request(r, http.MethodPost, "/auth/admin/login", "").Code)
	}
	assert.Equal(t, []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusTooManyRequests}, codes)
}

func login(r http.Handler, remoteAddr, phone string) int {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"phone":"`+phone+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestCustomerLoginIsRateLimited(t *testing.T) {
	r := testRouter()

	// Requests without a PIN are rejected by the handler, so 400 means the
	// limiter let the attempt through.
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, login(r, "203.0.113.9:4000", "70123456"))
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	assert.Equal(t, http.StatusTooManyRequests, login(r, "203.0.113.9:4000", "71999888"),
		"one client cannot spread guesses over other phones")
	assert.Equal(t, http.StatusBadRequest, login(r, "203.0.113.10:4000", "70123456"))
}

func TestCustomerLoginKeyUsesNormalizedPhone(t *testing.T) {
	r := testRouter()

	assert.Equal(t, http.StatusBadRequest, login(r, "203.0.113.20:4000", "70-123-456"))
	assert.Equal(t, http.StatusBadRequest, login(r, "203.0.113.20:4000", "70 123 456"))
	assert.Equal(t, http.StatusTooManyRequests, login(r, "203.0.113.20:4000", "70123456"))
}
