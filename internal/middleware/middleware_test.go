package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.NotFound("Stage not found")) })
	r.GET("/invalid", func(c *gin.Context) { _ = c.Error(apperrors.FieldError("stage_id", "is required")) })
	r.GET("/broken", func(c *gin.Context) { _ = c.Error(errors.New("connection reset")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Stage not found"}, decode(t, w))

	w = serve(r, http.MethodGet, "/invalid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, map[string]interface{}{"stage_id": "is required"}, body["fields"])

	w = serve(r, http.MethodGet, "/broken", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode(t, w)["error"])

	w = serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode(t, w)["error"])
}

func authRouter(secret string) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.POST("/profile/:user_id", RequireSameUser(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": c.GetString("userId")})
	})
	return r
}

func TestRequireSameUser(t *testing.T) {
	open := authRouter("")
	assert.Equal(t, http.StatusOK, serve(open, http.MethodPost, "/profile/u1", nil).Code)

	r := authRouter("secret")
	w := serve(r, http.MethodPost, "/profile/u1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Authorization header required"}, decode(t, w))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/profile/u1", http.Header{
		"Authorization": {"Bearer not-a-token"},
	}).Code)

	token, err := utils.GenerateToken("u1", "secret", time.Hour)
	require.NoError(t, err)
	bearer := http.Header{"Authorization": {"Bearer " + token}}

	w = serve(r, http.MethodPost, "/profile/u1", bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w)["caller"])

	w = serve(r, http.MethodPost, "/profile/u2", bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Access denied"}, decode(t, w))
}

func TestValidatePathParams(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	g := r.Group("", ValidatePathParams("user_id"))
	g.GET("/stats/:user_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	g.GET("/leaderboard", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/stats/u1", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/leaderboard", nil).Code)

	w := serve(r, http.MethodGet, "/stats/%20u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "user_id")
}

func TestAttachTraceContext(t *testing.T) {
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})

	w := serve(r, http.MethodGet, "/", http.Header{headerRequestID: {"req-1"}})
	assert.Equal(t, "req-1", w.Header().Get(headerRequestID))
	assert.Equal(t, "req-1", decode(t, w)["request_id"])
	assert.NotEmpty(t, w.Header().Get(headerTraceID))

	w = serve(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(0.001), 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/", nil).Code)
	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests", decode(t, w)["error"])
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
