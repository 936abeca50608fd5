package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedRouter(tokens *utils.TokenManager, roles ...models.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{AuthMiddleware(tokens)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		s, _ := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": s.ID, "role": s.Role})
	})
	r.GET("/guarded", chain...)
	return r
}

func call(r http.Handler, header string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	valid, err := tokens.GenerateJWT("abc", models.RoleStudent)
	require.NoError(t, err)

	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).
		GenerateJWT("abc", models.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		code    string
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "NO_TOKEN", "No token provided or invalid format"},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, "NO_TOKEN", "No token provided or invalid format"},
		{"lowercase scheme", "bearer " + valid, http.StatusUnauthorized, "NO_TOKEN", "No token provided or invalid format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "NO_TOKEN", "No token provided or invalid format"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired"},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, "TOKEN_INVALID", "Invalid token"},
		{"valid", "Bearer " + valid, http.StatusOK, "", ""},
	}
	r := guardedRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(r, tt.header)
			assert.Equal(t, tt.status, status)
			if tt.code == "" {
				assert.Equal(t, "abc", body["id"])
				assert.Equal(t, "STUDENT", body["role"])
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	bearer := func(role models.Role) string {
		token, err := tokens.GenerateJWT("id-"+string(role), role)
		require.NoError(t, err)
		return "Bearer " + token
	}

	adminOnly := guardedRouter(tokens, models.RoleAdmin)
	mentorOrAdmin := guardedRouter(tokens, models.RoleMentor, models.RoleAdmin)

	tests := []struct {
		name    string
		router  http.Handler
		role    models.Role
		status  int
		message string
	}{
		{"admin on admin route", adminOnly, models.RoleAdmin, http.StatusOK, ""},
		{"mentor on admin route", adminOnly, models.RoleMentor, http.StatusForbidden, "Access denied. Admin privileges required."},
		{"student on admin route", adminOnly, models.RoleStudent, http.StatusForbidden, "Access denied. Admin privileges required."},
		{"mentor on mentor route", mentorOrAdmin, models.RoleMentor, http.StatusOK, ""},
		{"admin on mentor route", mentorOrAdmin, models.RoleAdmin, http.StatusOK, ""},
		{"student on mentor route", mentorOrAdmin, models.RoleStudent, http.StatusForbidden, "Access denied. Mentor privileges required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(tt.router, bearer(tt.role))
			assert.Equal(t, tt.status, status)
			if tt.message != "" {
				assert.Equal(t, "FORBIDDEN", body["code"])
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestSessionFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := SessionFrom(c)
	assert.False(t, ok)
}

func TestAuthMiddleware_SessionTimes(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	token, err := tokens.GenerateJWT("abc", models.RoleMentor)
	require.NoError(t, err)

	var session Session
	r := gin.New()
	r.GET("/guarded", AuthMiddleware(tokens), func(c *gin.Context) {
		session, _ = SessionFrom(c)
		c.Status(http.StatusNoContent)
	})
	status, _ := call(r, "Bearer "+token)
	require.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, models.RoleMentor, session.Role)
	assert.WithinDuration(t, session.IssuedAt.Add(utils.TokenTTL), session.ExpiresAt, time.Second)
}
