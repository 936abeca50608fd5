package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/mentorship-api/internal/logging"
)

func TestRequestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("production", "info", &buf)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "Internal server error", body["message"])

	assert.Contains(t, buf.String(), "recovered from panic")
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
}
