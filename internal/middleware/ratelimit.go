package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
	"github.com/harentsoaR/mentorship-api/internal/models"
)

// LoginLimiter caps login attempts per client IP and email in fixed windows.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    *logrus.Logger
}

func NewLoginLimiter(client *redis.Client, limit int, window time.Duration, log *logrus.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, limit: limit, window: window, log: log}
}

// Allow counts one attempt for key and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, err
		}
	}
	return incr.Val() <= int64(l.limit), nil
}

// Middleware rejects requests over the limit with 429. Redis errors let the
// request through.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("login:%s:%s", c.ClientIP(), peekEmail(c))
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			l.log.WithError(err).Warn("login limiter unavailable")
		}
		if !ok {
			abort(c, apperr.New(apperr.KindRateLimited, apperr.CodeRateLimited, "Too many login attempts. Please try again later."))
			return
		}
		c.Next()
	}
}

const peekLimit = 1 << 20

type replayBody struct {
	io.Reader
	io.Closer
}

// peekEmail reads the email from the first peekLimit bytes of a JSON body.
// The handler still sees the whole body.
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	orig := c.Request.Body
	raw, err := io.ReadAll(io.LimitReader(orig, peekLimit))
	c.Request.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), orig), Closer: orig}
	if err != nil {
		return ""
	}

	var body struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(raw, &body)
	return models.NormalizeEmail(body.Email)
}
