package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

const sessionKey = "session"

// Session is the verified identity attached to a request.
type Session struct {
	ID        string
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// decoded session for downstream handlers.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeNoToken, "No token provided or invalid format"))
			return
		}

		claims, err := tokens.ValidateJWT(token)
		if errors.Is(err, utils.ErrTokenExpired) {
			abort(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeTokenExpired, "Token expired"))
			return
		}
		if err != nil {
			abort(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeTokenInvalid, "Invalid token"))
			return
		}

		session := Session{ID: claims.ID, Role: claims.Role}
		if claims.IssuedAt != nil {
			session.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// SessionFrom returns the session set by AuthMiddleware.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// RequireRole admits sessions whose role can act as one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	msg := "Access denied."
	if len(roles) > 0 {
		msg = fmt.Sprintf("Access denied. %s privileges required.", roleLabel(roles[0]))
	}
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			abort(c, apperr.New(apperr.KindUnauthenticated, apperr.CodeNoToken, "No token provided or invalid format"))
			return
		}
		for _, r := range roles {
			if session.Role.CanActAs(r) {
				c.Next()
				return
			}
		}
		abort(c, apperr.New(apperr.KindForbidden, apperr.CodeForbidden, msg))
	}
}

func roleLabel(r models.Role) string {
	s := strings.ToLower(string(r))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.StatusCode(), err.Envelope(false))
}
