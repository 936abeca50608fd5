package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/middleware"
	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/storage"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

type RouterConfig struct {
	FrontendURL string
	Tokens      *utils.TokenManager
	// Limiter throttles logins when set.
	Limiter *middleware.LoginLimiter
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 2*storage.MaxUploadSize + 1<<20

	r.Use(middleware.RequestLogger(h.Log), middleware.Recovery(h.Log), h.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	auth := middleware.AuthMiddleware(cfg.Tokens)

	authRoutes := r.Group("/api/auth")
	{
		login := []gin.HandlerFunc{h.Login}
		if cfg.Limiter != nil {
			login = append([]gin.HandlerFunc{cfg.Limiter.Middleware()}, login...)
		}
		authRoutes.POST("/login", login...)
		authRoutes.POST("/signup", h.SignupStudent)
		authRoutes.POST("/signup-student", h.SignupStudent)
		authRoutes.POST("/register-mentor", h.RegisterMentor)
		authRoutes.GET("/me", auth, h.GetMe)
	}

	adminRoutes := r.Group("/api/admin")
	adminRoutes.Use(auth, middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/stats", h.GetDashboardStats)
		adminRoutes.PATCH("/mentor-status/:id", h.UpdateMentorStatus)
	}

	mentorRoutes := r.Group("/api/mentor")
	mentorRoutes.Use(auth, middleware.RequireRole(models.RoleMentor, models.RoleAdmin))
	{
		mentorRoutes.GET("/profile", h.GetMentorProfile)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s not found on this server", c.Request.URL.RequestURI()),
		})
	})
	return r
}
