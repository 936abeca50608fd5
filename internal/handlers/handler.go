package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/mentorship-api/internal/middleware"
	"github.com/harentsoaR/mentorship-api/internal/services"
)

// Handler holds the services every route handler needs.
type Handler struct {
	Auth      *services.AuthService
	Approvals *services.ApprovalService
	Metrics   *middleware.Metrics
	Log       *logrus.Logger
	// Debug adds the wrapped error text to error responses.
	Debug bool
}

func NewHandler(auth *services.AuthService, approvals *services.ApprovalService, metrics *middleware.Metrics, log *logrus.Logger, debug bool) *Handler {
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	return &Handler{
		Auth:      auth,
		Approvals: approvals,
		Metrics:   metrics,
		Log:       log,
		Debug:     debug,
	}
}
