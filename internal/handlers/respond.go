package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
)

// fail writes err as the standard error envelope. Unclassified errors become
// 500 and are logged with their cause.
func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperr.As(err)
	status := appErr.StatusCode()
	if status >= 500 {
		h.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, appErr.Envelope(h.Debug))
}
