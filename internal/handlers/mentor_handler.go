package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/middleware"
)

// GetMentorProfile returns the mentor record of the caller.
func (h *Handler) GetMentorProfile(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	mentor, err := h.Auth.MentorProfile(c.Request.Context(), session.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mentor": mentor})
}
