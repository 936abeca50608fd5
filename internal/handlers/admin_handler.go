package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
)

// GetDashboardStats returns every mentor and student with derived counts.
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.Approvals.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"recentMentors": stats.Mentors,
		"students":      stats.Students,
		"stats":         stats.Counts,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateMentorStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, apperr.CodeInvalidStatus, "Invalid status value"))
		return
	}

	mentor, err := h.Approvals.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Metrics.StatusTransition(mentor.Status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Mentor status updated to %s", mentor.Status),
		"mentor":  mentor,
	})
}
