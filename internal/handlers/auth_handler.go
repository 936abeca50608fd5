package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
	"github.com/harentsoaR/mentorship-api/internal/middleware"
	"github.com/harentsoaR/mentorship-api/internal/services"
	"github.com/harentsoaR/mentorship-api/internal/storage"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("Email and password are required", err))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.recordLogin(err)
		h.fail(c, err)
		return
	}
	h.Metrics.AuthAttempt(middleware.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": res.Token, "user": res.User})
}

func (h *Handler) recordLogin(err error) {
	switch {
	case apperr.IsKind(err, apperr.KindForbidden):
		h.Metrics.AuthAttempt(middleware.OutcomeForbidden)
	case apperr.IsKind(err, apperr.KindUnauthenticated):
		h.Metrics.AuthAttempt(middleware.OutcomeFailure)
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupStudent creates a student account and signs it in.
func (h *Handler) SignupStudent(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation("Invalid request body", err))
		return
	}

	res, err := h.Auth.SignupStudent(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": res.Token, "user": res.User})
}

// RegisterMentor accepts the multipart application with profileImage and
// collegeId files.
func (h *Handler) RegisterMentor(c *gin.Context) {
	app := services.MentorApplication{
		Name:          c.PostForm("name"),
		PersonalEmail: c.PostForm("personalEmail"),
		CollegeEmail:  c.PostForm("email"),
		Password:      c.PostForm("password"),
		PhoneNumber:   c.PostForm("phoneNumber"),
		Age:           c.PostForm("age"),
		College:       c.PostForm("college"),
		Branch:        c.PostForm("branch"),
		Year:          c.PostForm("year"),
		MentorReason:  c.PostForm("mentorReason"),
		LinkedIn:      c.PostForm("linkedin"),
		ExpectedPrice: c.PostForm("expectedPrice"),
	}

	profileImage, err := formFile(c, "profileImage")
	if err != nil {
		h.fail(c, err)
		return
	}
	collegeID, err := formFile(c, "collegeId")
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := h.Auth.RegisterMentor(c.Request.Context(), app, profileImage, collegeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted! Awaiting admin approval.",
		"id":      id,
	})
}

// formFile buffers an optional upload. A missing field yields nil.
func formFile(c *gin.Context, field string) (*services.File, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Invalid upload", err)
	}
	if header.Size > storage.MaxUploadSize {
		return nil, apperr.New(apperr.KindValidation, apperr.CodeValidation,
			fmt.Sprintf("%s exceeds the %dMB limit", field, storage.MaxUploadSize>>20))
	}
	data, err := readFile(header)
	if err != nil {
		return nil, apperr.Validation("Invalid upload", err)
	}
	return &services.File{Filename: header.Filename, Data: data}, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetMe returns the caller's full record.
func (h *Handler) GetMe(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	user, err := h.Auth.GetMe(c.Request.Context(), session.ID, session.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
