package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/handlers"
	"github.com/harentsoaR/mentorship-api/internal/logging"
	"github.com/harentsoaR/mentorship-api/internal/middleware"
	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/repository"
	"github.com/harentsoaR/mentorship-api/internal/services"
	"github.com/harentsoaR/mentorship-api/internal/storage"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hasher := utils.NewPasswordHasher(bcrypt.MinCost)
	students := repository.NewMemoryStudentRepository(hasher)
	mentors := repository.NewMemoryMentorRepository(hasher)
	tokens := utils.NewTokenManager("client-test")
	log := logging.Discard()

	auth := services.NewAuthService(services.AuthDeps{
		Students: students,
		Mentors:  mentors,
		Hasher:   hasher,
		Tokens:   tokens,
		Admin:    config.AdminConfig{Email: "admin@site.io", Password: "admin-secret"},
		Uploader: storage.NewMemoryUploader(),
		Logger:   log,
	})
	approvals := services.NewApprovalService(students, mentors, nil, nil, log)
	h := handlers.NewHandler(auth, approvals, middleware.NewMetrics(), log, false)

	srv := httptest.NewServer(handlers.NewRouter(h, handlers.RouterConfig{FrontendURL: "http://localhost:5173", Tokens: tokens}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStudentSession(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t).URL)

	_, ok := c.Session()
	assert.False(t, ok)

	s, err := c.SignupStudent(ctx, "Ravi", "ravi@example.com", "studentpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, s.User.Role)

	current, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, s, current)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", me.Email)
	assert.Equal(t, s.User.ID, me.ID)

	_, err = c.Stats(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	_, ok = c.Session()
	assert.True(t, ok, "403 must not drop the session")

	c.Logout()
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	var dropped []Session
	c := New(newServer(t).URL,
		WithSession(Session{Token: "stale-token"}),
		WithOnUnauthorized(func(s Session) { dropped = append(dropped, s) }),
	)

	_, err := c.Me(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", apiErr.Code)

	_, ok := c.Session()
	assert.False(t, ok)
	require.Len(t, dropped, 1)
	assert.Equal(t, "stale-token", dropped[0].Token)
}

func TestFailedLoginDoesNotFireHook(t *testing.T) {
	called := false
	c := New(newServer(t).URL, WithOnUnauthorized(func(Session) { called = true }))

	_, err := c.Login(context.Background(), "ghost@example.com", "whatever1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "User not found.", apiErr.Message)
	assert.False(t, called)
}

func TestMentorApproval(t *testing.T) {
	ctx := context.Background()
	url := newServer(t).URL
	mentor := New(url)
	admin := New(url)

	id, err := mentor.RegisterMentor(ctx, MentorForm{
		Name:          "Asha Rao",
		PersonalEmail: "asha@mail.com",
		CollegeEmail:  "asha@uni.edu",
		Password:      "mentorpass",
		PhoneNumber:   "9999999999",
		Age:           25,
		College:       "IIT",
		Branch:        "CSE",
		Year:          "2022",
		MentorReason:  strings.Repeat("Happy to guide first-years. ", 5),
		ExpectedPrice: 250,
	}, Upload{Filename: "me.png", Data: []byte("img")}, Upload{Filename: "id.png", Data: []byte("id")})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = mentor.Login(ctx, "asha@mail.com", "mentorpass")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = admin.Login(ctx, "admin@site.io", "admin-secret")
	require.NoError(t, err)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counts.PendingMentors)
	require.Len(t, stats.Mentors, 1)
	assert.Equal(t, id, stats.Mentors[0].ID)

	updated, err := admin.SetMentorStatus(ctx, id, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	s, err := mentor.Login(ctx, "asha@uni.edu", "mentorpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, s.User.Role)

	me, err := mentor.Me(ctx)
	require.NoError(t, err)
	require.NotNil(t, me.Emails)
	assert.Equal(t, "asha@mail.com", me.Emails.Personal)
}
