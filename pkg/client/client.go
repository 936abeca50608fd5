// Package client is a Go client for the mentorship API. It holds the caller's
// session explicitly and drops it as soon as the server answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/harentsoaR/mentorship-api/internal/models"
)

// Session is the signed-in identity: the bearer token and who it belongs to.
type Session struct {
	Token string
	User  models.PublicUser
}

type Client struct {
	baseURL        string
	http           *http.Client
	onUnauthorized func(Session)

	mu      sync.RWMutex
	session *Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithOnUnauthorized registers fn to run after a 401 invalidated a session.
// fn receives the session that was dropped.
func WithOnUnauthorized(fn func(Session)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithSession starts the client with a previously stored session.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = &s }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Logout forgets the session locally. Tokens are stateless, so there is
// nothing to revoke server-side.
func (c *Client) Logout() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
}

// invalidate drops the session that produced a 401, unless it was already
// replaced by a newer one.
func (c *Client) invalidate(token string) {
	c.mu.Lock()
	if c.session == nil || c.session.Token != token {
		c.mu.Unlock()
		return
	}
	dropped := *c.session
	c.session = nil
	c.mu.Unlock()

	if c.onUnauthorized != nil {
		c.onUnauthorized(dropped)
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Login signs in and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var res authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", false, body, &res); err != nil {
		return Session{}, err
	}
	s := Session{Token: res.Token, User: res.User}
	c.setSession(s)
	return s, nil
}

// SignupStudent creates a student account and stores its session.
func (c *Client) SignupStudent(ctx context.Context, name, email, password string) (Session, error) {
	var res authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", false, body, &res); err != nil {
		return Session{}, err
	}
	s := Session{Token: res.Token, User: res.User}
	c.setSession(s)
	return s, nil
}

// MentorForm mirrors the registration form fields.
type MentorForm struct {
	Name          string
	PersonalEmail string
	CollegeEmail  string
	Password      string
	PhoneNumber   string
	Age           int
	College       string
	Branch        string
	Year          string
	MentorReason  string
	LinkedIn      string
	ExpectedPrice float64
}

type Upload struct {
	Filename string
	Data     []byte
}

// RegisterMentor submits an application and returns the new mentor id.
// It does not sign in.
func (c *Client) RegisterMentor(ctx context.Context, form MentorForm, profileImage, collegeID Upload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", form.Name},
		{"personalEmail", form.PersonalEmail},
		{"email", form.CollegeEmail},
		{"password", form.Password},
		{"phoneNumber", form.PhoneNumber},
		{"age", fmt.Sprint(form.Age)},
		{"college", form.College},
		{"branch", form.Branch},
		{"year", form.Year},
		{"mentorReason", form.MentorReason},
		{"linkedin", form.LinkedIn},
		{"expectedPrice", fmt.Sprint(form.ExpectedPrice)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return "", err
		}
	}
	for field, u := range map[string]Upload{"profileImage": profileImage, "collegeId": collegeID} {
		w, err := mw.CreateFormFile(field, u.Filename)
		if err != nil {
			return "", err
		}
		if _, err := w.Write(u.Data); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/register-mentor", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res struct {
		ID string `json:"id"`
	}
	if err := c.do(req, false, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// Profile holds the fields common to every principal record returned by
// /api/auth/me. Mentor-only fields are empty for students and the admin.
type Profile struct {
	ID     string              `json:"_id"`
	Name   string              `json:"name"`
	Role   models.Role         `json:"role"`
	Email  string              `json:"email,omitempty"`
	Emails *models.Emails      `json:"emails,omitempty"`
	Status models.MentorStatus `json:"status,omitempty"`
}

// Me refreshes the caller's record.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var res struct {
		User Profile `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", true, nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

type StatCounts struct {
	TotalMentors    int `json:"totalMentors"`
	TotalStudents   int `json:"totalStudents"`
	PendingMentors  int `json:"pendingMentors"`
	ApprovedMentors int `json:"approvedMentors"`
	RejectedMentors int `json:"rejectedMentors"`
}

type Stats struct {
	Mentors  []Profile  `json:"recentMentors"`
	Students []Profile  `json:"students"`
	Counts   StatCounts `json:"stats"`
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var res Stats
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/stats", true, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetMentorStatus approves or rejects a mentor. Admin only.
func (c *Client) SetMentorStatus(ctx context.Context, id string, status models.MentorStatus) (*Profile, error) {
	var res struct {
		Mentor Profile `json:"mentor"`
	}
	body := map[string]string{"status": string(status)}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/admin/mentor-status/"+id, true, body, &res); err != nil {
		return nil, err
	}
	return &res.Mentor, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, authed bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, authed, out)
}

// ErrNoSession is returned by calls that need a session when there is none.
var ErrNoSession = &APIError{StatusCode: http.StatusUnauthorized, Code: "NO_TOKEN", Message: "not signed in"}

func (c *Client) do(req *http.Request, authed bool, out any) error {
	var token string
	if authed {
		s, ok := c.Session()
		if !ok {
			return ErrNoSession
		}
		token = s.Token
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.invalidate(token)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
