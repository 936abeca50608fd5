package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/events"
	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/repository"
	"github.com/harentsoaR/mentorship-api/internal/storage"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

// AuthService resolves identities: login, student signup, mentor
// registration and profile lookups.
type AuthService struct {
	students StudentStore
	mentors  MentorStore
	hasher   *utils.PasswordHasher
	tokens   *utils.TokenManager
	admin    config.AdminConfig
	uploader storage.Uploader
	events   events.Publisher
	log      *logrus.Logger
}

type AuthDeps struct {
	Students StudentStore
	Mentors  MentorStore
	Hasher   *utils.PasswordHasher
	Tokens   *utils.TokenManager
	Admin    config.AdminConfig
	Uploader storage.Uploader
	Events   events.Publisher
	Logger   *logrus.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	return &AuthService{
		students: d.Students,
		mentors:  d.Mentors,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		admin:    d.Admin,
		uploader: d.Uploader,
		events:   d.Events,
		log:      d.Logger,
	}
}

// AuthResult is what a successful login or signup hands back.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// Login checks the admin pair first, then students, then mentors by either
// address. Mentors authenticate only once approved.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = models.NormalizeEmail(email)

	if s.isAdmin(email, password) {
		return s.issue(models.NewAdmin(s.admin.Email))
	}

	var principal models.Principal
	var stored utils.Credentialed

	student, err := s.students.FindByEmail(ctx, email)
	switch {
	case err == nil:
		principal, stored = student, student
	case errors.Is(err, repository.ErrNotFound):
		mentor, err := s.mentors.FindByAnyEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindUnauthenticated, apperr.CodeNotFound, "User not found.")
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if mentor.Status != models.StatusApproved {
			return nil, apperr.New(apperr.KindForbidden, apperr.CodeForbidden,
				fmt.Sprintf("Account status: %s. Please wait for approval.", mentor.Status))
		}
		principal, stored = mentor, mentor
	default:
		return nil, apperr.Internal(err)
	}

	if !s.hasher.Verify(stored, password) {
		return nil, apperr.New(apperr.KindUnauthenticated, apperr.CodeUnauthorized, "Invalid password.")
	}
	return s.issue(principal)
}

func (s *AuthService) isAdmin(email, password string) bool {
	if s.admin.Email == "" || s.admin.Password == "" {
		return false
	}
	emailOK := email == models.NormalizeEmail(s.admin.Email)
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	return emailOK && passwordOK
}

func (s *AuthService) issue(p models.Principal) (*AuthResult, error) {
	token, err := s.tokens.GenerateJWT(p.PrincipalID(), p.PrincipalRole())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, User: models.PublicUserOf(p)}, nil
}

// SignupStudent creates a student and signs them in straight away.
func (s *AuthService) SignupStudent(ctx context.Context, name, email, password string) (*AuthResult, error) {
	student := models.NewStudent(name, email, password)
	if err := student.Validate(); err != nil {
		return nil, validationError(err)
	}

	_, err := s.students.FindByEmail(ctx, student.Email)
	if err == nil {
		return nil, apperr.New(apperr.KindConflict, apperr.CodeEmailTaken, "Email already in use.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Wrap(err, apperr.KindConflict, apperr.CodeEmailTaken, "Email already in use.")
		}
		return nil, apperr.Internal(err)
	}

	s.publish(ctx, events.New(events.StudentSignedUp, student.PrincipalID(), ""))
	return s.issue(student)
}

// File is one buffered multipart upload.
type File struct {
	Filename string
	Data     []byte
}

// MentorApplication is the registration form as submitted. Numeric fields
// arrive as text and are coerced here.
type MentorApplication struct {
	Name          string
	PersonalEmail string
	CollegeEmail  string
	Password      string
	PhoneNumber   string
	Age           string
	College       string
	Branch        string
	Year          string
	MentorReason  string
	LinkedIn      string
	ExpectedPrice string
}

func (a MentorApplication) toMentor() (*models.Mentor, error) {
	var fields []models.FieldError

	age, err := parseInt(a.Age)
	if err != nil {
		fields = append(fields, models.FieldError{Field: "age", Message: "Age must be a number"})
	}
	price, err := parseFloat(a.ExpectedPrice)
	if err != nil {
		fields = append(fields, models.FieldError{Field: "expectedPrice", Message: "Expected price must be a number"})
	}
	if len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields}
	}

	m := &models.Mentor{
		Name:          a.Name,
		Emails:        models.Emails{College: a.CollegeEmail, Personal: a.PersonalEmail},
		PhoneNumber:   a.PhoneNumber,
		Age:           age,
		Education:     models.Education{College: a.College, Branch: a.Branch, Year: a.Year},
		Socials:       models.Socials{LinkedIn: a.LinkedIn},
		MentorReason:  a.MentorReason,
		ExpectedPrice: price,
		Role:          models.RoleMentor,
		Status:        models.StatusPending,
	}
	m.SetPassword(a.Password)
	m.Normalize()
	return m, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// RegisterMentor runs in two phases. Phase one validates the form and checks
// both addresses against existing mentors without touching storage. Phase two
// uploads both files and inserts the record; if anything in phase two fails,
// the assets uploaded so far are deleted. The new mentor starts PENDING and
// is not signed in.
func (s *AuthService) RegisterMentor(ctx context.Context, app MentorApplication, profileImage, collegeID *File) (string, error) {
	mentor, err := app.toMentor()
	if err != nil {
		return "", validationError(err)
	}
	if err := mentor.Validate(); err != nil {
		return "", validationError(err)
	}
	if profileImage == nil || collegeID == nil {
		return "", apperr.New(apperr.KindValidation, apperr.CodeValidation, "Profile image and college ID are required")
	}

	_, err = s.mentors.FindByAnyEmail(ctx, mentor.Emails.College, mentor.Emails.Personal)
	if err == nil {
		return "", apperr.New(apperr.KindConflict, apperr.CodeEmailTaken, "Email already registered as a mentor.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", apperr.Internal(err)
	}

	var uploaded []storage.Asset
	for _, u := range []struct {
		folder string
		file   *File
		target *string
	}{
		{storage.FolderProfiles, profileImage, &mentor.ProfileImage},
		{storage.FolderIDCards, collegeID, &mentor.CollegeIDCard},
	} {
		asset, err := s.uploader.Upload(ctx, u.folder, u.file.Filename, u.file.Data)
		if err != nil {
			s.discard(uploaded)
			return "", apperr.Wrap(err, apperr.KindUpstream, apperr.CodeUploadFailed, "File upload failed")
		}
		uploaded = append(uploaded, asset)
		*u.target = asset.URL
	}

	if err := s.mentors.Create(ctx, mentor); err != nil {
		s.discard(uploaded)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", apperr.Wrap(err, apperr.KindConflict, apperr.CodeEmailTaken, "Email already registered as a mentor.")
		}
		return "", apperr.Internal(err)
	}

	s.publish(ctx, events.New(events.MentorRegistered, mentor.PrincipalID(), string(mentor.Status)))
	return mentor.PrincipalID(), nil
}

// discard deletes assets left behind by a failed registration. Failures are
// logged; the orphan stays.
func (s *AuthService) discard(assets []storage.Asset) {
	for _, a := range assets {
		if err := s.uploader.Delete(context.Background(), a); err != nil {
			s.log.WithError(err).WithField("key", a.Key).Warn("failed to delete orphaned upload")
		}
	}
}

// GetMe returns the full record behind a session: mentors first, then
// students. The admin has no record and gets its synthesized projection.
func (s *AuthService) GetMe(ctx context.Context, id string, role models.Role) (models.Principal, error) {
	if role == models.RoleAdmin && id == models.AdminID {
		return models.NewAdmin(s.admin.Email), nil
	}

	mentor, err := s.mentors.FindByID(ctx, id)
	if err == nil {
		return mentor, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	student, err := s.students.FindByID(ctx, id)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	return nil, apperr.New(apperr.KindNotFound, apperr.CodeNotFound, "User not found")
}

// MentorProfile returns the mentor record with the given id.
func (s *AuthService) MentorProfile(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, apperr.CodeNotFound, "Mentor not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return mentor, nil
}

func (s *AuthService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WithError(err).WithField("event", e.Type).Warn("failed to publish event")
	}
}

func validationError(err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return apperr.Validation(verr.Error(), verr)
	}
	return apperr.Internal(err)
}
