package services

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/events"
	"github.com/harentsoaR/mentorship-api/internal/logging"
	"github.com/harentsoaR/mentorship-api/internal/repository"
	"github.com/harentsoaR/mentorship-api/internal/storage"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

const (
	adminEmail    = "admin@site.io"
	adminPassword = "admin-secret"
)

type fixture struct {
	students *repository.MemoryStudentRepository
	mentors  *repository.MemoryMentorRepository
	hasher   *utils.PasswordHasher
	tokens   *utils.TokenManager
	uploader *storage.MemoryUploader
	events   *events.Recorder
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher := utils.NewPasswordHasher(bcrypt.MinCost)
	f := &fixture{
		students: repository.NewMemoryStudentRepository(hasher),
		mentors:  repository.NewMemoryMentorRepository(hasher),
		hasher:   hasher,
		tokens:   utils.NewTokenManager("test-secret"),
		uploader: storage.NewMemoryUploader(),
		events:   &events.Recorder{},
	}
	f.auth = NewAuthService(AuthDeps{
		Students: f.students,
		Mentors:  f.mentors,
		Hasher:   hasher,
		Tokens:   f.tokens,
		Admin:    config.AdminConfig{Email: adminEmail, Password: adminPassword},
		Uploader: f.uploader,
		Events:   f.events,
		Logger:   logging.Discard(),
	})
	return f
}

func application() MentorApplication {
	return MentorApplication{
		Name:          "Asha Rao",
		PersonalEmail: "asha@mail.com",
		CollegeEmail:  "asha@uni.edu",
		Password:      "mentorpass",
		PhoneNumber:   "9999999999",
		Age:           "24",
		College:       "IIT",
		Branch:        "CSE",
		Year:          "2023",
		MentorReason:  strings.Repeat("I want to help juniors. ", 6),
		LinkedIn:      "https://www.linkedin.com/in/asha",
		ExpectedPrice: "499",
	}
}

func files() (*File, *File) {
	return &File{Filename: "me.png", Data: []byte("png")}, &File{Filename: "id.pdf", Data: []byte("pdf")}
}
