package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MentorStatus is a mentor's vetting state. Records start PENDING and only an
// admin moves them.
type MentorStatus string

const (
	StatusPending  MentorStatus = "PENDING"
	StatusApproved MentorStatus = "APPROVED"
	StatusRejected MentorStatus = "REJECTED"
)

var mentorStatuses = []MentorStatus{StatusPending, StatusApproved, StatusRejected}

// ParseMentorStatus accepts exactly one of the three enum values.
func ParseMentorStatus(s string) (MentorStatus, bool) {
	for _, status := range mentorStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

const MinMentorReasonLength = 100

type Emails struct {
	College  string `bson:"college" json:"college" validate:"required,basic_email"`
	Personal string `bson:"personal" json:"personal" validate:"required,basic_email,nefield=College"`
}

type Education struct {
	College string `bson:"college" json:"college" validate:"required"`
	Branch  string `bson:"branch" json:"branch" validate:"required"`
	Year    string `bson:"year" json:"year" validate:"required"`
}

type Socials struct {
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty" validate:"omitempty,linkedin"`
}

type Mentor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name" validate:"required"`
	Emails        Emails             `bson:"emails" json:"emails"`
	Credentials   `bson:",inline" json:"-"`
	PhoneNumber   string       `bson:"phoneNumber" json:"phoneNumber" validate:"required"`
	Age           int          `bson:"age" json:"age" validate:"gte=18"`
	Education     Education    `bson:"education" json:"education"`
	Socials       Socials      `bson:"socials" json:"socials"`
	ProfileImage  string       `bson:"profileImage" json:"profileImage"`
	CollegeIDCard string       `bson:"collegeIdCard" json:"collegeIdCard"`
	MentorReason  string       `bson:"mentorReason" json:"mentorReason" validate:"required,min=100"`
	ExpectedPrice float64      `bson:"expectedPrice" json:"expectedPrice" validate:"gte=0"`
	Role          Role         `bson:"role" json:"role" validate:"oneof=MENTOR ADMIN"`
	Status        MentorStatus `bson:"status" json:"status" validate:"oneof=PENDING APPROVED REJECTED"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updatedAt"`
}

func (m *Mentor) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Emails.College = NormalizeEmail(m.Emails.College)
	m.Emails.Personal = NormalizeEmail(m.Emails.Personal)
	m.PhoneNumber = strings.TrimSpace(m.PhoneNumber)
	m.Socials.LinkedIn = strings.TrimSpace(m.Socials.LinkedIn)
}

func (m *Mentor) Validate() error {
	return collect(validate.Struct(m), m.validatePassword())
}

// OwnsEmail reports whether email is either of the mentor's addresses.
func (m *Mentor) OwnsEmail(email string) bool {
	return email != "" && (m.Emails.College == email || m.Emails.Personal == email)
}

func (m *Mentor) PrincipalID() string { return m.ID.Hex() }
func (m *Mentor) PrincipalRole() Role { return RoleMentor }
func (m *Mentor) DisplayName() string { return m.Name }
