package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validMentor() *Mentor {
	m := &Mentor{
		Name:         "Asha Rao",
		Emails:       Emails{College: "asha@iit.ac.in", Personal: "asha@gmail.com"},
		PhoneNumber:  "+91 90000 00000",
		Age:          21,
		Education:    Education{College: "IIT", Branch: "CSE", Year: "3"},
		Socials:      Socials{LinkedIn: "https://www.linkedin.com/in/asha"},
		MentorReason: strings.Repeat("I enjoy helping juniors. ", 5),
		Role:         RoleMentor,
		Status:       StatusPending,
	}
	m.SetPassword("password123")
	return m
}

func TestRoleCanActAs(t *testing.T) {
	tests := []struct {
		role   Role
		target Role
		want   bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleMentor, true},
		{RoleAdmin, RoleStudent, false},
		{RoleMentor, RoleMentor, true},
		{RoleMentor, RoleAdmin, false},
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleMentor, false},
		{Role("GUEST"), RoleStudent, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"->"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.CanActAs(tt.target))
		})
	}
}

func TestParseMentorStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "APPROVED", "REJECTED"} {
		got, ok := ParseMentorStatus(s)
		assert.True(t, ok)
		assert.Equal(t, MentorStatus(s), got)
	}
	for _, s := range []string{"", "approved", "ACTIVE"} {
		_, ok := ParseMentorStatus(s)
		assert.False(t, ok, s)
	}
}

func TestMentorValidate(t *testing.T) {
	require.NoError(t, validMentor().Validate())

	tests := []struct {
		name    string
		mutate  func(m *Mentor)
		message string
	}{
		{"short reason", func(m *Mentor) { m.MentorReason = "too short" }, "Reason must be at least 100 characters"},
		{"underage", func(m *Mentor) { m.Age = 17 }, "Must be at least 18 years old"},
		{"negative price", func(m *Mentor) { m.ExpectedPrice = -1 }, "Price cannot be negative"},
		{"bad college email", func(m *Mentor) { m.Emails.College = "not-an-email" }, "Please use a valid emails.college"},
		{"same emails", func(m *Mentor) { m.Emails.Personal = m.Emails.College }, "College and personal emails must differ"},
		{"bad linkedin", func(m *Mentor) { m.Socials.LinkedIn = "https://example.com/me" }, "Please provide a valid LinkedIn URL"},
		{"missing branch", func(m *Mentor) { m.Education.Branch = "" }, "education.branch is required"},
		{"short password", func(m *Mentor) { m.SetPassword("short") }, "Password must be at least 8 characters"},
		{"bad status", func(m *Mentor) { m.Status = "ACTIVE" }, "status is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMentor()
			tt.mutate(m)

			err := m.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.message)
		})
	}

	t.Run("linkedin is optional", func(t *testing.T) {
		m := validMentor()
		m.Socials.LinkedIn = ""
		assert.NoError(t, m.Validate())
	})
}

func TestMentorNormalize(t *testing.T) {
	m := validMentor()
	m.Emails.College = "  Asha@IIT.ac.in "
	m.Name = " Asha "
	m.Normalize()

	assert.Equal(t, "asha@iit.ac.in", m.Emails.College)
	assert.Equal(t, "Asha", m.Name)
	assert.True(t, m.OwnsEmail("asha@iit.ac.in"))
	assert.True(t, m.OwnsEmail("asha@gmail.com"))
	assert.False(t, m.OwnsEmail(""))
}

func TestStudentValidate(t *testing.T) {
	s := NewStudent(" Ravi ", " Ravi@Example.COM", "password123")
	require.NoError(t, s.Validate())
	assert.Equal(t, "ravi@example.com", s.Email)
	assert.Equal(t, "Ravi", s.Name)

	s.SetPasswordHash("")
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password is required")
}

func TestPasswordNeverSerialized(t *testing.T) {
	s := NewStudent("Ravi", "ravi@example.com", "password123")
	s.ID = primitive.NewObjectID()
	s.SetPasswordHash("$2a$12$hash")

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$12$hash")

	doc, err := bson.Marshal(s)
	require.NoError(t, err)
	var raw bson.M
	require.NoError(t, bson.Unmarshal(doc, &raw))
	assert.Equal(t, "$2a$12$hash", raw["password"])
	assert.Equal(t, "ravi@example.com", raw["email"])
}

func TestPublicUserOf(t *testing.T) {
	s := NewStudent("Ravi", "ravi@example.com", "password123")
	s.ID = primitive.NewObjectID()

	assert.Equal(t, PublicUser{Name: "Ravi", Role: RoleStudent, ID: s.ID.Hex()}, PublicUserOf(s))
	assert.Equal(t, PublicUser{Name: AdminName, Role: RoleAdmin, ID: AdminID}, PublicUserOf(NewAdmin("admin@x.com")))
}
