package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Student struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Email       string             `bson:"email" json:"email" validate:"required,basic_email"`
	Credentials `bson:",inline" json:"-"`
	Role        Role      `bson:"role" json:"role" validate:"eq=STUDENT"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

func NewStudent(name, email, password string) *Student {
	s := &Student{Name: name, Email: email, Role: RoleStudent}
	s.SetPassword(password)
	s.Normalize()
	return s
}

// Normalize trims free text and lower-cases the email, as stored.
func (s *Student) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = NormalizeEmail(s.Email)
}

func (s *Student) Validate() error {
	return collect(validate.Struct(s), s.validatePassword())
}

func (s *Student) PrincipalID() string { return s.ID.Hex() }
func (s *Student) PrincipalRole() Role { return RoleStudent }
func (s *Student) DisplayName() string { return s.Name }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
