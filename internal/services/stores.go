package services

import (
	"context"

	"github.com/harentsoaR/mentorship-api/internal/models"
)

// StudentStore is implemented by repository.StudentRepository and its
// in-memory counterpart.
type StudentStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context) ([]models.Student, error)
}

type MentorStore interface {
	FindByAnyEmail(ctx context.Context, emails ...string) (*models.Mentor, error)
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	UpdateStatus(ctx context.Context, id string, status models.MentorStatus) (*models.Mentor, error)
	List(ctx context.Context) ([]models.Mentor, error)
}
