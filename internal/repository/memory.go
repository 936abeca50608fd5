package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

// MemoryStudentRepository keeps students in process. It enforces the same
// unique email rule as the Mongo indexes and backs the service and handler
// tests.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	hasher   *utils.PasswordHasher
	students map[primitive.ObjectID]models.Student
	clock    *sequenceClock
}

func NewMemoryStudentRepository(hasher *utils.PasswordHasher) *MemoryStudentRepository {
	return &MemoryStudentRepository{
		hasher:   hasher,
		students: make(map[primitive.ObjectID]models.Student),
		clock:    &sequenceClock{},
	}
}

func (r *MemoryStudentRepository) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	email = models.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryStudentRepository) FindByID(_ context.Context, id string) (*models.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemoryStudentRepository) Create(_ context.Context, student *models.Student) error {
	if err := r.hasher.Seal(student); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(student.Email) {
		return ErrDuplicateEmail
	}
	now := r.clock.next()
	student.ID = primitive.NewObjectID()
	student.CreatedAt = now
	student.UpdatedAt = now
	r.students[student.ID] = *student
	return nil
}

func (r *MemoryStudentRepository) List(_ context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	students := make([]models.Student, 0, len(r.students))
	for _, s := range r.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].CreatedAt.After(students[j].CreatedAt)
	})
	return students, nil
}

func (r *MemoryStudentRepository) emailTaken(email string) bool {
	for _, s := range r.students {
		if s.Email == email {
			return true
		}
	}
	return false
}

// MemoryMentorRepository is the in-process counterpart of MentorRepository.
type MemoryMentorRepository struct {
	mu      sync.RWMutex
	hasher  *utils.PasswordHasher
	mentors map[primitive.ObjectID]models.Mentor
	clock   *sequenceClock
}

func NewMemoryMentorRepository(hasher *utils.PasswordHasher) *MemoryMentorRepository {
	return &MemoryMentorRepository{
		hasher:  hasher,
		mentors: make(map[primitive.ObjectID]models.Mentor),
		clock:   &sequenceClock{},
	}
}

func (r *MemoryMentorRepository) FindByAnyEmail(_ context.Context, emails ...string) (*models.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range emails {
		e = models.NormalizeEmail(e)
		for _, m := range r.mentors {
			if m.OwnsEmail(e) {
				return &m, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMentorRepository) FindByID(_ context.Context, id string) (*models.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mentors[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *MemoryMentorRepository) Create(_ context.Context, mentor *models.Mentor) error {
	if err := r.hasher.Seal(mentor); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailsTaken(mentor.Emails) {
		return ErrDuplicateEmail
	}
	now := r.clock.next()
	mentor.ID = primitive.NewObjectID()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	r.mentors[mentor.ID] = *mentor
	return nil
}

func (r *MemoryMentorRepository) UpdateStatus(_ context.Context, id string, status models.MentorStatus) (*models.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mentors[oid]
	if !ok {
		return nil, ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = r.clock.next()
	r.mentors[oid] = m
	return &m, nil
}

func (r *MemoryMentorRepository) List(_ context.Context) ([]models.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mentors := make([]models.Mentor, 0, len(r.mentors))
	for _, m := range r.mentors {
		mentors = append(mentors, m)
	}
	sort.Slice(mentors, func(i, j int) bool {
		return mentors[i].CreatedAt.After(mentors[j].CreatedAt)
	})
	return mentors, nil
}

// emailsTaken mirrors the two unique indexes: college against college and
// personal against personal.
func (r *MemoryMentorRepository) emailsTaken(emails models.Emails) bool {
	for _, m := range r.mentors {
		if m.Emails.College == emails.College || m.Emails.Personal == emails.Personal {
			return true
		}
	}
	return false
}

// sequenceClock hands out strictly increasing timestamps so newest-first
// ordering is stable even when writes land within the same clock tick.
type sequenceClock struct {
	last time.Time
}

func (c *sequenceClock) next() time.Time {
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
