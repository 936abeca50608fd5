package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/harentsoaR/mentorship-api/internal/apperr"
	"github.com/harentsoaR/mentorship-api/internal/events"
	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/repository"
)

// ApprovalService owns mentor status transitions and the admin read side.
type ApprovalService struct {
	students StudentStore
	mentors  MentorStore
	events   events.Publisher
	notifier StatusNotifier
	log      *logrus.Logger
}

func NewApprovalService(students StudentStore, mentors MentorStore, pub events.Publisher, notifier StatusNotifier, log *logrus.Logger) *ApprovalService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &ApprovalService{students: students, mentors: mentors, events: pub, notifier: notifier, log: log}
}

// SetStatus applies any of the three statuses. Repeating the current status
// still writes.
func (s *ApprovalService) SetStatus(ctx context.Context, id, status string) (*models.Mentor, error) {
	next, ok := models.ParseMentorStatus(status)
	if !ok {
		return nil, apperr.New(apperr.KindValidation, apperr.CodeInvalidStatus, "Invalid status value")
	}

	mentor, err := s.mentors.UpdateStatus(ctx, id, next)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, apperr.CodeNotFound, "Mentor not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, apperr.CodeInternal, "Update failed")
	}

	s.log.WithFields(logrus.Fields{"mentor": id, "status": next}).Info("mentor status updated")
	if err := s.events.Publish(ctx, events.New(events.MentorStatusChanged, id, string(next))); err != nil {
		s.log.WithError(err).Warn("failed to publish status change")
	}
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(mentor)
	}
	return mentor, nil
}

type StatCounts struct {
	TotalMentors    int `json:"totalMentors"`
	TotalStudents   int `json:"totalStudents"`
	PendingMentors  int `json:"pendingMentors"`
	ApprovedMentors int `json:"approvedMentors"`
	RejectedMentors int `json:"rejectedMentors"`
}

type Stats struct {
	Mentors  []models.Mentor
	Students []models.Student
	Counts   StatCounts
}

// Stats returns every mentor and student, newest first, with derived counts.
func (s *ApprovalService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mentors, err := s.mentors.List(gctx)
		stats.Mentors = mentors
		return err
	})
	g.Go(func() error {
		students, err := s.students.List(gctx)
		stats.Students = students
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, apperr.CodeInternal, "Server failed to fetch dashboard data")
	}

	stats.Counts.TotalMentors = len(stats.Mentors)
	stats.Counts.TotalStudents = len(stats.Students)
	for _, m := range stats.Mentors {
		switch m.Status {
		case models.StatusPending:
			stats.Counts.PendingMentors++
		case models.StatusApproved:
			stats.Counts.ApprovedMentors++
		case models.StatusRejected:
			stats.Counts.RejectedMentors++
		}
	}
	return &stats, nil
}
