package services

import (
	"fmt"
	"html"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/harentsoaR/mentorship-api/internal/config"
	"github.com/harentsoaR/mentorship-api/internal/models"
)

// StatusNotifier tells a mentor their application was decided.
type StatusNotifier interface {
	NotifyStatusChange(mentor *models.Mentor)
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NotificationService emails mentors when an admin approves or rejects them.
// Sending happens in the background so it never holds up the API response.
type NotificationService struct {
	sender mailSender
	from   string
	log    *logrus.Logger
	wg     sync.WaitGroup
}

// NewNotificationService returns a service that only logs when no SMTP host
// is configured.
func NewNotificationService(cfg config.SMTPConfig, log *logrus.Logger) *NotificationService {
	s := &NotificationService{from: cfg.From, log: log}
	if cfg.Host != "" {
		s.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		if s.from == "" {
			s.from = cfg.Username
		}
	}
	return s
}

func (s *NotificationService) NotifyStatusChange(mentor *models.Mentor) {
	subject, body, ok := statusMessage(mentor)
	if !ok {
		return
	}
	to := mentor.Emails.Personal
	if s.sender == nil {
		s.log.WithFields(logrus.Fields{"mentor": mentor.PrincipalID(), "status": mentor.Status}).
			Info("email not sent: SMTP is not configured")
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sender.DialAndSend(msg); err != nil {
			s.log.WithError(err).WithField("to", to).Error("failed to send status email")
			return
		}
		s.log.WithField("to", to).Info("status email sent")
	}()
}

// Wait blocks until every queued email has been attempted.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func statusMessage(m *models.Mentor) (subject, body string, ok bool) {
	switch m.Status {
	case models.StatusApproved:
		return "Your mentor application was approved",
			fmt.Sprintf("<p>Hi %s,</p><p>Your mentor application has been approved. You can now log in.</p>", html.EscapeString(m.Name)),
			true
	case models.StatusRejected:
		return "Your mentor application was not approved",
			fmt.Sprintf("<p>Hi %s,</p><p>After review, your mentor application was not approved.</p>", html.EscapeString(m.Name)),
			true
	}
	return "", "", false
}
