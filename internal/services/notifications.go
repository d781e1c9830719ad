package services

import (
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

// Notifier tells people about things that happened to their account or
// appointments. Implementations must not block the caller.
type Notifier interface {
	Welcome(to, fullName, role string)
	AppointmentBooked(to, fullName string, apt *models.Appointment)
	AppointmentCancelled(to, fullName string, apt *models.Appointment)
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NotificationService sends email through SMTP when enabled and only logs
// the message otherwise.
type NotificationService struct {
	enabled bool
	from    string
	sender  mailSender
	log     *slog.Logger
	wg      sync.WaitGroup
}

func NewNotificationService(cfg *config.Config, log *slog.Logger) *NotificationService {
	s := &NotificationService{
		enabled: cfg.EmailEnabled && cfg.SMTPHost != "",
		from:    cfg.SMTPFrom,
		log:     log.With("component", "notifications"),
	}
	if s.enabled {
		s.sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return s
}

func (s *NotificationService) Welcome(to, fullName, role string) {
	body := fmt.Sprintf("Hello %s,\n\nYour %s account has been created. You can now sign in with %s.\n", fullName, role, to)
	s.send(to, "Welcome to DentaClinic", body)
}

func (s *NotificationService) AppointmentBooked(to, fullName string, apt *models.Appointment) {
	body := fmt.Sprintf("Hello %s,\n\nYour %s appointment is confirmed for %s at %s.\n",
		fullName, apt.ConsultationType, apt.AppointmentDate.Format("Mon Jan 2 2006"), apt.TimeSlot)
	s.send(to, "Appointment confirmed", body)
}

func (s *NotificationService) AppointmentCancelled(to, fullName string, apt *models.Appointment) {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s at %s has been cancelled.\n",
		fullName, apt.AppointmentDate.Format("Mon Jan 2 2006"), apt.TimeSlot)
	s.send(to, "Appointment cancelled", body)
}

// Wait blocks until every message queued so far has been handled.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) send(to, subject, body string) {
	if to == "" {
		s.log.Debug("notification not sent: no recipient", "subject", subject)
		return
	}
	if !s.enabled {
		s.log.Info("email disabled, notification logged only", "to", to, "subject", subject)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sender.DialAndSend(m); err != nil {
			s.log.Error("failed to send email", "to", to, "subject", subject, "error", err)
			return
		}
		s.log.Info("email sent", "to", to, "subject", subject)
	}()
}
