package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

type AppointmentInput struct {
	PatientID        string   `json:"patientId" binding:"required"`
	AppointmentDate  string   `json:"appointmentDate" binding:"required"`
	TimeSlot         string   `json:"timeSlot" binding:"required"`
	ConsultationType string   `json:"consultationType"`
	Treatments       []string `json:"treatments"`
	Teeth            []string `json:"teeth"`
	Notes            string   `json:"notes"`
}

// BookingInput is what a patient sends to book with their own doctor.
type BookingInput struct {
	AppointmentDate  string `json:"appointmentDate" binding:"required"`
	TimeSlot         string `json:"timeSlot" binding:"required"`
	ConsultationType string `json:"consultationType"`
	Notes            string `json:"notes"`
}

type AppointmentPatch struct {
	AppointmentDate  *string   `json:"appointmentDate"`
	TimeSlot         *string   `json:"timeSlot"`
	ConsultationType *string   `json:"consultationType"`
	Status           *string   `json:"status"`
	Treatments       *[]string `json:"treatments"`
	Teeth            *[]string `json:"teeth"`
	Notes            *string   `json:"notes"`
}

type AppointmentQuery struct {
	Date      string `form:"date"`
	Status    string `form:"status"`
	PatientID string `form:"patientId"`
}

type Availability struct {
	DoctorID       primitive.ObjectID `json:"doctorId"`
	Date           string             `json:"date"`
	BookedSlots    []string           `json:"bookedSlots"`
	AvailableSlots []string           `json:"availableSlots"`
}

type AppointmentService struct {
	store    *store.Store
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
	// enforce makes a booked slot a conflict instead of advice.
	enforce bool
	now     func() time.Time
}

func NewAppointmentService(s *store.Store, notifier Notifier, m *metrics.Metrics, log *slog.Logger, enforceSlots bool) *AppointmentService {
	return &AppointmentService{
		store:    s,
		notifier: notifier,
		metrics:  m,
		log:      log,
		enforce:  enforceSlots,
		now:      time.Now,
	}
}

// appointmentDay parses a requested date and rejects days before today.
func (s *AppointmentService) appointmentDay(raw string) (time.Time, error) {
	day, err := models.ParseDay(raw)
	if err != nil {
		return time.Time{}, invalid("appointmentDate", "appointmentDate: "+err.Error())
	}
	if day.Before(models.Today(s.now())) {
		return time.Time{}, invalid("appointmentDate", "appointmentDate cannot be in the past")
	}
	return day, nil
}

func (s *AppointmentService) checkSlot(ctx context.Context, a *models.Appointment, exclude *primitive.ObjectID) error {
	if !s.enforce || a.Status == models.AppointmentCancelled {
		return nil
	}
	booked, err := s.store.Appointments.BookedSlots(ctx, a.DoctorID, a.AppointmentDate, exclude)
	if err != nil {
		return err
	}
	if lo.Contains(booked, a.TimeSlot) {
		return ErrSlotTaken
	}
	return nil
}

func (s *AppointmentService) schedule(d *models.Doctor, p *models.Patient, createdBy primitive.ObjectID, rawDate, slot, consultation string) (*models.Appointment, error) {
	day, err := s.appointmentDay(rawDate)
	if err != nil {
		return nil, err
	}
	clinicID := d.ClinicID
	a := &models.Appointment{
		DoctorID:         d.ID,
		PatientID:        p.ID,
		ClinicID:         &clinicID,
		AppointmentDate:  day,
		TimeSlot:         slot,
		ConsultationType: lo.Ternary(consultation == "", models.ConsultationNew, consultation),
		Status:           models.AppointmentScheduled,
		CreatedBy:        createdBy,
	}
	return a, nil
}

func (s *AppointmentService) insert(ctx context.Context, a *models.Appointment, p *models.Patient) error {
	if err := checkDoc(a); err != nil {
		return err
	}
	if err := s.checkSlot(ctx, a, nil); err != nil {
		return err
	}
	if err := s.store.Appointments.Create(ctx, a); err != nil {
		return err
	}
	s.metrics.Event("appointment", "created")
	s.notify(ctx, p, a, s.notifier.AppointmentBooked)
	return nil
}

func (s *AppointmentService) notify(ctx context.Context, p *models.Patient, a *models.Appointment, send func(to, name string, a *models.Appointment)) {
	u, err := s.store.Users.ByID(ctx, p.UserID)
	if err != nil {
		s.log.Warn("appointment notification skipped", "patientId", p.ID.Hex(), "error", err)
		return
	}
	send(u.Email, p.FullName, a)
}

func (s *AppointmentService) Create(ctx context.Context, caller Caller, in AppointmentInput) (*models.Appointment, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	pid, err := parseID("patientId", in.PatientID)
	if err != nil {
		return nil, err
	}
	p, err := patientOf(ctx, s.store, d, pid)
	if err != nil {
		return nil, err
	}

	a, err := s.schedule(d, p, caller.UserID, in.AppointmentDate, in.TimeSlot, in.ConsultationType)
	if err != nil {
		return nil, err
	}
	a.Treatments = in.Treatments
	a.Teeth = in.Teeth
	a.Notes = in.Notes
	if err := s.insert(ctx, a, p); err != nil {
		return nil, err
	}
	return a, nil
}

// Book lets a patient take a slot with the doctor they are registered with.
func (s *AppointmentService) Book(ctx context.Context, caller Caller, in BookingInput) (*models.Appointment, error) {
	p, err := patientFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	d, err := s.store.Doctors.ByID(ctx, p.DoctorID)
	if err != nil {
		return nil, notFound(err, ErrDoctorNotFound)
	}

	a, err := s.schedule(d, p, caller.UserID, in.AppointmentDate, in.TimeSlot, in.ConsultationType)
	if err != nil {
		return nil, err
	}
	a.Notes = in.Notes
	if err := s.insert(ctx, a, p); err != nil {
		return nil, err
	}
	return a, nil
}

// appointmentOf loads an appointment and checks it is doctor d's.
func (s *AppointmentService) appointmentOf(ctx context.Context, d *models.Doctor, id primitive.ObjectID) (*models.Appointment, error) {
	a, err := s.store.Appointments.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAppointmentNotFound)
	}
	if a.DoctorID != d.ID {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (s *AppointmentService) Update(ctx context.Context, caller Caller, id primitive.ObjectID, patch AppointmentPatch) (*models.Appointment, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	a, err := s.appointmentOf(ctx, d, id)
	if err != nil {
		return nil, err
	}
	prevStatus := a.Status
	moved := false

	if patch.AppointmentDate != nil {
		day, err := models.ParseDay(*patch.AppointmentDate)
		if err != nil {
			return nil, invalid("appointmentDate", "appointmentDate: "+err.Error())
		}
		if !day.Equal(a.AppointmentDate) {
			if day, err = s.appointmentDay(*patch.AppointmentDate); err != nil {
				return nil, err
			}
			a.AppointmentDate = day
			moved = true
		}
	}
	if patch.TimeSlot != nil && *patch.TimeSlot != a.TimeSlot {
		a.TimeSlot = *patch.TimeSlot
		moved = true
	}
	if patch.ConsultationType != nil {
		a.ConsultationType = *patch.ConsultationType
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Treatments != nil {
		a.Treatments = *patch.Treatments
	}
	if patch.Teeth != nil {
		a.Teeth = *patch.Teeth
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}

	if err := checkDoc(a); err != nil {
		return nil, err
	}
	if moved || (prevStatus == models.AppointmentCancelled && a.Status != prevStatus) {
		if err := s.checkSlot(ctx, a, &a.ID); err != nil {
			return nil, err
		}
	}
	if err := s.store.Appointments.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAppointmentNotFound)
	}

	s.metrics.Event("appointment", "updated")
	if a.Status == models.AppointmentCancelled && prevStatus != models.AppointmentCancelled {
		if p, err := s.store.Patients.ByID(ctx, a.PatientID); err == nil {
			s.notify(ctx, p, a, s.notifier.AppointmentCancelled)
		}
	}
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return err
	}
	if _, err := s.appointmentOf(ctx, d, id); err != nil {
		return err
	}
	if err := s.store.Appointments.Delete(ctx, id); err != nil {
		return notFound(err, ErrAppointmentNotFound)
	}
	s.metrics.Event("appointment", "deleted")
	return nil
}

func (s *AppointmentService) List(ctx context.Context, caller Caller, q AppointmentQuery) ([]models.Appointment, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	f := store.AppointmentFilter{DoctorID: &d.ID, Status: q.Status}
	if q.Date != "" {
		day, err := models.ParseDay(q.Date)
		if err != nil {
			return nil, invalid("date", "date: "+err.Error())
		}
		f.Day = &day
	}
	if q.PatientID != "" {
		pid, err := parseID("patientId", q.PatientID)
		if err != nil {
			return nil, err
		}
		f.PatientID = &pid
	}
	return s.store.Appointments.List(ctx, f)
}

func (s *AppointmentService) ForPatient(ctx context.Context, caller Caller) ([]models.Appointment, error) {
	p, err := patientFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.store.Appointments.List(ctx, store.AppointmentFilter{PatientID: &p.ID})
}

// Availability reports which slots of a doctor's day are taken. Cancelled
// appointments free their slot.
func (s *AppointmentService) Availability(ctx context.Context, doctorIDHex, date string) (*Availability, error) {
	if doctorIDHex == "" || date == "" {
		return nil, invalid("", "doctorId and date are required")
	}
	doctorID, err := parseID("doctorId", doctorIDHex)
	if err != nil {
		return nil, err
	}
	day, err := models.ParseDay(date)
	if err != nil {
		return nil, invalid("date", "date: "+err.Error())
	}
	if _, err := s.store.Doctors.ByID(ctx, doctorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	booked, err := s.store.Appointments.BookedSlots(ctx, doctorID, day, nil)
	if err != nil {
		return nil, err
	}
	booked = models.SortSlots(booked)
	return &Availability{
		DoctorID:       doctorID,
		Date:           day.Format(models.DayLayout),
		BookedSlots:    booked,
		AvailableSlots: models.FreeSlots(booked),
	}, nil
}
