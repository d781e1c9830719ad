package services

import (
	"errors"
	"fmt"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

// ValidationError rejects a request because of the shape or value of one
// field. Handlers map it to 400.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

var (
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrClientAdminNotFound = fmt.Errorf("ClientAdmin %w", ErrNotFound)
	ErrClinicNotFound      = fmt.Errorf("clinic %w", ErrNotFound)
	ErrDoctorNotFound      = fmt.Errorf("doctor %w", ErrNotFound)
	ErrPatientNotFound     = fmt.Errorf("patient %w", ErrNotFound)
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)
	ErrBillingNotFound     = fmt.Errorf("billing record %w", ErrNotFound)

	ErrForbidden          = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrSuperAdminExists   = errors.New("a SuperAdmin already exists")

	ErrConflict     = errors.New("conflict")
	ErrEmailTaken   = conflict("an account with this email already exists")
	ErrClinicTaken  = conflict("a clinic with this registration number or email already exists")
	ErrContactTaken = conflict("this contact number is already registered")
	ErrSlotTaken    = conflict("time slot is already booked")
)

// conflictError reads as its own message but matches ErrConflict.
type conflictError struct{ msg string }

func conflict(msg string) error { return &conflictError{msg: msg} }

func (e *conflictError) Error() string        { return e.msg }
func (e *conflictError) Is(target error) bool { return target == ErrConflict }

// checkDoc validates a document about to be written.
func checkDoc(doc interface{}) error {
	err := models.Validate(doc)
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Error()}
	}
	return err
}

// notFound turns store.ErrNotFound into the entity specific sentinel and
// passes other errors through.
func notFound(err, sentinel error) error {
	if errors.Is(err, store.ErrNotFound) {
		return sentinel
	}
	return err
}

// duplicate turns store.ErrDuplicate into the entity specific conflict.
func duplicate(err, sentinel error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return sentinel
	}
	return err
}
