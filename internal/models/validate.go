package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return IsTimeSlot(fl.Field().String())
	})
	_ = v.RegisterValidation("patientid", func(fl validator.FieldLevel) bool {
		return IsPatientID(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return utils.IsValidPhone(fl.Field().String())
	})
	return v
}

// FieldError is the first failing field of a document.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return e.Field + " is required"
	case "oneof":
		return e.Field + " must be one of: " + e.Param
	case "email":
		return e.Field + " must be a valid email address"
	case "phone":
		return e.Field + " must be a valid phone number"
	case "patientid":
		return e.Field + " must be " + PatientIDPrefix + " followed by at least six digits"
	case "timeslot":
		return e.Field + " must be a known time slot"
	default:
		if e.Param != "" {
			return e.Field + " failed " + e.Tag + "=" + e.Param
		}
		return e.Field + " is invalid (" + e.Tag + ")"
	}
}

// Validate checks a document against its validate tags.
func Validate(doc interface{}) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &FieldError{Field: field, Tag: fe.Tag(), Param: fe.Param()}
	}
	return err
}
