package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var patientIDPattern = regexp.MustCompile(`^ES\d{6}$`)

func TestAddPatientAssignsIncreasingIDs(t *testing.T) {
	env := newTestEnv(t)
	_, doc := env.seedDoctor(t, "doc@x.com")

	last := 0
	for _, email := range []string{"p1@x.com", "p2@x.com", "p3@x.com"} {
		p, _ := env.seedPatient(t, doc, email)
		if !patientIDPattern.MatchString(p.PatientID) {
			t.Fatalf("PatientId %q does not match %s", p.PatientID, patientIDPattern)
		}
		n, _ := strconv.Atoi(p.PatientID[2:])
		if n <= last {
			t.Errorf("PatientId %q not greater than previous %d", p.PatientID, last)
		}
		last = n
	}
}

func TestAddPatientRollsBackOnInvalidRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")

	_, err := env.doctors.AddPatient(ctx, doc, PatientInput{
		Email: "p@x.com", Password: "secret1", FullName: "Pat", Gender: "Unknown",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "gender" {
		t.Fatalf("error = %v, want gender ValidationError", err)
	}
	if _, err := env.store.Users.ByEmail(ctx, "p@x.com"); err == nil {
		t.Error("patient user should have been removed")
	}
}

func TestDoctorProfileHidesPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")

	profile, err := env.doctors.Profile(ctx, doc)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	raw, _ := json.Marshal(profile)
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"permissions", "userId"} {
		if _, ok := fields[k]; ok {
			t.Errorf("profile JSON contains %q", k)
		}
	}
	if fields["fullName"] != "Dr. Rao" {
		t.Errorf("fullName = %v", fields["fullName"])
	}
}

func TestUpdateProfileRevalidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")

	years := 12
	p, err := env.doctors.UpdateProfile(ctx, doc, DoctorPatch{ExperienceYears: &years})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if p.ExperienceYears != 12 || p.Specialization != "Orthodontics" {
		t.Errorf("profile = %+v", p)
	}

	bad := -1
	if _, err := env.doctors.UpdateProfile(ctx, doc, DoctorPatch{ExperienceYears: &bad}); err == nil {
		t.Error("expected validation error for negative experience")
	}
}

func TestPatientsAreScopedToDoctor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, docA := env.seedDoctor(t, "a@x.com")
	_, docB := env.seedDoctor(t, "b@x.com")
	p, _ := env.seedPatient(t, docA, "p@x.com")

	if _, err := env.doctors.Patient(ctx, docB, p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("other doctor: error = %v, want ErrPatientNotFound", err)
	}
	if _, err := env.doctors.Patient(ctx, docA, primitive.NewObjectID()); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown id: error = %v", err)
	}

	list, err := env.doctors.Patients(ctx, docB)
	if err != nil || len(list) != 0 {
		t.Errorf("Patients(docB) = %v, %v", list, err)
	}

	dob := "1990-04-01"
	updated, err := env.doctors.UpdatePatient(ctx, docA, p.ID, PatientPatch{DateOfBirth: &dob})
	if err != nil {
		t.Fatalf("UpdatePatient() error = %v", err)
	}
	if updated.DateOfBirth == nil || updated.DateOfBirth.Year() != 1990 || updated.PatientID != p.PatientID {
		t.Errorf("updated = %+v", updated)
	}
}

func TestPatientProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")
	p, pc := env.seedPatient(t, doc, "pat@x.com")

	prof, err := env.patients.Profile(ctx, pc)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if prof.ID != p.ID || prof.Email != "pat@x.com" {
		t.Errorf("profile = %+v", prof)
	}
	if _, err := env.patients.Profile(ctx, doc); !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor caller: error = %v", err)
	}
}
