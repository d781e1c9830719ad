package models

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatPatientID(t *testing.T) {
	re := regexp.MustCompile(`^ES\d{6}$`)
	for _, seq := range []int64{1, 42, 999999} {
		id := FormatPatientID(seq)
		if !re.MatchString(id) {
			t.Errorf("FormatPatientID(%d) = %q, does not match ES + 6 digits", seq, id)
		}
	}
	if got := FormatPatientID(7); got != "ES000007" {
		t.Errorf("FormatPatientID(7) = %q", got)
	}
}

func TestPatientIDPastSixDigits(t *testing.T) {
	p := Patient{
		UserID:   primitive.NewObjectID(),
		DoctorID: primitive.NewObjectID(),
		ClinicID: primitive.NewObjectID(),
		FullName: "Asha K",
	}
	for _, seq := range []int64{1, 999999, 1000000, 12345678} {
		p.PatientID = FormatPatientID(seq)
		if err := Validate(&p); err != nil {
			t.Errorf("Validate(%s) = %v", p.PatientID, err)
		}
	}

	for _, bad := range []string{"ES12345", "XX000001", "ES00000A", ""} {
		p.PatientID = bad
		var fe *FieldError
		if err := Validate(&p); !errors.As(err, &fe) || fe.Field != "PatientId" {
			t.Errorf("Validate(%q) = %v, want PatientId field error", bad, err)
		}
	}
}

func TestBillingComputeTotals(t *testing.T) {
	tests := []struct {
		name                      string
		bill                      Billing
		wantBefore, wantTotal, due float64
		wantErr                   error
	}{
		{
			name: "discount advance and received",
			bill: Billing{
				Treatments:     []Treatment{{Name: "Filling", Price: 150, Quantity: 2}, {Name: "X-Ray", Price: 50, Quantity: 1}},
				Discount:       50,
				Advance:        100,
				AmountReceived: 25.5,
			},
			wantBefore: 350, wantTotal: 300, due: 174.5,
		},
		{
			name:       "overpaid clamps to zero",
			bill:       Billing{Treatments: []Treatment{{Name: "Cleaning", Price: 120, Quantity: 1}}, AmountReceived: 500},
			wantBefore: 120, wantTotal: 120, due: 0,
		},
		{
			name:    "discount too large",
			bill:    Billing{Treatments: []Treatment{{Name: "Check-up", Price: 75, Quantity: 1}}, Discount: 100},
			wantErr: ErrDiscountExceedsTotal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.bill
			err := b.ComputeTotals()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ComputeTotals() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if b.AmountBeforeDiscount != tt.wantBefore || b.TotalAmount != tt.wantTotal || b.AmountDue != tt.due {
				t.Errorf("totals = %v/%v/%v, want %v/%v/%v",
					b.AmountBeforeDiscount, b.TotalAmount, b.AmountDue, tt.wantBefore, tt.wantTotal, tt.due)
			}

			again := b
			_ = again.ComputeTotals()
			if again.AmountDue != b.AmountDue || again.TotalAmount != b.TotalAmount {
				t.Error("ComputeTotals is not stable across repeated calls")
			}
		})
	}
}

func TestSlots(t *testing.T) {
	if !IsTimeSlot("10:00 AM") || IsTimeSlot("10:15 AM") {
		t.Fatal("IsTimeSlot disagrees with the enumeration")
	}

	got := SortSlots([]string{"02:00 PM", "10:00 AM", "10:00 AM", "bogus"})
	want := []string{"10:00 AM", "02:00 PM"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SortSlots() = %v, want %v", got, want)
	}

	free := FreeSlots([]string{"09:00 AM"})
	if len(free) != len(TimeSlots)-1 || free[0] != "09:30 AM" {
		t.Errorf("FreeSlots() = %v", free)
	}
}

func TestSortAppointments(t *testing.T) {
	mon := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)
	apts := []Appointment{
		{AppointmentDate: mon, TimeSlot: "01:00 PM"},
		{AppointmentDate: mon, TimeSlot: "12:00 PM"},
		{AppointmentDate: tue, TimeSlot: "09:30 AM"},
		{AppointmentDate: mon, TimeSlot: "11:30 AM"},
		{AppointmentDate: mon, TimeSlot: "09:00 AM"},
	}
	SortAppointments(apts)

	want := []string{"09:30 AM", "09:00 AM", "11:30 AM", "12:00 PM", "01:00 PM"}
	for i, a := range apts {
		if a.TimeSlot != want[i] {
			t.Fatalf("order = %v, want %v", slotsOf(apts), want)
		}
	}
	if !apts[0].AppointmentDate.Equal(tue) {
		t.Errorf("first appointment is on %v, want the later day", apts[0].AppointmentDate)
	}
}

func slotsOf(apts []Appointment) []string {
	out := make([]string, len(apts))
	for i, a := range apts {
		out[i] = a.TimeSlot
	}
	return out
}

func TestParseDay(t *testing.T) {
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-03-14", "2026-03-14T18:30:00+05:30", " 2026-03-14 "} {
		got, err := ParseDay(in)
		if err != nil {
			t.Fatalf("ParseDay(%q) error = %v", in, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDay(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseDay("14/03/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDay(bad) error = %v", err)
	}

	now := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	if !Today(now).Equal(want) {
		t.Errorf("Today() = %v, want %v", Today(now), want)
	}

	// The day is read in now's own zone, not in UTC.
	ist := time.FixedZone("IST", 5*3600+1800)
	early := time.Date(2026, 3, 15, 1, 0, 0, 0, ist)
	if got := Today(early); !got.Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("Today(01:00 IST) = %v, want 2026-03-15", got)
	}
}

func TestValidate(t *testing.T) {
	apt := Appointment{
		DoctorID:         primitive.NewObjectID(),
		PatientID:        primitive.NewObjectID(),
		AppointmentDate:  time.Now(),
		TimeSlot:         "10:00 AM",
		ConsultationType: ConsultationNew,
		Status:           AppointmentScheduled,
	}
	if err := Validate(&apt); err != nil {
		t.Fatalf("Validate(valid appointment) = %v", err)
	}

	apt.TimeSlot = "10:05 AM"
	err := Validate(&apt)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "timeSlot" || fe.Tag != "timeslot" {
		t.Fatalf("Validate(bad slot) = %v, want timeSlot field error", err)
	}

	apt.TimeSlot = "10:00 AM"
	apt.ConsultationType = "Walk-in"
	if err := Validate(&apt); !errors.As(err, &fe) || fe.Field != "consultationType" {
		t.Errorf("Validate(bad consultation) = %v", err)
	}

	bill := Billing{
		InvoiceID:  FormatInvoiceID(1),
		PatientID:  primitive.NewObjectID(),
		DoctorID:   primitive.NewObjectID(),
		ClinicID:   primitive.NewObjectID(),
		Treatments: []Treatment{{Name: "", Price: 10, Quantity: 1}},
		Status:     BillingPending,
	}
	if err := Validate(&bill); !errors.As(err, &fe) || fe.Field != "treatments[0].name" {
		t.Errorf("Validate(bill) = %v, want treatments[0].name error", err)
	}
}

func TestDoctorProfileOmitsSensitiveFields(t *testing.T) {
	d := Doctor{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), FullName: "Dr. Rao", Permissions: DefaultPermissions(RoleDoctor)}
	p := d.Profile()
	if p.ID != d.ID || p.FullName != d.FullName {
		t.Fatalf("Profile() lost fields: %+v", p)
	}
}

func TestDefaultPermissionsAllTrue(t *testing.T) {
	p := DefaultPermissions(RoleClientAdmin)
	if len(p) == 0 {
		t.Fatal("expected permissions for clientAdmin")
	}
	for k, v := range p {
		if !v {
			t.Errorf("permission %s defaulted to false", k)
		}
	}
}
