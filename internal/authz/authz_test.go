package authz

import (
	"testing"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

func TestAllowed(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	tests := []struct {
		role string
		obj  Resource
		act  Action
		want bool
	}{
		{models.RoleSuperAdmin, ResBilling, ActWrite, true},
		{models.RoleSuperAdmin, ResPlatform, ActWrite, true},
		{models.RoleAdmin, ResPlatform, ActRead, true},
		{models.RoleAdmin, ResPlatform, ActWrite, false},
		{models.RoleClientAdmin, ResClinicAdmin, ActWrite, true},
		{models.RoleClientAdmin, ResBilling, ActRead, false},
		{models.RoleDoctor, ResAppointments, ActWrite, true},
		{models.RoleDoctor, ResPatient, ActRead, false},
		{models.RolePatient, ResPatient, ActWrite, true},
		{models.RolePatient, ResAvailability, ActRead, true},
		{models.RolePatient, ResAppointments, ActWrite, false},
		{models.RoleReceptionist, ResAvailability, ActRead, true},
		{models.RoleReceptionist, ResDoctor, ActRead, false},
		{models.RoleReceptionist, ResAppointments, ActWrite, false},
		{models.RoleReceptionist, ResBilling, ActRead, false},
		{"", ResAvailability, ActRead, false},
	}
	for _, tt := range tests {
		got, err := e.Allowed(tt.role, tt.obj, tt.act)
		if err != nil {
			t.Fatalf("Allowed(%s,%s,%s) error = %v", tt.role, tt.obj, tt.act, err)
		}
		if got != tt.want {
			t.Errorf("Allowed(%s,%s,%s) = %v, want %v", tt.role, tt.obj, tt.act, got, tt.want)
		}
	}
}
