// Package authz maps roles to the resources they may read or write.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type Resource string

const (
	ResPlatform     Resource = "platform"
	ResClinicAdmin  Resource = "clinicAdmin"
	ResDoctor       Resource = "doctor"
	ResAppointments Resource = "appointments"
	ResBilling      Resource = "billing"
	ResPatient      Resource = "patient"
	ResAvailability Resource = "availability"
)

type Action string

const (
	ActRead  Action = "read"
	ActWrite Action = "write"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var policies = [][]string{
	{models.RoleSuperAdmin, "*", "*"},
	{models.RoleAdmin, string(ResPlatform), string(ActRead)},
	{models.RoleAdmin, string(ResAvailability), string(ActRead)},
	{models.RoleClientAdmin, string(ResClinicAdmin), "*"},
	{models.RoleClientAdmin, string(ResAvailability), string(ActRead)},
	{models.RoleDoctor, string(ResDoctor), "*"},
	{models.RoleDoctor, string(ResAppointments), "*"},
	{models.RoleDoctor, string(ResBilling), "*"},
	{models.RoleDoctor, string(ResAvailability), string(ActRead)},
	// Receptionists are onboarded by a ClientAdmin but no route acts on
	// their behalf yet. The permissions map stored on their profile is
	// descriptive and is not consulted here.
	{models.RoleReceptionist, string(ResAvailability), string(ActRead)},
	{models.RolePatient, string(ResPatient), "*"},
	{models.RolePatient, string(ResAvailability), string(ActRead)},
}

// Enforcer answers whether a role may perform an action on a resource.
type Enforcer struct {
	e *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("load rbac policies: %w", err)
	}
	return &Enforcer{e: e}, nil
}

func (a *Enforcer) Allowed(role string, obj Resource, act Action) (bool, error) {
	if role == "" {
		return false, nil
	}
	return a.e.Enforce(role, string(obj), string(act))
}
