// Package memstore is an in-memory implementation of the store
// repositories, with the same uniqueness rules as the MongoDB indexes.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

func New() *store.Store {
	return &store.Store{
		Users: &users{newTable(func(u models.User) primitive.ObjectID { return u.ID },
			func(u models.User) string { return u.Email })},
		SuperAdmins:  newProfiles(),
		ClientAdmins: newProfiles(),
		Admins:       newProfiles(),
		Clinics: &clinics{newTable(func(c models.Clinic) primitive.ObjectID { return c.ID },
			func(c models.Clinic) string { return "reg:" + c.RegistrationNumber },
			func(c models.Clinic) string { return "email:" + strings.ToLower(c.Email) })},
		Doctors: &doctors{newTable(func(d models.Doctor) primitive.ObjectID { return d.ID },
			func(d models.Doctor) string { return d.ContactNumber })},
		Receptionists: &receptionists{newTable(func(r models.Receptionist) primitive.ObjectID { return r.ID })},
		Patients: &patients{newTable(func(p models.Patient) primitive.ObjectID { return p.ID },
			func(p models.Patient) string { return p.PatientID })},
		Appointments: &appointments{newTable(func(a models.Appointment) primitive.ObjectID { return a.ID })},
		Billings: &billings{newTable(func(b models.Billing) primitive.ObjectID { return b.ID },
			func(b models.Billing) string { return b.InvoiceID })},
		Settings: &settings{values: map[string]interface{}{}},
		Counters: &counters{seq: map[string]int64{}},
	}
}

// table keeps rows in insertion order and enforces unique keys. A key
// function returning "" (or a bare prefix) opts the row out, like a sparse
// index.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[primitive.ObjectID]T
	order  []primitive.ObjectID
	idOf   func(T) primitive.ObjectID
	unique []func(T) string
}

func newTable[T any](idOf func(T) primitive.ObjectID, unique ...func(T) string) *table[T] {
	return &table[T]{rows: map[primitive.ObjectID]T{}, idOf: idOf, unique: unique}
}

func emptyKey(k string) bool {
	return k == "" || strings.HasSuffix(k, ":")
}

func (t *table[T]) conflict(doc T) error {
	id := t.idOf(doc)
	for i, key := range t.unique {
		k := key(doc)
		if emptyKey(k) {
			continue
		}
		for otherID, other := range t.rows {
			if otherID != id && t.unique[i](other) == k {
				return fmt.Errorf("%w: %s", store.ErrDuplicate, k)
			}
		}
	}
	return nil
}

func (t *table[T]) insert(doc T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conflict(doc); err != nil {
		return err
	}
	id := t.idOf(doc)
	t.rows[id] = doc
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &doc, nil
}

func (t *table[T]) first(match func(T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if doc, ok := t.rows[id]; ok && match(doc) {
			return &doc, nil
		}
	}
	return nil, store.ErrNotFound
}

// find returns matching rows newest first.
func (t *table[T]) find(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for i := len(t.order) - 1; i >= 0; i-- {
		if doc, ok := t.rows[t.order[i]]; ok && match(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func (t *table[T]) replace(doc T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.idOf(doc)
	if _, ok := t.rows[id]; !ok {
		return store.ErrNotFound
	}
	if err := t.conflict(doc); err != nil {
		return err
	}
	t.rows[id] = doc
	return nil
}

func (t *table[T]) delete(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	*created, *updated = now, now
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

type users struct{ t *table[models.User] }

func (r *users) Create(_ context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return r.t.insert(*u)
}

func (r *users) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.t.get(id)
}

func (r *users) ByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.t.first(func(u models.User) bool { return u.Email == email })
}

func (r *users) ExistsWithRole(_ context.Context, role string) (bool, error) {
	_, err := r.t.first(func(u models.User) bool { return u.Role == role })
	return err == nil, nil
}

func (r *users) Update(_ context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	return r.t.replace(*u)
}

func (r *users) TouchLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	u, err := r.t.get(id)
	if err != nil {
		return err
	}
	u.LastLogin = &at
	return r.t.replace(*u)
}

func (r *users) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.t.delete(id)
}

type profiles struct{ t *table[models.AdminProfile] }

func newProfiles() *profiles {
	return &profiles{newTable(func(p models.AdminProfile) primitive.ObjectID { return p.ID })}
}

func (r *profiles) Create(_ context.Context, p *models.AdminProfile) error {
	p.ID = primitive.NewObjectID()
	stamp(&p.CreatedAt, &p.UpdatedAt)
	return r.t.insert(*p)
}

func (r *profiles) ByID(_ context.Context, id primitive.ObjectID) (*models.AdminProfile, error) {
	return r.t.get(id)
}

func (r *profiles) ByUserID(_ context.Context, userID primitive.ObjectID) (*models.AdminProfile, error) {
	return r.t.first(func(p models.AdminProfile) bool { return p.UserID == userID })
}

func (r *profiles) List(_ context.Context) ([]models.AdminProfile, error) {
	return r.t.find(func(models.AdminProfile) bool { return true }), nil
}

func (r *profiles) Update(_ context.Context, p *models.AdminProfile) error {
	p.UpdatedAt = time.Now().UTC()
	return r.t.replace(*p)
}

type clinics struct{ t *table[models.Clinic] }

func (r *clinics) Create(_ context.Context, c *models.Clinic) error {
	c.ID = primitive.NewObjectID()
	stamp(&c.CreatedAt, &c.UpdatedAt)
	return r.t.insert(*c)
}

func (r *clinics) ByID(_ context.Context, id primitive.ObjectID) (*models.Clinic, error) {
	return r.t.get(id)
}

func (r *clinics) ByClientAdmin(_ context.Context, clientAdminID primitive.ObjectID) ([]models.Clinic, error) {
	return r.t.find(func(c models.Clinic) bool { return c.ClientAdminID == clientAdminID }), nil
}

func (r *clinics) List(_ context.Context) ([]models.Clinic, error) {
	return r.t.find(func(models.Clinic) bool { return true }), nil
}

func (r *clinics) Update(_ context.Context, c *models.Clinic) error {
	c.UpdatedAt = time.Now().UTC()
	return r.t.replace(*c)
}

type doctors struct{ t *table[models.Doctor] }

func (r *doctors) Create(_ context.Context, d *models.Doctor) error {
	d.ID = primitive.NewObjectID()
	stamp(&d.CreatedAt, &d.UpdatedAt)
	return r.t.insert(*d)
}

func (r *doctors) ByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return r.t.get(id)
}

func (r *doctors) ByUserID(_ context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return r.t.first(func(d models.Doctor) bool { return d.UserID == userID })
}

func (r *doctors) ByClinics(_ context.Context, clinicIDs []primitive.ObjectID) ([]models.Doctor, error) {
	return r.t.find(func(d models.Doctor) bool { return containsID(clinicIDs, d.ClinicID) }), nil
}

func (r *doctors) Update(_ context.Context, d *models.Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	return r.t.replace(*d)
}

type receptionists struct{ t *table[models.Receptionist] }

func (r *receptionists) Create(_ context.Context, rec *models.Receptionist) error {
	rec.ID = primitive.NewObjectID()
	stamp(&rec.CreatedAt, &rec.UpdatedAt)
	return r.t.insert(*rec)
}

func (r *receptionists) ByClinics(_ context.Context, clinicIDs []primitive.ObjectID) ([]models.Receptionist, error) {
	return r.t.find(func(rec models.Receptionist) bool { return containsID(clinicIDs, rec.ClinicID) }), nil
}

type patients struct{ t *table[models.Patient] }

func (r *patients) Create(_ context.Context, p *models.Patient) error {
	p.ID = primitive.NewObjectID()
	stamp(&p.CreatedAt, &p.UpdatedAt)
	return r.t.insert(*p)
}

func (r *patients) ByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	return r.t.get(id)
}

func (r *patients) ByUserID(_ context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	return r.t.first(func(p models.Patient) bool { return p.UserID == userID })
}

func (r *patients) ByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	return r.t.find(func(p models.Patient) bool { return p.DoctorID == doctorID }), nil
}

func (r *patients) Count(_ context.Context) (int64, error) {
	return int64(r.t.count()), nil
}

func (r *patients) Update(_ context.Context, p *models.Patient) error {
	p.UpdatedAt = time.Now().UTC()
	return r.t.replace(*p)
}

type appointments struct{ t *table[models.Appointment] }

func (r *appointments) Create(_ context.Context, a *models.Appointment) error {
	a.ID = primitive.NewObjectID()
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return r.t.insert(*a)
}

func (r *appointments) ByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return r.t.get(id)
}

func sameDay(t, day time.Time) bool {
	return !t.Before(day) && t.Before(day.Add(24*time.Hour))
}

func (r *appointments) List(_ context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	rows := r.t.find(func(a models.Appointment) bool {
		switch {
		case f.DoctorID != nil && a.DoctorID != *f.DoctorID:
			return false
		case f.PatientID != nil && a.PatientID != *f.PatientID:
			return false
		case f.Day != nil && !sameDay(a.AppointmentDate, *f.Day):
			return false
		case f.Status != "" && a.Status != f.Status:
			return false
		}
		return true
	})
	models.SortAppointments(rows)
	return rows, nil
}

func (r *appointments) BookedSlots(_ context.Context, doctorID primitive.ObjectID, day time.Time, exclude *primitive.ObjectID) ([]string, error) {
	rows := r.t.find(func(a models.Appointment) bool {
		if exclude != nil && a.ID == *exclude {
			return false
		}
		return a.DoctorID == doctorID && sameDay(a.AppointmentDate, day) && a.Status != models.AppointmentCancelled
	})
	slots := make([]string, 0, len(rows))
	for _, a := range rows {
		slots = append(slots, a.TimeSlot)
	}
	return models.SortSlots(slots), nil
}

func (r *appointments) Update(_ context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	return r.t.replace(*a)
}

func (r *appointments) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.t.delete(id)
}

type billings struct{ t *table[models.Billing] }

func (r *billings) Create(_ context.Context, b *models.Billing) error {
	b.ID = primitive.NewObjectID()
	stamp(&b.CreatedAt, &b.UpdatedAt)
	return r.t.insert(*b)
}

func (r *billings) ByID(_ context.Context, id primitive.ObjectID) (*models.Billing, error) {
	return r.t.get(id)
}

func (r *billings) List(_ context.Context, f store.BillingFilter) ([]models.Billing, error) {
	return r.t.find(func(b models.Billing) bool {
		if f.DoctorID != nil && b.DoctorID != *f.DoctorID {
			return false
		}
		if f.PatientID != nil && b.PatientID != *f.PatientID {
			return false
		}
		return true
	}), nil
}

func (r *billings) Update(_ context.Context, b *models.Billing) error {
	b.UpdatedAt = time.Now().UTC()
	return r.t.replace(*b)
}

type settings struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func (r *settings) Get(_ context.Context, key string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (r *settings) Set(_ context.Context, key string, value interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type counters struct {
	mu  sync.Mutex
	seq map[string]int64
}

func (r *counters) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[name]++
	return r.seq[name], nil
}

func (r *counters) Seed(_ context.Context, name string, floor int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq[name] < floor {
		r.seq[name] = floor
	}
	return nil
}
