package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

type appointments struct{ coll }

func (r *appointments) Create(ctx context.Context, a *models.Appointment) error {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt, a.UpdatedAt = now, now
	return r.insert(ctx, a)
}

func (r *appointments) ByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, r.c, bson.M{"_id": id})
}

func dayRange(day time.Time) bson.M {
	return bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}
}

func (r *appointments) List(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{}
	if f.DoctorID != nil {
		filter["doctorId"] = *f.DoctorID
	}
	if f.PatientID != nil {
		filter["patientId"] = *f.PatientID
	}
	if f.Day != nil {
		filter["appointmentDate"] = dayRange(*f.Day)
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	// Slot labels do not sort as text, so only the day is ordered server side.
	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: -1}})
	apts, err := findAll[models.Appointment](ctx, r.c, filter, opts)
	if err != nil {
		return nil, err
	}
	models.SortAppointments(apts)
	return apts, nil
}

func (r *appointments) BookedSlots(ctx context.Context, doctorID primitive.ObjectID, day time.Time, exclude *primitive.ObjectID) ([]string, error) {
	filter := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": dayRange(day),
		"status":          bson.M{"$ne": models.AppointmentCancelled},
	}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}

	values, err := r.c.Distinct(ctx, "timeSlot", filter)
	if err != nil {
		return nil, mapErr(err)
	}
	slots := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			slots = append(slots, s)
		}
	}
	return models.SortSlots(slots), nil
}

func (r *appointments) Update(ctx context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, a.ID, a)
}

func (r *appointments) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.deleteByID(ctx, id)
}
