package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/store/mongostore"
)

var indexes = map[string][]mongo.IndexModel{
	mongostore.CollUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	},
	mongostore.CollSuperAdmins:  {{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)}},
	mongostore.CollClientAdmins: {{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)}},
	mongostore.CollAdmins:       {{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)}},
	mongostore.CollClinics: {
		{Keys: bson.D{{Key: "registrationNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clientAdminId", Value: 1}}},
	},
	mongostore.CollDoctors: {
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "contactNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "clinicId", Value: 1}}},
	},
	mongostore.CollReceptionists: {{Keys: bson.D{{Key: "clinicId", Value: 1}}}},
	mongostore.CollPatients: {
		{Keys: bson.D{{Key: "PatientId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "DoctorId", Value: 1}}},
	},
	mongostore.CollAppointments: {
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
	},
	mongostore.CollBillings: {
		{Keys: bson.D{{Key: "invoiceId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
	},
	mongostore.CollSettings: {{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)}},
}

// EnsureIndexes creates the indexes every collection relies on for
// uniqueness and lookups. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// SeedCounters raises the sequence counters past documents that were
// numbered before the counters existed.
func SeedCounters(ctx context.Context, db *mongo.Database) error {
	s := mongostore.New(db)
	n, err := s.Patients.Count(ctx)
	if err != nil {
		return fmt.Errorf("count patients: %w", err)
	}
	if err := s.Counters.Seed(ctx, store.SeqPatient, n); err != nil {
		return fmt.Errorf("seed patient counter: %w", err)
	}
	return nil
}

// CheckSuperAdmin records in Settings whether a SuperAdmin user exists.
func CheckSuperAdmin(log *slog.Logger) InitFunc {
	return func(ctx context.Context, db *mongo.Database) error {
		return RecordSuperAdmin(ctx, mongostore.New(db), log)
	}
}

func RecordSuperAdmin(ctx context.Context, s *store.Store, log *slog.Logger) error {
	exists, err := s.Users.ExistsWithRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("check superadmin: %w", err)
	}
	if err := s.Settings.Set(ctx, models.SettingSuperAdminCreated, exists); err != nil {
		return fmt.Errorf("store superadmin flag: %w", err)
	}
	log.Info("superadmin check complete", "exists", exists)
	return nil
}
