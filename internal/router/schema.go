package router

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	doctorrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/repo"
	mappingrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/mapping/repo"
	patientrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/repo"
	userrepo "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user/repo"
)

type tableEnsurer interface {
	EnsureTable(ctx context.Context) error
}

// EnsureSchema creates any missing tables and indexes. It is safe to run on
// every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tables := []struct {
		name string
		repo tableEnsurer
	}{
		{"users", userrepo.NewUserRepo(db)},
		{"patients", patientrepo.NewPatientRepo(db)},
		{"doctors", doctorrepo.NewDoctorRepo(db)},
		{"mappings", mappingrepo.NewMappingRepo(db)},
	}
	for _, t := range tables {
		if err := t.repo.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure %s table: %w", t.name, err)
		}
	}
	return nil
}
