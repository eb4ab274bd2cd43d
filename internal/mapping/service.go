package mapping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	doctorentity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/mapping/entity"
	patiententity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

var (
	ErrNotFound          = errors.New("mapping not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrReferenceNotFound = errors.New("patient or doctor not found")
	ErrNotOwner          = errors.New("patient not created by caller")
	ErrDuplicate         = errors.New("patient already assigned to doctor")
)

type Repository interface {
	Create(ctx context.Context, m *entity.Mapping) error
	GetByID(ctx context.Context, id string) (*entity.Mapping, error)
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, owner string) ([]entity.Detail, error)
	ListByPatient(ctx context.Context, patientID string) ([]entity.Assignment, error)
}

type PatientLookup interface {
	GetByID(ctx context.Context, id string) (*patiententity.Patient, error)
	GetOwned(ctx context.Context, id, owner string) (*patiententity.Patient, error)
}

type DoctorLookup interface {
	GetByID(ctx context.Context, id string) (*doctorentity.Doctor, error)
}

// Service assigns doctors to patients. Access follows patient ownership:
// a caller only sees and creates mappings for patients they created.
type Service struct {
	repo     Repository
	patients PatientLookup
	doctors  DoctorLookup
	now      func() time.Time
}

func NewService(r Repository, patients PatientLookup, doctors DoctorLookup) *Service {
	return &Service{repo: r, patients: patients, doctors: doctors, now: time.Now}
}

// Create assigns doctorID to patientID. Both must exist and the patient
// must belong to the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, patientID, doctorID string) (*entity.Mapping, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if p == nil || d == nil {
		return nil, ErrReferenceNotFound
	}
	if p.CreatedBy != caller.ID {
		return nil, ErrNotOwner
	}
	m := &entity.Mapping{
		ID:           utilities.NewID(),
		PatientID:    p.ID,
		DoctorID:     d.ID,
		AssignedDate: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create mapping: %w", err)
	}
	return m, nil
}

// List returns the caller's mappings with patient and doctor loaded.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]entity.Detail, error) {
	return s.repo.ListForOwner(ctx, caller.ID)
}

// ListByPatient returns the doctors assigned to one of the caller's patients.
func (s *Service) ListByPatient(ctx context.Context, caller auth.Identity, patientID string) ([]entity.Assignment, error) {
	if _, err := s.patients.GetOwned(ctx, patientID, caller.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// Delete removes a mapping by id. Patient ownership is not checked here.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
