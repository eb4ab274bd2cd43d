package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

// ErrNotFound covers both a missing patient and one created by another user.
var ErrNotFound = errors.New("patient not found")

// Repository is the owner-scoped patient store.
type Repository interface {
	Create(ctx context.Context, p *entity.Patient) error
	ListByOwner(ctx context.Context, owner string) ([]entity.Patient, error)
	GetOwned(ctx context.Context, id, owner string) (*entity.Patient, error)
	UpdateOwned(ctx context.Context, id, owner string, c entity.Changes) (*entity.Patient, error)
	DeleteOwned(ctx context.Context, id, owner string) error
}

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// NewPatient is the validated input for Create.
type NewPatient struct {
	Name        string
	Age         int
	Gender      string
	ContactInfo string
}

// Create stores a patient owned by the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in NewPatient) (*entity.Patient, error) {
	p := &entity.Patient{
		ID:          utilities.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Age:         in.Age,
		Gender:      in.Gender,
		ContactInfo: in.ContactInfo,
		CreatedBy:   caller.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

// List returns only the caller's patients.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]entity.Patient, error) {
	return s.repo.ListByOwner(ctx, caller.ID)
}

func (s *Service) Get(ctx context.Context, caller auth.Identity, id string) (*entity.Patient, error) {
	p, err := s.repo.GetOwned(ctx, id, caller.ID)
	return p, notFound(err)
}

func (s *Service) Update(ctx context.Context, caller auth.Identity, id string, c entity.Changes) (*entity.Patient, error) {
	if c.Name != nil {
		trimmed := strings.TrimSpace(*c.Name)
		c.Name = &trimmed
	}
	p, err := s.repo.UpdateOwned(ctx, id, caller.ID, c)
	return p, notFound(err)
}

func (s *Service) Delete(ctx context.Context, caller auth.Identity, id string) error {
	return notFound(s.repo.DeleteOwned(ctx, id, caller.ID))
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
