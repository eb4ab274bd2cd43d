package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/utilities"
)

var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *entity.Doctor) error
	List(ctx context.Context) ([]entity.Doctor, error)
	GetByID(ctx context.Context, id string) (*entity.Doctor, error)
	Update(ctx context.Context, id string, c entity.Changes) (*entity.Doctor, error)
	Delete(ctx context.Context, id string) error
}

// Service manages the doctor directory. Write access is enforced by the
// role gate in front of the handlers, not here.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Create(ctx context.Context, name, specialization, contactInfo string) (*entity.Doctor, error) {
	d := &entity.Doctor{
		ID:             utilities.NewID(),
		Name:           strings.TrimSpace(name),
		Specialization: strings.TrimSpace(specialization),
		ContactInfo:    contactInfo,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Doctor, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	return d, notFound(err)
}

func (s *Service) Update(ctx context.Context, id string, c entity.Changes) (*entity.Doctor, error) {
	d, err := s.repo.Update(ctx, id, c)
	return d, notFound(err)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return notFound(s.repo.Delete(ctx, id))
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
