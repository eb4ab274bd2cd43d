package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

// PatientRepo stores patients. Every read and write except GetByID is
// scoped to an owner.
type PatientRepo struct {
	db *sqlx.DB
}

func NewPatientRepo(db *sqlx.DB) *PatientRepo { return &PatientRepo{db: db} }

const patientColumns = `id, name, age, gender, contact_info, created_by, created_at`

func (r *PatientRepo) EnsureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS patients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  age INTEGER NOT NULL,
  gender TEXT NOT NULL,
  contact_info TEXT NOT NULL DEFAULT '',
  created_by TEXT NOT NULL,
  created_at ` + database.TimestampType(r.db.DriverName()) + ` NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_patients_created_by ON patients (created_by)`)
	return err
}

func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	q := r.db.Rebind(`INSERT INTO patients (` + patientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Age, p.Gender, p.ContactInfo, p.CreatedBy, p.CreatedAt)
	return err
}

// ListByOwner returns the owner's patients, newest first.
func (r *PatientRepo) ListByOwner(ctx context.Context, owner string) ([]entity.Patient, error) {
	q := r.db.Rebind(`SELECT ` + patientColumns + ` FROM patients WHERE created_by = ? ORDER BY created_at DESC, id DESC`)
	out := []entity.Patient{}
	if err := r.db.SelectContext(ctx, &out, q, owner); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOwned matches on id and owner together; a patient owned by someone
// else is indistinguishable from a missing one (sql.ErrNoRows).
func (r *PatientRepo) GetOwned(ctx context.Context, id, owner string) (*entity.Patient, error) {
	q := r.db.Rebind(`SELECT ` + patientColumns + ` FROM patients WHERE id = ? AND created_by = ?`)
	var p entity.Patient
	if err := r.db.GetContext(ctx, &p, q, id, owner); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID ignores ownership. Callers must compare CreatedBy themselves.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	q := r.db.Rebind(`SELECT ` + patientColumns + ` FROM patients WHERE id = ?`)
	var p entity.Patient
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateOwned applies the non-nil fields of c and returns the updated row.
func (r *PatientRepo) UpdateOwned(ctx context.Context, id, owner string, c entity.Changes) (*entity.Patient, error) {
	if c.Empty() {
		return r.GetOwned(ctx, id, owner)
	}
	var sets []string
	var args []any
	if c.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *c.Name)
	}
	if c.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *c.Age)
	}
	if c.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *c.Gender)
	}
	if c.ContactInfo != nil {
		sets = append(sets, "contact_info = ?")
		args = append(args, *c.ContactInfo)
	}
	args = append(args, id, owner)
	q := r.db.Rebind(`UPDATE patients SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND created_by = ?`)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetOwned(ctx, id, owner)
}

// DeleteOwned removes the patient if owner created it, else sql.ErrNoRows.
func (r *PatientRepo) DeleteOwned(ctx context.Context, id, owner string) error {
	q := r.db.Rebind(`DELETE FROM patients WHERE id = ? AND created_by = ?`)
	res, err := r.db.ExecContext(ctx, q, id, owner)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
