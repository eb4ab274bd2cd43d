package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
)

type DoctorRepo struct {
	db *sqlx.DB
}

func NewDoctorRepo(db *sqlx.DB) *DoctorRepo { return &DoctorRepo{db: db} }

func (r *DoctorRepo) EnsureTable(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS doctors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  specialization TEXT NOT NULL,
  contact_info TEXT NOT NULL DEFAULT ''
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_doctors_name ON doctors (name)`)
	return err
}

func (r *DoctorRepo) Create(ctx context.Context, d *entity.Doctor) error {
	q := r.db.Rebind(`INSERT INTO doctors (id, name, specialization, contact_info) VALUES (?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q, d.ID, d.Name, d.Specialization, d.ContactInfo)
	return err
}

// List returns every doctor sorted by name.
func (r *DoctorRepo) List(ctx context.Context) ([]entity.Doctor, error) {
	out := []entity.Doctor{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name, specialization, contact_info FROM doctors ORDER BY name ASC, id ASC`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id string) (*entity.Doctor, error) {
	q := r.db.Rebind(`SELECT id, name, specialization, contact_info FROM doctors WHERE id = ?`)
	var d entity.Doctor
	if err := r.db.GetContext(ctx, &d, q, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) Update(ctx context.Context, id string, c entity.Changes) (*entity.Doctor, error) {
	if c.Empty() {
		return r.GetByID(ctx, id)
	}
	var sets []string
	var args []any
	if c.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *c.Name)
	}
	if c.Specialization != nil {
		sets = append(sets, "specialization = ?")
		args = append(args, *c.Specialization)
	}
	if c.ContactInfo != nil {
		sets = append(sets, "contact_info = ?")
		args = append(args, *c.ContactInfo)
	}
	args = append(args, id)
	q := r.db.Rebind(`UPDATE doctors SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// Delete removes the doctor. Mappings that reference it are left in place.
func (r *DoctorRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM doctors WHERE id = ?`), id)
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
