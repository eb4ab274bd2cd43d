package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	doctorentity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/mapping/entity"
	patiententity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

// MappingRepo stores patient-doctor assignments. Rows are not removed when
// the patient or doctor they reference is deleted.
type MappingRepo struct {
	db *sqlx.DB
}

func NewMappingRepo(db *sqlx.DB) *MappingRepo { return &MappingRepo{db: db} }

func (r *MappingRepo) EnsureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS mappings (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL,
  doctor_id TEXT NOT NULL,
  assigned_date ` + database.TimestampType(r.db.DriverName()) + ` NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_mappings_patient_doctor ON mappings (patient_id, doctor_id)`)
	return err
}

// Create inserts m. A repeated pair fails with a unique violation
// (see database.IsUniqueViolation).
func (r *MappingRepo) Create(ctx context.Context, m *entity.Mapping) error {
	q := r.db.Rebind(`INSERT INTO mappings (id, patient_id, doctor_id, assigned_date) VALUES (?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q, m.ID, m.PatientID, m.DoctorID, m.AssignedDate)
	return err
}

func (r *MappingRepo) GetByID(ctx context.Context, id string) (*entity.Mapping, error) {
	q := r.db.Rebind(`SELECT id, patient_id, doctor_id, assigned_date FROM mappings WHERE id = ?`)
	var m entity.Mapping
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MappingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM mappings WHERE id = ?`), id)
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

type doctorCols struct {
	DoctorRef      sql.NullString `db:"d_id"`
	DoctorName     sql.NullString `db:"d_name"`
	Specialization sql.NullString `db:"d_specialization"`
	DoctorContact  sql.NullString `db:"d_contact_info"`
}

func (c doctorCols) doctor() *doctorentity.Doctor {
	if !c.DoctorRef.Valid {
		return nil
	}
	return &doctorentity.Doctor{
		ID:             c.DoctorRef.String,
		Name:           c.DoctorName.String,
		Specialization: c.Specialization.String,
		ContactInfo:    c.DoctorContact.String,
	}
}

type detailRow struct {
	ID             string    `db:"id"`
	AssignedDate   time.Time `db:"assigned_date"`
	PatientID      string    `db:"p_id"`
	PatientName    string    `db:"p_name"`
	Age            int       `db:"p_age"`
	Gender         string    `db:"p_gender"`
	PatientContact string    `db:"p_contact_info"`
	CreatedBy      string    `db:"p_created_by"`
	CreatedAt      time.Time `db:"p_created_at"`
	doctorCols
}

const doctorSelect = `d.id AS d_id, d.name AS d_name, d.specialization AS d_specialization, d.contact_info AS d_contact_info`

// ListForOwner returns the mappings whose patient was created by owner,
// newest first. Mappings of other users' patients, and of deleted patients,
// never appear.
func (r *MappingRepo) ListForOwner(ctx context.Context, owner string) ([]entity.Detail, error) {
	q := r.db.Rebind(`SELECT m.id, m.assigned_date,
  p.id AS p_id, p.name AS p_name, p.age AS p_age, p.gender AS p_gender,
  p.contact_info AS p_contact_info, p.created_by AS p_created_by, p.created_at AS p_created_at,
  ` + doctorSelect + `
FROM mappings m
JOIN patients p ON p.id = m.patient_id AND p.created_by = ?
LEFT JOIN doctors d ON d.id = m.doctor_id
ORDER BY m.assigned_date DESC, m.id DESC`)
	var rows []detailRow
	if err := r.db.SelectContext(ctx, &rows, q, owner); err != nil {
		return nil, err
	}
	out := make([]entity.Detail, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Detail{
			ID: row.ID,
			Patient: patiententity.Patient{
				ID:          row.PatientID,
				Name:        row.PatientName,
				Age:         row.Age,
				Gender:      row.Gender,
				ContactInfo: row.PatientContact,
				CreatedBy:   row.CreatedBy,
				CreatedAt:   row.CreatedAt,
			},
			Doctor:       row.doctor(),
			AssignedDate: row.AssignedDate,
		})
	}
	return out, nil
}

type assignmentRow struct {
	ID           string    `db:"id"`
	PatientID    string    `db:"patient_id"`
	AssignedDate time.Time `db:"assigned_date"`
	doctorCols
}

// ListByPatient returns every mapping of one patient. Ownership of the
// patient is checked by the caller.
func (r *MappingRepo) ListByPatient(ctx context.Context, patientID string) ([]entity.Assignment, error) {
	q := r.db.Rebind(`SELECT m.id, m.patient_id, m.assigned_date, ` + doctorSelect + `
FROM mappings m
LEFT JOIN doctors d ON d.id = m.doctor_id
WHERE m.patient_id = ?
ORDER BY m.assigned_date DESC, m.id DESC`)
	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, q, patientID); err != nil {
		return nil, err
	}
	out := make([]entity.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Assignment{
			ID:           row.ID,
			PatientID:    row.PatientID,
			Doctor:       row.doctor(),
			AssignedDate: row.AssignedDate,
		})
	}
	return out, nil
}
