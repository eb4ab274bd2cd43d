package entity

import (
	"time"

	doctorentity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	patiententity "github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
)

// Mapping assigns a doctor to a patient. The (PatientID, DoctorID) pair is unique.
type Mapping struct {
	ID           string    `db:"id" json:"id"`
	PatientID    string    `db:"patient_id" json:"patient"`
	DoctorID     string    `db:"doctor_id" json:"doctor"`
	AssignedDate time.Time `db:"assigned_date" json:"assignedDate"`
}

// Detail is a mapping with both ends loaded. Doctor is nil once the doctor
// has been deleted.
type Detail struct {
	ID           string                `json:"id"`
	Patient      patiententity.Patient `json:"patient"`
	Doctor       *doctorentity.Doctor  `json:"doctor"`
	AssignedDate time.Time             `json:"assignedDate"`
}

// Assignment is a mapping listed under a known patient, so only the doctor
// is loaded.
type Assignment struct {
	ID           string               `json:"id"`
	PatientID    string               `json:"patient"`
	Doctor       *doctorentity.Doctor `json:"doctor"`
	AssignedDate time.Time            `json:"assignedDate"`
}
