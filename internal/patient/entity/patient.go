package entity

import "time"

// Genders accepted for a patient record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Patient is a record owned by the staff user who created it. CreatedBy is
// set once at creation and never changes.
type Patient struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Age         int       `db:"age" json:"age"`
	Gender      string    `db:"gender" json:"gender"`
	ContactInfo string    `db:"contact_info" json:"contactInfo"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Name        *string
	Age         *int
	Gender      *string
	ContactInfo *string
}

func (c Changes) Empty() bool {
	return c.Name == nil && c.Age == nil && c.Gender == nil && c.ContactInfo == nil
}
