package entity

// Doctor is a directory entry. Doctors have no owner.
type Doctor struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Specialization string `db:"specialization" json:"specialization"`
	ContactInfo    string `db:"contact_info" json:"contactInfo"`
}

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Name           *string
	Specialization *string
	ContactInfo    *string
}

func (c Changes) Empty() bool {
	return c.Name == nil && c.Specialization == nil && c.ContactInfo == nil
}
