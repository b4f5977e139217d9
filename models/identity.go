package models

// Role identifies which side of a doctor–patient relationship an account belongs to
type Role string

// Roles known to the account subsystem
const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Field names of the correlation keys as stored in every collection. The
// appointment key keeps its historical spelling so existing documents still match.
const (
	UserIDField          = "userId"
	DoctorUserIDField    = "doctorUserId"
	DoctorPatientIDField = "doctorpatinetId"
	PrescriptionIDField  = "prescriptionId"
	RegistrationNoField  = "registrationNo"
)
