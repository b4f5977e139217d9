package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminMirror is the reporting rollup. It nests full copies of every patient
// and doctor record next to flat cross-cutting logs.
type AdminMirror struct {
	ID                    primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	PatientDetails        []Patient           `json:"patientDetails" bson:"patientDetails"`
	DoctorDetails         []Doctor            `json:"doctorDetails" bson:"doctorDetails"`
	Prescription          []AdminPrescription `json:"prescription" bson:"prescription"`
	Upload                []Document          `json:"upload" bson:"upload"`
	RescheduleAppointment []RescheduleAudit   `json:"rescheduleAppointment" bson:"rescheduleAppointment"`
	PatientRegister       []RegistrationAudit `json:"patientRegister" bson:"patientRegister"`
	DoctorRegister        []RegistrationAudit `json:"doctorRegister" bson:"doctorRegister"`
}

// RegistrationAudit is appended when a profile is completed for the first time
type RegistrationAudit struct {
	UserID         string    `json:"userId" bson:"userId"`
	Email          string    `json:"email" bson:"email"`
	Name           string    `json:"name" bson:"name"`
	RegistrationNo string    `json:"registrationNo,omitempty" bson:"registrationNo,omitempty"`
	RegisteredAt   time.Time `json:"registeredAt" bson:"registeredAt"`
}

// AdminMirrorSummary counts the entries of each admin array
type AdminMirrorSummary struct {
	Documents             int64 `json:"documents" bson:"documents"`
	PatientDetails        int64 `json:"patientDetails" bson:"patientDetails"`
	DoctorDetails         int64 `json:"doctorDetails" bson:"doctorDetails"`
	Prescription          int64 `json:"prescription" bson:"prescription"`
	Upload                int64 `json:"upload" bson:"upload"`
	RescheduleAppointment int64 `json:"rescheduleAppointment" bson:"rescheduleAppointment"`
	PatientRegister       int64 `json:"patientRegister" bson:"patientRegister"`
	DoctorRegister        int64 `json:"doctorRegister" bson:"doctorRegister"`
}
