package models

import "time"

// VitalSigns captured during a consultation
type VitalSigns struct {
	BloodPressure    string `json:"bloodPressure" bson:"bloodPressure"`
	HeartRate        string `json:"heartRate" bson:"heartRate"`
	Temperature      string `json:"temperature" bson:"temperature"`
	Weight           string `json:"weight" bson:"weight"`
	OxygenSaturation string `json:"oxygenSaturation" bson:"oxygenSaturation"`
}

// Medication is one prescribed drug
type Medication struct {
	Name         string `json:"name" bson:"name"`
	Dosage       string `json:"dosage" bson:"dosage"`
	Frequency    string `json:"frequency" bson:"frequency"`
	Duration     string `json:"duration" bson:"duration"`
	Instructions string `json:"instructions" bson:"instructions"`
}

// Prescription authored by a doctor for one appointment
type Prescription struct {
	PrescriptionID  string `json:"prescriptionId" bson:"prescriptionId"`
	DoctorPatientID string `json:"doctorpatinetId" bson:"doctorpatinetId"`
	PatientUserID   string `json:"userId" bson:"userId"`
	DoctorUserID    string `json:"doctorUserId" bson:"doctorUserId"`

	VitalSigns   VitalSigns   `json:"vitalSigns" bson:"vitalSigns"`
	Diagnosis    string       `json:"diagnosis" bson:"diagnosis"`
	Medications  []Medication `json:"medications" bson:"medications"`
	Restrictions string       `json:"restrictions" bson:"restrictions"`
	FollowUpDate string       `json:"followUpDate" bson:"followUpDate"`
	Notes        string       `json:"notes" bson:"notes"`

	// set on the doctor-side copy only
	PatientName string `json:"patientName,omitempty" bson:"patientName,omitempty"`
	PatientAge  int    `json:"patientAge,omitempty" bson:"patientAge,omitempty"`

	IssuedAt time.Time `json:"issuedAt" bson:"issuedAt"`
}

// AdminPrescription is the admin log entry: the prescription joined with
// display fields from both the doctor and the patient record
type AdminPrescription struct {
	Prescription `bson:",inline"`

	DoctorName            string   `json:"doctorName" bson:"doctorName"`
	DoctorHospital        string   `json:"doctorHospital" bson:"doctorHospital"`
	DoctorContact         string   `json:"doctorContact" bson:"doctorContact"`
	DoctorSpecializations []string `json:"doctorSpecializations" bson:"doctorSpecializations"`

	PatientGender     string `json:"patientGender" bson:"patientGender"`
	PatientContact    string `json:"patientContact" bson:"patientContact"`
	PatientBloodGroup string `json:"patientBloodGroup" bson:"patientBloodGroup"`
}
