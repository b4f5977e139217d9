package models

import "time"

// AppointmentStatus is the lifecycle state of one doctor–patient appointment
type AppointmentStatus string

// Appointment states. completed and cancelled are terminal.
const (
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is expected out of s
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment is one view of a doctor–patient appointment. The patient record
// and the doctor record each hold their own copy, joined by DoctorPatientID.
type Appointment struct {
	DoctorPatientID string `json:"doctorpatinetId" bson:"doctorpatinetId"`
	PatientUserID   string `json:"userId" bson:"userId"`
	DoctorUserID    string `json:"doctorUserId" bson:"doctorUserId"`

	PatientName           string   `json:"patientName" bson:"patientName"`
	PatientAge            int      `json:"patientAge" bson:"patientAge"`
	PatientGender         string   `json:"patientGender" bson:"patientGender"`
	PatientContact        string   `json:"patientContact" bson:"patientContact"`
	DoctorName            string   `json:"doctorName" bson:"doctorName"`
	DoctorSpecializations []string `json:"doctorSpecializations" bson:"doctorSpecializations"`
	DoctorHospital        string   `json:"doctorHospital" bson:"doctorHospital"`
	ConsultationFee       float64  `json:"consultationFee" bson:"consultationFee"`

	AppointmentDate  string `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime  string `json:"appointmentTime" bson:"appointmentTime"`
	ConsultationType string `json:"consultationType" bson:"consultationType"`
	ConsultedType    string `json:"consultedType" bson:"consultedType"`
	ReasonForVisit   string `json:"reasonForVisit" bson:"reasonForVisit"`
	Symptoms         string `json:"symptoms" bson:"symptoms"`

	Status             AppointmentStatus `json:"status" bson:"status"`
	CancellationReason string            `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CancelledBy        Role              `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`

	Prescription *Prescription `json:"prescription,omitempty" bson:"prescription,omitempty"`
	Documents    []Document    `json:"documents" bson:"documents"`

	// Version increases on every in-place change and guards concurrent rewrites
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FindAppointment returns the entry with the given correlation key
func FindAppointment(appts []Appointment, doctorPatientID string) (Appointment, bool) {
	for _, a := range appts {
		if a.DoctorPatientID == doctorPatientID {
			return a, true
		}
	}
	return Appointment{}, false
}

// RescheduleAudit records one reschedule with the previous values side by side
type RescheduleAudit struct {
	DoctorPatientID string `json:"doctorpatinetId" bson:"doctorpatinetId"`
	PatientUserID   string `json:"userId" bson:"userId"`
	DoctorUserID    string `json:"doctorUserId" bson:"doctorUserId"`
	PatientName     string `json:"patientName" bson:"patientName"`
	DoctorName      string `json:"doctorName" bson:"doctorName"`

	PrevAppointmentDate  string            `json:"prevAppointmentDate" bson:"prevAppointmentDate"`
	PrevAppointmentTime  string            `json:"prevAppointmentTime" bson:"prevAppointmentTime"`
	PrevConsultationType string            `json:"prevConsultationType" bson:"prevConsultationType"`
	PrevConsultedType    string            `json:"prevConsultedType" bson:"prevConsultedType"`
	PrevReasonForVisit   string            `json:"prevReasonForVisit" bson:"prevReasonForVisit"`
	PrevSymptoms         string            `json:"prevSymptoms" bson:"prevSymptoms"`
	PrevStatus           AppointmentStatus `json:"prevStatus" bson:"prevStatus"`

	AppointmentDate  string            `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime  string            `json:"appointmentTime" bson:"appointmentTime"`
	ConsultationType string            `json:"consultationType" bson:"consultationType"`
	ConsultedType    string            `json:"consultedType" bson:"consultedType"`
	ReasonForVisit   string            `json:"reasonForVisit" bson:"reasonForVisit"`
	Symptoms         string            `json:"symptoms" bson:"symptoms"`
	Status           AppointmentStatus `json:"status" bson:"status"`

	RescheduledBy Role      `json:"rescheduledBy" bson:"rescheduledBy"`
	RescheduledAt time.Time `json:"rescheduledAt" bson:"rescheduledAt"`
}

// NewRescheduleAudit pairs the appointment before and after a reschedule
func NewRescheduleAudit(prev, next Appointment, by Role, at time.Time) RescheduleAudit {
	return RescheduleAudit{
		DoctorPatientID:      next.DoctorPatientID,
		PatientUserID:        next.PatientUserID,
		DoctorUserID:         next.DoctorUserID,
		PatientName:          next.PatientName,
		DoctorName:           next.DoctorName,
		PrevAppointmentDate:  prev.AppointmentDate,
		PrevAppointmentTime:  prev.AppointmentTime,
		PrevConsultationType: prev.ConsultationType,
		PrevConsultedType:    prev.ConsultedType,
		PrevReasonForVisit:   prev.ReasonForVisit,
		PrevSymptoms:         prev.Symptoms,
		PrevStatus:           prev.Status,
		AppointmentDate:      next.AppointmentDate,
		AppointmentTime:      next.AppointmentTime,
		ConsultationType:     next.ConsultationType,
		ConsultedType:        next.ConsultedType,
		ReasonForVisit:       next.ReasonForVisit,
		Symptoms:             next.Symptoms,
		Status:               next.Status,
		RescheduledBy:        by,
		RescheduledAt:        at,
	}
}
