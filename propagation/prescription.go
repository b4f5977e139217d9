package propagation

import (
	"context"
	"fmt"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/notify"
)

// PrescriptionInput attaches a prescription to an appointment and completes it
type PrescriptionInput struct {
	DoctorPatientID string              `json:"-"`
	PatientUserID   string              `json:"userId"`
	DoctorUserID    string              `json:"doctorUserId"`
	Prescription    models.Prescription `json:"prescription"`
}

// AttachPrescription completes the appointment and records the prescription on
// the patient record, the doctor record and the admin mirror, in that order.
func (s *Service) AttachPrescription(ctx context.Context, in PrescriptionInput) (*models.Prescription, error) {
	if err := missing(
		[2]string{"doctorpatinetId", in.DoctorPatientID},
		[2]string{"userId", in.PatientUserID},
		[2]string{"doctorUserId", in.DoctorUserID},
		[2]string{"diagnosis", in.Prescription.Diagnosis},
	); err != nil {
		return nil, err
	}

	patient, err := s.loadPatient(ctx, in.PatientUserID)
	if err != nil {
		return nil, err
	}
	patientSide, err := locate(patient.Appointments, in.DoctorPatientID, targetPatient)
	if err != nil {
		return nil, err
	}
	if err := s.requirePending(patientSide); err != nil {
		return nil, err
	}

	now := s.now()
	rx := in.Prescription
	if rx.PrescriptionID == "" {
		rx.PrescriptionID = s.newID()
	}
	rx.DoctorPatientID = in.DoctorPatientID
	rx.PatientUserID = in.PatientUserID
	rx.DoctorUserID = in.DoctorUserID
	rx.PatientName = ""
	rx.PatientAge = 0
	rx.IssuedAt = now

	doctorRx := rx
	doctorRx.PatientName = patient.Name
	doctorRx.PatientAge = patient.Age

	completed := databases.StatusChange{Status: models.StatusCompleted}
	dp := in.DoctorPatientID

	var (
		doctor     *models.Doctor
		doctorSide models.Appointment
	)
	g := &saga{op: "attach prescription", key: dp, userID: in.PatientUserID, failCode: CodePrescriptionNotCreated}
	g.add("complete patient appointment", targetPatient, func(ctx context.Context) error {
		return s.patients.SetAppointmentStatus(ctx, in.PatientUserID, dp, patientSide.Version, completed)
	})
	g.add("set patient prescription", targetPatient, func(ctx context.Context) error {
		return s.patients.SetAppointmentPrescription(ctx, in.PatientUserID, dp, rx)
	})
	g.add("load doctor", targetDoctor, func(ctx context.Context) (err error) {
		if doctor, err = s.loadDoctor(ctx, in.DoctorUserID); err != nil {
			return err
		}
		doctorSide, err = locate(doctor.Appointments, dp, targetDoctor)
		return err
	})
	g.add("complete doctor appointment", targetDoctor, func(ctx context.Context) error {
		return s.doctors.SetAppointmentStatus(ctx, in.DoctorUserID, dp, doctorSide.Version, completed)
	})
	g.add("set doctor prescription", targetDoctor, func(ctx context.Context) error {
		return s.doctors.SetAppointmentPrescription(ctx, in.DoctorUserID, dp, doctorRx)
	})
	g.add("push doctor prescription history", targetDoctor, func(ctx context.Context) error {
		return s.doctors.PushPrescription(ctx, in.DoctorUserID, doctorRx)
	})
	g.add("push admin prescription log", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushPrescriptionLog(ctx, adminPrescription(rx, patient, doctor))
	})
	g.add("set admin doctor prescription", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentPrescription(ctx, databases.DoctorDetails, in.DoctorUserID, dp, doctorRx)
	})
	g.add("push admin doctor prescription history", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushDoctorPrescription(ctx, in.DoctorUserID, doctorRx)
	})
	g.add("set admin patient prescription", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentPrescription(ctx, databases.PatientDetails, in.PatientUserID, dp, rx)
	})
	g.add("complete admin patient appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentStatus(ctx, databases.PatientDetails, in.PatientUserID, dp, completed)
	})
	g.add("complete admin doctor appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentStatus(ctx, databases.DoctorDetails, in.DoctorUserID, dp, completed)
	})
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}

	lines := []string{fmt.Sprintf("Diagnosis: %s", rx.Diagnosis)}
	for _, m := range rx.Medications {
		lines = append(lines, fmt.Sprintf("%s %s, %s for %s", m.Name, m.Dosage, m.Frequency, m.Duration))
	}
	if rx.FollowUpDate != "" {
		lines = append(lines, "Follow up on "+rx.FollowUpDate)
	}
	s.notifier.Notify(ctx, notify.Event{
		Type:            notify.PrescriptionIssued,
		DoctorPatientID: dp,
		Patient:         patientParty(patient),
		Doctor:          doctorParty(doctor),
		Subject:         "Your prescription is ready",
		Lines:           lines,
		At:              now,
	})
	return &rx, nil
}

func adminPrescription(rx models.Prescription, p *models.Patient, d *models.Doctor) models.AdminPrescription {
	entry := models.AdminPrescription{
		Prescription:      rx,
		PatientGender:     p.Gender,
		PatientContact:    p.Contact,
		PatientBloodGroup: p.BloodGroup,
	}
	entry.PatientName = p.Name
	entry.PatientAge = p.Age
	if d != nil {
		entry.DoctorName = d.Name
		entry.DoctorHospital = d.Hospital
		entry.DoctorContact = d.Contact
		entry.DoctorSpecializations = d.Specializations
	}
	return entry
}
