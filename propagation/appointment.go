package propagation

import (
	"context"
	"fmt"
	"time"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/notify"
)

// DateLayout is the calendar date format of appointmentDate
const DateLayout = "2006-01-02"

// BookInput requests a new appointment
type BookInput struct {
	PatientUserID    string `json:"userId"`
	DoctorUserID     string `json:"doctorUserId"`
	AppointmentDate  string `json:"appointmentDate"`
	AppointmentTime  string `json:"appointmentTime"`
	ConsultationType string `json:"consultationType"`
	ConsultedType    string `json:"consultedType"`
	ReasonForVisit   string `json:"reasonForVisit"`
	Symptoms         string `json:"symptoms"`
}

// RescheduleInput changes the scheduling fields of an appointment. Nil fields
// keep their previous value.
type RescheduleInput struct {
	DoctorPatientID  string      `json:"-"`
	PatientUserID    string      `json:"userId"`
	DoctorUserID     string      `json:"doctorUserId"`
	RequestedBy      models.Role `json:"rescheduledBy"`
	AppointmentDate  *string     `json:"appointmentDate"`
	AppointmentTime  *string     `json:"appointmentTime"`
	ConsultationType *string     `json:"consultationType"`
	ConsultedType    *string     `json:"consultedType"`
	ReasonForVisit   *string     `json:"reasonForVisit"`
	Symptoms         *string     `json:"symptoms"`
}

// CancelInput cancels an appointment
type CancelInput struct {
	DoctorPatientID string      `json:"-"`
	PatientUserID   string      `json:"userId"`
	DoctorUserID    string      `json:"doctorUserId"`
	CancelledBy     models.Role `json:"cancelledBy"`
	Reason          string      `json:"cancellationReason"`
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return d, validationError(CodeInvalidDate, fmt.Sprintf("appointmentDate %q must be YYYY-MM-DD", s),
			map[string]string{"appointmentDate": s})
	}
	return d, nil
}

func checkTime(s string) error {
	if !models.ValidTimeOfDay(s) {
		return validationError(CodeTimeFormatInvalid, fmt.Sprintf("appointmentTime %q must be HH:MM", s),
			map[string]string{"appointmentTime": s})
	}
	return nil
}

func actor(r models.Role) (models.Role, error) {
	if r == "" {
		return models.RolePatient, nil
	}
	if !r.Valid() {
		return "", validationError(CodeInvalidRole, fmt.Sprintf("%q is not a known role", r), map[string]string{"role": string(r)})
	}
	return r, nil
}

// Book creates a pending appointment on both records and on both admin copies
func (s *Service) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {
	if err := missing(
		[2]string{"userId", in.PatientUserID},
		[2]string{"doctorUserId", in.DoctorUserID},
		[2]string{"appointmentDate", in.AppointmentDate},
		[2]string{"appointmentTime", in.AppointmentTime},
	); err != nil {
		return nil, err
	}
	date, err := parseDate(in.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if err := checkTime(in.AppointmentTime); err != nil {
		return nil, err
	}

	patient, err := s.loadPatient(ctx, in.PatientUserID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.loadDoctor(ctx, in.DoctorUserID)
	if err != nil {
		return nil, err
	}
	if s.opts.EnforceDoctorAvailability && !doctor.AvailableSlots.Covers(date, in.AppointmentTime) {
		return nil, validationError(CodeSlotUnavailable, "the doctor is not available at the requested time", map[string]string{
			"day":             models.WeekdayOf(date).String(),
			"appointmentDate": in.AppointmentDate,
			"appointmentTime": in.AppointmentTime,
		})
	}

	now := s.now()
	appt := models.Appointment{
		DoctorPatientID:       s.newID(),
		PatientUserID:         patient.UserID,
		DoctorUserID:          doctor.UserID,
		PatientName:           patient.Name,
		PatientAge:            patient.Age,
		PatientGender:         patient.Gender,
		PatientContact:        patient.Contact,
		DoctorName:            doctor.Name,
		DoctorSpecializations: doctor.Specializations,
		DoctorHospital:        doctor.Hospital,
		ConsultationFee:       doctor.ConsultationFee,
		AppointmentDate:       in.AppointmentDate,
		AppointmentTime:       in.AppointmentTime,
		ConsultationType:      in.ConsultationType,
		ConsultedType:         in.ConsultedType,
		ReasonForVisit:        in.ReasonForVisit,
		Symptoms:              in.Symptoms,
		Status:                models.StatusPending,
		Documents:             []models.Document{},
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	g := &saga{op: "book appointment", key: appt.DoctorPatientID, userID: patient.UserID, failCode: CodeAppointmentNotBooked}
	g.add("push patient appointment", targetPatient, func(ctx context.Context) error {
		return s.patients.PushAppointment(ctx, patient.UserID, appt)
	})
	g.add("push doctor appointment", targetDoctor, func(ctx context.Context) error {
		return s.doctors.PushAppointment(ctx, doctor.UserID, appt)
	})
	g.add("push admin patient appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushAppointment(ctx, databases.PatientDetails, patient.UserID, appt)
	})
	g.add("push admin doctor appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushAppointment(ctx, databases.DoctorDetails, doctor.UserID, appt)
	})
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.Event{
		Type:            notify.AppointmentBooked,
		DoctorPatientID: appt.DoctorPatientID,
		Patient:         patientParty(patient),
		Doctor:          doctorParty(doctor),
		Subject:         "Appointment booked",
		Lines:           scheduleLines(appt),
		At:              now,
	})
	return &appt, nil
}

// pair is an appointment as seen from both records
type pair struct {
	patient     *models.Patient
	doctor      *models.Doctor
	patientSide models.Appointment
	doctorSide  models.Appointment
}

func (s *Service) loadPair(ctx context.Context, doctorPatientID, patientUserID, doctorUserID string) (*pair, error) {
	if err := missing(
		[2]string{"doctorpatinetId", doctorPatientID},
		[2]string{"userId", patientUserID},
		[2]string{"doctorUserId", doctorUserID},
	); err != nil {
		return nil, err
	}
	var (
		p   pair
		err error
	)
	if p.patient, err = s.loadPatient(ctx, patientUserID); err != nil {
		return nil, err
	}
	if p.patientSide, err = locate(p.patient.Appointments, doctorPatientID, targetPatient); err != nil {
		return nil, err
	}
	if p.doctor, err = s.loadDoctor(ctx, doctorUserID); err != nil {
		return nil, err
	}
	if p.doctorSide, err = locate(p.doctor.Appointments, doctorPatientID, targetDoctor); err != nil {
		return nil, err
	}
	return &p, nil
}

// Reschedule moves an appointment while keeping its key and display fields.
// Both records are replaced, one audit entry is logged and the admin copies
// follow.
func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (*models.Appointment, error) {
	by, err := actor(in.RequestedBy)
	if err != nil {
		return nil, err
	}
	if in.AppointmentDate != nil {
		if _, err := parseDate(*in.AppointmentDate); err != nil {
			return nil, err
		}
	}
	if in.AppointmentTime != nil {
		if err := checkTime(*in.AppointmentTime); err != nil {
			return nil, err
		}
	}
	p, err := s.loadPair(ctx, in.DoctorPatientID, in.PatientUserID, in.DoctorUserID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePending(p.patientSide); err != nil {
		return nil, err
	}

	now := s.now()
	// the patient copy is the reference for fields the request leaves out, so
	// both copies end up with the same schedule even if they had drifted
	prev := p.patientSide
	next := func(side models.Appointment) models.Appointment {
		n := side
		n.AppointmentDate = orPrevious(in.AppointmentDate, prev.AppointmentDate)
		n.AppointmentTime = orPrevious(in.AppointmentTime, prev.AppointmentTime)
		n.ConsultationType = orPrevious(in.ConsultationType, prev.ConsultationType)
		n.ConsultedType = orPrevious(in.ConsultedType, prev.ConsultedType)
		n.ReasonForVisit = orPrevious(in.ReasonForVisit, prev.ReasonForVisit)
		n.Symptoms = orPrevious(in.Symptoms, prev.Symptoms)
		n.Status = models.StatusPending
		n.CancellationReason = ""
		n.CancelledBy = ""
		n.Version = side.Version + 1
		n.UpdatedAt = now
		return n
	}
	patientNext := next(p.patientSide)
	doctorNext := next(p.doctorSide)
	audit := models.NewRescheduleAudit(p.patientSide, patientNext, by, now)

	g := &saga{op: "reschedule appointment", key: in.DoctorPatientID, userID: in.PatientUserID, failCode: CodeAppointmentNotRescheduled}
	g.add("replace patient appointment", targetPatient, func(ctx context.Context) error {
		return s.patients.ReplaceAppointment(ctx, in.PatientUserID, p.patientSide.Version, patientNext)
	})
	g.add("replace doctor appointment", targetDoctor, func(ctx context.Context) error {
		return s.doctors.ReplaceAppointment(ctx, in.DoctorUserID, p.doctorSide.Version, doctorNext)
	})
	g.add("push reschedule audit", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushRescheduleLog(ctx, audit)
	})
	g.add("replace admin patient appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.ReplaceAppointment(ctx, databases.PatientDetails, in.PatientUserID, patientNext)
	})
	g.add("replace admin doctor appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.ReplaceAppointment(ctx, databases.DoctorDetails, in.DoctorUserID, doctorNext)
	})
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}

	lines := append([]string{fmt.Sprintf("Previously: %s at %s", audit.PrevAppointmentDate, audit.PrevAppointmentTime)},
		scheduleLines(patientNext)...)
	s.notifier.Notify(ctx, notify.Event{
		Type:            notify.AppointmentRescheduled,
		DoctorPatientID: in.DoctorPatientID,
		Patient:         patientParty(p.patient),
		Doctor:          doctorParty(p.doctor),
		Subject:         "Appointment rescheduled",
		Lines:           lines,
		At:              now,
	})
	return &patientNext, nil
}

// Cancel marks an appointment cancelled on both records and both admin copies
func (s *Service) Cancel(ctx context.Context, in CancelInput) (*models.Appointment, error) {
	by, err := actor(in.CancelledBy)
	if err != nil {
		return nil, err
	}
	p, err := s.loadPair(ctx, in.DoctorPatientID, in.PatientUserID, in.DoctorUserID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePending(p.patientSide); err != nil {
		return nil, err
	}

	change := databases.StatusChange{Status: models.StatusCancelled, CancellationReason: in.Reason, CancelledBy: by}
	dp := in.DoctorPatientID

	g := &saga{op: "cancel appointment", key: dp, userID: in.PatientUserID, failCode: CodeAppointmentNotCancelled}
	g.add("cancel patient appointment", targetPatient, func(ctx context.Context) error {
		return s.patients.SetAppointmentStatus(ctx, in.PatientUserID, dp, p.patientSide.Version, change)
	})
	g.add("cancel doctor appointment", targetDoctor, func(ctx context.Context) error {
		return s.doctors.SetAppointmentStatus(ctx, in.DoctorUserID, dp, p.doctorSide.Version, change)
	})
	g.add("cancel admin patient appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentStatus(ctx, databases.PatientDetails, in.PatientUserID, dp, change)
	})
	g.add("cancel admin doctor appointment", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetAppointmentStatus(ctx, databases.DoctorDetails, in.DoctorUserID, dp, change)
	})
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}

	now := s.now()
	out := p.patientSide
	out.Status = models.StatusCancelled
	out.CancellationReason = in.Reason
	out.CancelledBy = by
	out.Version++
	out.UpdatedAt = now

	lines := scheduleLines(out)
	if in.Reason != "" {
		lines = append(lines, "Reason: "+in.Reason)
	}
	s.notifier.Notify(ctx, notify.Event{
		Type:            notify.AppointmentCancelled,
		DoctorPatientID: dp,
		Patient:         patientParty(p.patient),
		Doctor:          doctorParty(p.doctor),
		Subject:         "Appointment cancelled",
		Lines:           lines,
		At:              now,
	})
	return &out, nil
}

func orPrevious(v *string, prev string) string {
	if v == nil {
		return prev
	}
	return *v
}

func scheduleLines(a models.Appointment) []string {
	lines := []string{fmt.Sprintf("Date: %s at %s", a.AppointmentDate, a.AppointmentTime)}
	if a.DoctorName != "" {
		lines = append(lines, "Doctor: "+a.DoctorName)
	}
	if a.ConsultationType != "" {
		lines = append(lines, "Consultation: "+a.ConsultationType)
	}
	return lines
}

func patientParty(p *models.Patient) notify.Party {
	if p == nil {
		return notify.Party{}
	}
	return notify.Party{UserID: p.UserID, Name: p.Name, Email: p.Email}
}

func doctorParty(d *models.Doctor) notify.Party {
	if d == nil {
		return notify.Party{}
	}
	return notify.Party{UserID: d.UserID, Name: d.Name, Email: d.Email}
}
