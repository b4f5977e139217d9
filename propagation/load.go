package propagation

import (
	"context"
	"errors"
	"fmt"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
)

func (s *Service) loadPatient(ctx context.Context, userID string) (*models.Patient, error) {
	p, err := s.patients.FindByUserID(ctx, userID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, newError(KindNotFound, CodePatientProfileNotFound, fmt.Sprintf("patient profile %q not found", userID))
	}
	if err != nil {
		return nil, &Error{Kind: KindPersistenceWrite, Code: CodePatientProfileNotFound, Message: "failed to load patient profile", Err: err}
	}
	return p, nil
}

func (s *Service) loadDoctor(ctx context.Context, userID string) (*models.Doctor, error) {
	d, err := s.doctors.FindByUserID(ctx, userID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, newError(KindNotFound, CodeDoctorProfileNotFound, fmt.Sprintf("doctor profile %q not found", userID))
	}
	if err != nil {
		return nil, &Error{Kind: KindPersistenceWrite, Code: CodeDoctorProfileNotFound, Message: "failed to load doctor profile", Err: err}
	}
	return d, nil
}

func locate(appts []models.Appointment, doctorPatientID, side string) (models.Appointment, error) {
	a, ok := models.FindAppointment(appts, doctorPatientID)
	if !ok {
		return models.Appointment{}, &Error{
			Kind:    KindNotFound,
			Code:    CodeAppointmentNotFound,
			Message: fmt.Sprintf("appointment %q not found on the %s record", doctorPatientID, side),
			Details: map[string]string{"side": side},
		}
	}
	return a, nil
}

// requirePending rejects transitions out of a terminal state when configured to
func (s *Service) requirePending(a models.Appointment) error {
	if !s.opts.EnforcePendingTransitions || a.Status == models.StatusPending {
		return nil
	}
	return &Error{
		Kind:    KindConflict,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("appointment %q is %s", a.DoctorPatientID, a.Status),
		Details: map[string]string{"status": string(a.Status)},
	}
}

// missing returns a MissingRequiredField error for every empty named value
func missing(fields ...[2]string) error {
	details := map[string]string{}
	for _, f := range fields {
		if f[1] == "" {
			details[f[0]] = "required"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return validationError(CodeMissingRequiredField, "required fields are missing", details)
}
