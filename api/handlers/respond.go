package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/config"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/propagation"
)

// AppointmentResponse is returned by the appointment mutations
type AppointmentResponse struct {
	Message     string              `json:"message"`
	Appointment *models.Appointment `json:"appointment"`
}

// PrescriptionResponse is returned when a prescription is attached
type PrescriptionResponse struct {
	Message      string               `json:"message"`
	Prescription *models.Prescription `json:"prescription"`
}

// PatientResponse is returned when a patient profile is saved
type PatientResponse struct {
	Message string          `json:"message"`
	Patient *models.Patient `json:"patient"`
}

// DoctorResponse is returned when a doctor profile is saved
type DoctorResponse struct {
	Message string         `json:"message"`
	Doctor  *models.Doctor `json:"doctor"`
}

var kindStatus = map[propagation.Kind]int{
	propagation.KindValidation:       http.StatusBadRequest,
	propagation.KindNotFound:         http.StatusNotFound,
	propagation.KindDuplicateKey:     http.StatusConflict,
	propagation.KindConflict:         http.StatusConflict,
	propagation.KindUpstreamStorage:  http.StatusBadGateway,
	propagation.KindPartialBatch:     http.StatusBadRequest,
	propagation.KindPersistenceWrite: http.StatusInternalServerError,
}

// writeError renders a propagation error as an ErrorResponse. Anything else is
// treated as an internal failure.
func writeError(w http.ResponseWriter, err error) {
	var perr *propagation.Error
	if !errors.As(err, &perr) {
		config.ErrorStatus("internal error", http.StatusInternalServerError, w, err)
		return
	}
	status, ok := kindStatus[perr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		zap.S().Errorw("request failed", "code", perr.Code, "details", perr.Details, "error", err)
	} else {
		zap.S().Debugw("request rejected", "code", perr.Code, "message", perr.Message)
	}
	writeJSON(w, status, models.ErrorResponse{
		Message: perr.Message,
		Code:    perr.Code,
		Details: perr.Details,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		w.Header().Set("Content-Type", "application/json")
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	return true
}
