package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/api"
	"github.com/linesmerrill/telehealth-api/config"
	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/propagation"
)

// Profile exported for testing purposes
type Profile struct {
	Service  *propagation.Service
	Patients databases.PatientDatabase
	Doctors  databases.DoctorDatabase
}

// SavePatientProfileHandler creates or updates a patient profile. Only the
// fields present in the body are written.
func (p Profile) SavePatientProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var in propagation.PatientProfileInput
	if !decode(w, r, &in) {
		return
	}
	patient, err := p.Service.SavePatientProfile(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PatientResponse{Message: "patient profile saved", Patient: patient})
}

// SaveDoctorProfileHandler creates or updates a doctor profile
func (p Profile) SaveDoctorProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var in propagation.DoctorProfileInput
	if !decode(w, r, &in) {
		return
	}
	doctor, err := p.Service.SaveDoctorProfile(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DoctorResponse{Message: "doctor profile saved", Doctor: doctor})
}

// PatientHandler returns a patient record by user id
func (p Profile) PatientHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	zap.S().Debugf("user_id: %v", userID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	patient, err := p.Patients.FindByUserID(ctx, userID)
	if err != nil {
		notFoundOr(w, err, propagation.CodePatientProfileNotFound, "failed to get patient by user id")
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// DoctorHandler returns a doctor record by user id
func (p Profile) DoctorHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	zap.S().Debugf("user_id: %v", userID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	doctor, err := p.Doctors.FindByUserID(ctx, userID)
	if err != nil {
		notFoundOr(w, err, propagation.CodeDoctorProfileNotFound, "failed to get doctor by user id")
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

func notFoundOr(w http.ResponseWriter, err error, code, message string) {
	if errors.Is(err, databases.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Message: message, Code: code})
		return
	}
	config.ErrorStatus(message, http.StatusInternalServerError, w, err)
}
