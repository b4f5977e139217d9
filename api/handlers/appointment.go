package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/telehealth-api/propagation"
)

// Appointment exported for testing purposes
type Appointment struct {
	Service *propagation.Service
}

// BookHandler books an appointment and returns the patient side copy
func (a Appointment) BookHandler(w http.ResponseWriter, r *http.Request) {
	var in propagation.BookInput
	if !decode(w, r, &in) {
		return
	}
	appt, err := a.Service.Book(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AppointmentResponse{Message: "appointment booked", Appointment: appt})
}

// RescheduleHandler changes the date, time or consultation details of an appointment
func (a Appointment) RescheduleHandler(w http.ResponseWriter, r *http.Request) {
	var in propagation.RescheduleInput
	if !decode(w, r, &in) {
		return
	}
	in.DoctorPatientID = mux.Vars(r)["doctorpatinetId"]

	appt, err := a.Service.Reschedule(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AppointmentResponse{Message: "appointment rescheduled", Appointment: appt})
}

// CancelHandler cancels an appointment on every copy
func (a Appointment) CancelHandler(w http.ResponseWriter, r *http.Request) {
	var in propagation.CancelInput
	if !decode(w, r, &in) {
		return
	}
	in.DoctorPatientID = mux.Vars(r)["doctorpatinetId"]

	appt, err := a.Service.Cancel(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AppointmentResponse{Message: "appointment cancelled", Appointment: appt})
}

// PrescriptionHandler attaches a prescription and completes the appointment
func (a Appointment) PrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var in propagation.PrescriptionInput
	if !decode(w, r, &in) {
		return
	}
	in.DoctorPatientID = mux.Vars(r)["doctorpatinetId"]

	rx, err := a.Service.AttachPrescription(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PrescriptionResponse{Message: "prescription attached", Prescription: rx})
}
