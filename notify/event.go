package notify

import (
	"context"
	"time"
)

// Appointment lifecycle event types
const (
	AppointmentBooked      = "appointment.booked"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentCancelled   = "appointment.cancelled"
	PrescriptionIssued     = "prescription.issued"
	DocumentsAttached      = "documents.attached"
	PrimaryPaymentChanged  = "payment.primary_changed"
)

// Party is one side of an appointment that may be told about it
type Party struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"-"`
}

// Event is raised once a mutation has been applied to every store
type Event struct {
	Type            string    `json:"type"`
	DoctorPatientID string    `json:"doctorpatinetId,omitempty"`
	Patient         Party     `json:"patient"`
	Doctor          Party     `json:"doctor"`
	Subject         string    `json:"subject"`
	Lines           []string  `json:"lines"`
	At              time.Time `json:"at"`
}

// Recipients returns the parties with a user id
func (e Event) Recipients() []Party {
	var out []Party
	for _, p := range []Party{e.Patient, e.Doctor} {
		if p.UserID != "" {
			out = append(out, p)
		}
	}
	return out
}

// Notifier is told about completed mutations. Implementations must not block
// the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, evt Event)
}

// Nop drops every event
type Nop struct{}

// Notify does nothing
func (Nop) Notify(context.Context, Event) {}
