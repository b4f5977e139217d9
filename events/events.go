package events

import (
	"context"
	"time"
)

// Event types carried in the message envelope
const (
	TypePartialFailure = "propagation.partial_failure"
	TypeDivergence     = "propagation.divergence"
)

// PartialFailure describes a mutation that stopped after some store writes
// were already committed. It is the hand-off to the external recovery process.
type PartialFailure struct {
	Operation       string    `json:"operation"`
	DoctorPatientID string    `json:"doctorpatinetId,omitempty"`
	UserID          string    `json:"userId,omitempty"`
	FailedStep      string    `json:"failedStep"`
	Target          string    `json:"target"`
	Completed       []string  `json:"completed"`
	Error           string    `json:"error"`
	At              time.Time `json:"at"`
}

// Divergence is one disagreement found between copies of the same appointment
type Divergence struct {
	DoctorPatientID string    `json:"doctorpatinetId"`
	PatientUserID   string    `json:"userId"`
	DoctorUserID    string    `json:"doctorUserId"`
	Location        string    `json:"location"`
	Field           string    `json:"field"`
	Expected        string    `json:"expected"`
	Actual          string    `json:"actual"`
	DetectedAt      time.Time `json:"detectedAt"`
}

// Envelope is the message value written to the topic
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Publisher hands propagation events to the recovery side
type Publisher interface {
	PublishPartialFailure(ctx context.Context, f PartialFailure) error
	PublishDivergence(ctx context.Context, d Divergence) error
	Close() error
}

// Nop discards every event
type Nop struct{}

// PublishPartialFailure does nothing
func (Nop) PublishPartialFailure(context.Context, PartialFailure) error { return nil }

// PublishDivergence does nothing
func (Nop) PublishDivergence(context.Context, Divergence) error { return nil }

// Close does nothing
func (Nop) Close() error { return nil }
