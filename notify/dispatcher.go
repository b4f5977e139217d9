package notify

import (
	"context"

	"go.uber.org/zap"
)

type emailSender interface {
	Send(to Party, evt Event) error
}

type socketSender interface {
	SendToUser(userID string, evt Event)
}

// Dispatcher pushes every event to the hub and mails it in the background
type Dispatcher struct {
	mailer emailSender
	hub    socketSender
}

// NewDispatcher wires a mailer and a hub. Either may be nil.
func NewDispatcher(mailer *Mailer, hub *Hub) *Dispatcher {
	d := &Dispatcher{}
	if mailer != nil {
		d.mailer = mailer
	}
	if hub != nil {
		d.hub = hub
	}
	return d
}

// Notify delivers evt to every recipient. Delivery failures are logged only.
func (d *Dispatcher) Notify(_ context.Context, evt Event) {
	recipients := evt.Recipients()
	if d.hub != nil {
		for _, p := range recipients {
			d.hub.SendToUser(p.UserID, evt)
		}
	}
	if d.mailer == nil {
		return
	}
	go func() {
		for _, p := range recipients {
			if err := d.mailer.Send(p, evt); err != nil {
				zap.S().Warnw("failed to send notification email",
					"type", evt.Type,
					"userId", p.UserID,
					"doctorpatinetId", evt.DoctorPatientID,
					"error", err)
			}
		}
	}()
}
