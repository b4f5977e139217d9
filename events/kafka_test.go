package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	p, err := NewProducer(" ", "propagation")
	assert.Nil(t, p)
	assert.Error(t, err)
}

func TestProducer_PublishPartialFailure(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "propagation"}

	err := p.PublishPartialFailure(context.Background(), PartialFailure{
		Operation:       "reschedule",
		DoctorPatientID: "DP1",
		FailedStep:      "doctor.replaceAppointment",
		Target:          "doctor",
		Completed:       []string{"patient.replaceAppointment"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "DP1", string(msg.Key))
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, TypePartialFailure, string(msg.Headers[0].Value))

	var env struct {
		Type    string         `json:"type"`
		Payload PartialFailure `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TypePartialFailure, env.Type)
	assert.Equal(t, []string{"patient.replaceAppointment"}, env.Payload.Completed)
}

func TestProducer_PartialFailureKeyFallsBackToUser(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "propagation"}

	require.NoError(t, p.PublishPartialFailure(context.Background(), PartialFailure{Operation: "setPrimaryPayment", UserID: "u1"}))
	assert.Equal(t, "u1", string(w.msgs[0].Key))
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "propagation"}

	err := p.PublishDivergence(context.Background(), Divergence{DoctorPatientID: "DP1"})
	assert.ErrorContains(t, err, "broker down")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "propagation"}

	assert.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.Equal(t, "propagation", p.Topic())
}
