package propagation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/events"
	"github.com/linesmerrill/telehealth-api/notify"
	"github.com/linesmerrill/telehealth-api/storage"
)

// Store targets named in step traces and failure reports
const (
	targetPatient = "patient"
	targetDoctor  = "doctor"
	targetAdmin   = "admin"
	targetStorage = "storage"
)

// StepRecorder receives the timing of every executed step
type StepRecorder interface {
	RecordStep(ctx context.Context, op, step, target string, d time.Duration, err error)
}

// FailureReporter is told about mutations that stopped after committing some writes
type FailureReporter interface {
	PublishPartialFailure(ctx context.Context, f events.PartialFailure) error
}

// Options tune protocol behaviour
type Options struct {
	// EnforcePendingTransitions rejects reschedule, cancel and prescription
	// on appointments that are no longer pending
	EnforcePendingTransitions bool
	// EnforceDoctorAvailability rejects bookings outside the doctor's enabled slots
	EnforceDoctorAvailability bool
	// AppendAdminProfiles appends a fresh admin copy on every profile save
	// instead of replacing the existing nested copy
	AppendAdminProfiles bool
	// MaxUploadSize is the per-file byte limit, 10 MiB when zero
	MaxUploadSize int64
}

// Deps are the collaborators of a Service. Recorder, Reporter and Notifier may be nil.
type Deps struct {
	Patients databases.PatientDatabase
	Doctors  databases.DoctorDatabase
	Admin    databases.AdminDatabase
	Accounts databases.AccountDatabase
	Storage  storage.Store
	Recorder StepRecorder
	Reporter FailureReporter
	Notifier notify.Notifier
}

// Service runs every mutation of the propagation protocol
type Service struct {
	patients databases.PatientDatabase
	doctors  databases.DoctorDatabase
	admin    databases.AdminDatabase
	accounts databases.AccountDatabase
	storage  storage.Store
	recorder StepRecorder
	reporter FailureReporter
	notifier notify.Notifier
	opts     Options

	now   func() time.Time
	newID func() string
}

// NewService creates a Service
func NewService(d Deps, opts Options) *Service {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	s := &Service{
		patients: d.Patients,
		doctors:  d.Doctors,
		admin:    d.Admin,
		accounts: d.Accounts,
		storage:  d.Storage,
		recorder: d.Recorder,
		reporter: d.Reporter,
		notifier: d.Notifier,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
	if s.reporter == nil {
		s.reporter = events.Nop{}
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	return s
}

// step is one store call of a mutation
type step struct {
	name   string
	target string
	run    func(ctx context.Context) error
}

// saga is the ordered step list of one mutation. Steps run strictly in order;
// the first failure stops the run and everything already written stays written.
type saga struct {
	op       string
	key      string
	userID   string
	failCode string
	steps    []step
}

func (g *saga) add(name, target string, run func(ctx context.Context) error) {
	g.steps = append(g.steps, step{name: name, target: target, run: run})
}

func (s *Service) run(ctx context.Context, g *saga) error {
	completed := make([]string, 0, len(g.steps))
	for _, st := range g.steps {
		start := time.Now()
		err := st.run(ctx)
		if s.recorder != nil {
			s.recorder.RecordStep(ctx, g.op, st.name, st.target, time.Since(start), err)
		}
		if err == nil {
			completed = append(completed, st.name)
			continue
		}

		zap.S().Errorw("propagation step failed",
			"op", g.op,
			"step", st.name,
			"target", st.target,
			"doctorpatinetId", g.key,
			"userId", g.userID,
			"completed", completed,
			"error", err)
		if len(completed) > 0 {
			s.reportPartial(ctx, g, st, completed, err)
		}
		return stepError(g, st, completed, err)
	}
	return nil
}

func (s *Service) reportPartial(ctx context.Context, g *saga, st step, completed []string, cause error) {
	f := events.PartialFailure{
		Operation:       g.op,
		DoctorPatientID: g.key,
		UserID:          g.userID,
		FailedStep:      st.name,
		Target:          st.target,
		Completed:       append([]string(nil), completed...),
		Error:           cause.Error(),
		At:              s.now(),
	}
	if err := s.reporter.PublishPartialFailure(context.WithoutCancel(ctx), f); err != nil {
		zap.S().Warnw("failed to publish partial failure", "op", g.op, "doctorpatinetId", g.key, "error", err)
	}
}

// stepError keeps domain errors raised inside a step. A store failure on the
// first step maps onto its own kind; once anything was committed the failure
// is reported under the operation's code. The step trail is attached either way.
func stepError(g *saga, st step, completed []string, cause error) error {
	var e *Error
	switch {
	case errors.As(cause, &e):
		e = &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: copyDetails(e.Details), Err: e.Err}
	case len(completed) > 0:
		e = &Error{Kind: KindPersistenceWrite, Code: g.failCode, Message: g.op + " failed at " + st.name, Err: cause}
	case errors.Is(cause, databases.ErrVersionConflict):
		e = &Error{Kind: KindConflict, Code: CodeVersionConflict, Message: "appointment was changed by another request", Err: cause}
	case errors.Is(cause, databases.ErrNotFound):
		e = &Error{Kind: KindNotFound, Code: CodeAppointmentNotFound, Message: "appointment no longer exists", Err: cause}
	case errors.Is(cause, databases.ErrDuplicateKey):
		e = &Error{Kind: KindDuplicateKey, Code: CodeDuplicateRegistration, Message: "a unique field is already in use", Err: cause}
	default:
		e = &Error{Kind: KindPersistenceWrite, Code: g.failCode, Message: g.op + " failed at " + st.name, Err: cause}
	}
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details["failedStep"] = st.name
	if len(completed) > 0 {
		e.Details["completedSteps"] = strings.Join(completed, ",")
	}
	return e
}

func copyDetails(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
