package scheduler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/events"
	"github.com/linesmerrill/telehealth-api/logging"
	"github.com/linesmerrill/telehealth-api/models"
)

const (
	scanLockName = "mirror_divergence_scan"
	scanLockTTL  = 30 * time.Minute
	scanTimeout  = 20 * time.Minute
	pageSize     = 200
)

// Divergence locations
const (
	LocationPatient      = "patients"
	LocationDoctor       = "doctors"
	LocationAdminPatient = "admin.patientDetails"
	LocationAdminDoctor  = "admin.doctorDetails"
)

// Scheduler runs the periodic mirror divergence scan. The scan only reports;
// it never writes to the patient, doctor or admin collections.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	Patients   databases.PatientDatabase
	Doctors    databases.DoctorDatabase
	Admin      databases.AdminDatabase
	LockDB     databases.SchedulerLockDatabase
	Publisher  events.Publisher
	instanceID string
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance. spec is a standard five field cron expression.
func NewScheduler(
	spec string,
	patients databases.PatientDatabase,
	doctors databases.DoctorDatabase,
	admin databases.AdminDatabase,
	lockDB databases.SchedulerLockDatabase,
	publisher events.Publisher,
) *Scheduler {
	// Heroku sets this to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		spec:       spec,
		Patients:   patients,
		Doctors:    doctors,
		Admin:      admin,
		LockDB:     lockDB,
		Publisher:  publisher,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// Start registers the scan and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runScan); err != nil {
		return fmt.Errorf("register divergence scan %q: %w", s.spec, err)
	}
	s.cron.Start()
	logging.For("scheduler").Infow("divergence scheduler started", "schedule", s.spec, "instance", s.instanceID)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logging.For("scheduler").Info("divergence scheduler stopped")
}

func (s *Scheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, scanLockName, s.instanceID, scanLockTTL)
	if err != nil {
		logging.For("scheduler").Errorw("failed to acquire lock for divergence scan", "error", err)
		return
	}
	if !acquired {
		logging.For("scheduler").Debug("divergence scan already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(context.WithoutCancel(ctx), scanLockName, s.instanceID)

	found, err := s.Scan(ctx)
	if err != nil {
		logging.For("scheduler").Errorw("divergence scan failed", "error", err, "found", len(found))
		return
	}
	logging.For("scheduler").Infow("divergence scan finished", "found", len(found))
}

// Scan compares every appointment with its counterpart on the other side and
// with the nested admin copies. Each disagreement is logged and published.
func (s *Scheduler) Scan(ctx context.Context) ([]events.Divergence, error) {
	doctors, err := s.loadDoctors(ctx)
	if err != nil {
		return nil, err
	}
	mirror, err := s.Admin.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admin mirror: %w", err)
	}
	adminPatients := latestCopies(mirror.PatientDetails, func(p models.Patient) (string, []models.Appointment) {
		return p.UserID, p.Appointments
	})
	adminDoctors := latestCopies(mirror.DoctorDetails, func(d models.Doctor) (string, []models.Appointment) {
		return d.UserID, d.Appointments
	})

	c := &collector{at: s.now().UTC()}
	seen := map[string]bool{}
	for page := 1; ; page++ {
		patients, err := s.Patients.Find(ctx, bson.M{}, pageSize, page)
		if err != nil {
			return c.found, fmt.Errorf("load patients page %d: %w", page, err)
		}
		for _, p := range patients {
			for _, appt := range p.Appointments {
				seen[appt.DoctorPatientID] = true
				c.compareWithDoctor(appt, doctors)
				c.compareCopy(appt, LocationAdminPatient, adminPatients, p.UserID)
				c.compareCopy(appt, LocationAdminDoctor, adminDoctors, appt.DoctorUserID)
			}
		}
		if len(patients) < pageSize {
			break
		}
	}
	for _, appts := range doctors {
		for _, appt := range appts {
			if !seen[appt.DoctorPatientID] {
				c.add(appt, LocationPatient, "appointment", "present", "missing")
			}
		}
	}

	for _, d := range c.found {
		logging.For("scheduler").Warnw("mirror divergence",
			"doctorpatinetId", d.DoctorPatientID,
			"location", d.Location,
			"field", d.Field,
			"expected", d.Expected,
			"actual", d.Actual)
		if err := s.Publisher.PublishDivergence(ctx, d); err != nil {
			logging.For("scheduler").Errorw("failed to publish divergence", "doctorpatinetId", d.DoctorPatientID, "error", err)
		}
	}
	return c.found, nil
}

// loadDoctors indexes every doctor's appointments by doctor user id
func (s *Scheduler) loadDoctors(ctx context.Context) (map[string][]models.Appointment, error) {
	out := map[string][]models.Appointment{}
	for page := 1; ; page++ {
		doctors, err := s.Doctors.Find(ctx, bson.M{}, pageSize, page)
		if err != nil {
			return nil, fmt.Errorf("load doctors page %d: %w", page, err)
		}
		for _, d := range doctors {
			out[d.UserID] = d.Appointments
		}
		if len(doctors) < pageSize {
			return out, nil
		}
	}
}

// latestCopies keeps the last nested copy per user, which is the current one
// when profile updates are appended instead of replaced
func latestCopies[T any](records []T, key func(T) (string, []models.Appointment)) map[string][]models.Appointment {
	out := make(map[string][]models.Appointment, len(records))
	for _, r := range records {
		id, appts := key(r)
		out[id] = appts
	}
	return out
}

type collector struct {
	at    time.Time
	found []events.Divergence
}

func (c *collector) add(appt models.Appointment, location, field, expected, actual string) {
	c.found = append(c.found, events.Divergence{
		DoctorPatientID: appt.DoctorPatientID,
		PatientUserID:   appt.PatientUserID,
		DoctorUserID:    appt.DoctorUserID,
		Location:        location,
		Field:           field,
		Expected:        expected,
		Actual:          actual,
		DetectedAt:      c.at,
	})
}

func (c *collector) compareWithDoctor(appt models.Appointment, doctors map[string][]models.Appointment) {
	other, ok := models.FindAppointment(doctors[appt.DoctorUserID], appt.DoctorPatientID)
	if !ok {
		c.add(appt, LocationDoctor, "appointment", "present", "missing")
		return
	}
	c.compareFields(appt, other, LocationDoctor)
}

func (c *collector) compareCopy(appt models.Appointment, location string, copies map[string][]models.Appointment, owner string) {
	appts, ok := copies[owner]
	if !ok {
		c.add(appt, location, "profile", "present", "missing")
		return
	}
	other, ok := models.FindAppointment(appts, appt.DoctorPatientID)
	if !ok {
		c.add(appt, location, "appointment", "present", "missing")
		return
	}
	c.compareFields(appt, other, location)
}

func (c *collector) compareFields(want, got models.Appointment, location string) {
	pairs := [][3]string{
		{"appointmentDate", want.AppointmentDate, got.AppointmentDate},
		{"appointmentTime", want.AppointmentTime, got.AppointmentTime},
		{"consultationType", want.ConsultationType, got.ConsultationType},
		{"status", string(want.Status), string(got.Status)},
		{"version", strconv.FormatInt(want.Version, 10), strconv.FormatInt(got.Version, 10)},
		{"prescriptionId", prescriptionID(want), prescriptionID(got)},
		{"documents", strconv.Itoa(len(want.Documents)), strconv.Itoa(len(got.Documents))},
	}
	for _, p := range pairs {
		if p[1] != p[2] {
			c.add(want, location, p[0], p[1], p[2])
		}
	}
}

func prescriptionID(a models.Appointment) string {
	if a.Prescription == nil {
		return ""
	}
	return a.Prescription.PrescriptionID
}
