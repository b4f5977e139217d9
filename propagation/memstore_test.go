package propagation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/events"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/notify"
	"github.com/linesmerrill/telehealth-api/storage"
)

// memStore keeps every aggregate in memory and applies the same element
// semantics as the mongo stores. fail injects an error into a named call.
type memStore struct {
	mu       sync.Mutex
	patients map[string]*models.Patient
	doctors  map[string]*models.Doctor
	accounts map[string]models.Account
	admin    *models.AdminMirror
	objects  map[string][]byte
	fail     map[string]error
	calls    []string
}

func newMemStore() *memStore {
	return &memStore{
		patients: map[string]*models.Patient{},
		doctors:  map[string]*models.Doctor{},
		accounts: map[string]models.Account{},
		admin:    &models.AdminMirror{},
		objects:  map[string][]byte{},
		fail:     map[string]error{},
	}
}

func (m *memStore) enter(call string) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	return m.fail[call]
}

func (m *memStore) writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if !strings.HasSuffix(c, ".FindByUserID") && !strings.HasSuffix(c, ".FindByRegistrationNo") && !strings.HasSuffix(c, ".Download") {
			out = append(out, c)
		}
	}
	return out
}

func clonePatient(p *models.Patient) *models.Patient {
	c := *p
	c.Appointments = append([]models.Appointment(nil), p.Appointments...)
	c.Upload = append([]models.Document(nil), p.Upload...)
	c.Payment.CardMethods = append([]models.CardMethod(nil), p.Payment.CardMethods...)
	c.Payment.MobileBankingMethods = append([]models.MobileBankingMethod(nil), p.Payment.MobileBankingMethods...)
	return &c
}

func cloneDoctor(d *models.Doctor) *models.Doctor {
	c := *d
	c.Appointments = append([]models.Appointment(nil), d.Appointments...)
	c.Prescription = append([]models.Prescription(nil), d.Prescription...)
	c.Upload = append([]models.Document(nil), d.Upload...)
	return &c
}

// merge applies a $set document onto a record through a bson round trip
func merge(dst interface{}, set bson.M) error {
	raw, err := bson.Marshal(set)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, dst)
}

func updateAppt(appts []models.Appointment, dp string, expected int64, fn func(*models.Appointment)) error {
	for i := range appts {
		if appts[i].DoctorPatientID != dp {
			continue
		}
		if expected != databases.AnyVersion && appts[i].Version != expected {
			return databases.ErrVersionConflict
		}
		fn(&appts[i])
		return nil
	}
	return databases.ErrNotFound
}

func applyStatus(a *models.Appointment, change databases.StatusChange) {
	a.Status = change.Status
	if change.CancellationReason != "" {
		a.CancellationReason = change.CancellationReason
	}
	if change.CancelledBy != "" {
		a.CancelledBy = change.CancelledBy
	}
	a.Version++
}

func clearPrimary(p *models.Payment, types []models.PaymentMethodType) {
	for _, t := range types {
		if t == models.PaymentCard {
			for i := range p.CardMethods {
				p.CardMethods[i].IsPrimary = false
			}
			continue
		}
		for i := range p.MobileBankingMethods {
			p.MobileBankingMethods[i].IsPrimary = false
		}
	}
}

func setPrimary(p *models.Payment, t models.PaymentMethodType, id string) error {
	if t == models.PaymentCard {
		for i := range p.CardMethods {
			if p.CardMethods[i].CardNumber == id {
				p.CardMethods[i].IsPrimary = true
				return nil
			}
		}
		return databases.ErrNotFound
	}
	for i := range p.MobileBankingMethods {
		if p.MobileBankingMethods[i].MobileNumber == id {
			p.MobileBankingMethods[i].IsPrimary = true
			return nil
		}
	}
	return databases.ErrNotFound
}

// memPatients implements databases.PatientDatabase
type memPatients struct{ *memStore }

func (m memPatients) FindByUserID(_ context.Context, userID string) (*models.Patient, error) {
	if err := m.enter("patients.FindByUserID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	p, ok := m.patients[userID]
	if !ok {
		return nil, databases.ErrNotFound
	}
	return clonePatient(p), nil
}

func (m memPatients) Find(_ context.Context, _ interface{}, _, _ int) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, *clonePatient(p))
	}
	return out, nil
}

func (m memPatients) UpsertProfile(_ context.Context, userID string, set bson.M) error {
	if err := m.enter("patients.UpsertProfile"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	p, ok := m.patients[userID]
	if !ok {
		p = &models.Patient{UserID: userID, Appointments: []models.Appointment{}, Upload: []models.Document{}}
	}
	if err := merge(p, set); err != nil {
		return err
	}
	m.patients[userID] = p
	return nil
}

func (m memPatients) EnsureIndexes(context.Context) error { return nil }

func (m memPatients) ClearPrimaryPayment(_ context.Context, userID string, types []models.PaymentMethodType) error {
	if err := m.enter("patients.ClearPrimaryPayment"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	p, ok := m.patients[userID]
	if !ok {
		return databases.ErrNotFound
	}
	clearPrimary(&p.Payment, types)
	return nil
}

func (m memPatients) SetPrimaryPayment(_ context.Context, userID string, t models.PaymentMethodType, id string) error {
	if err := m.enter("patients.SetPrimaryPayment"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	p, ok := m.patients[userID]
	if !ok {
		return databases.ErrNotFound
	}
	return setPrimary(&p.Payment, t, id)
}

func (m memPatients) PushAppointment(_ context.Context, userID string, appt models.Appointment) error {
	return m.withAppointments("patients.PushAppointment", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		*appts = append(*appts, appt)
		return nil
	})
}

func (m memPatients) ReplaceAppointment(_ context.Context, userID string, expected int64, appt models.Appointment) error {
	return m.withAppointments("patients.ReplaceAppointment", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return replaceAppt(*appts, expected, appt)
	})
}

func (m memPatients) SetAppointmentStatus(_ context.Context, userID, dp string, expected int64, change databases.StatusChange) error {
	return m.withAppointments("patients.SetAppointmentStatus", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, expected, func(a *models.Appointment) { applyStatus(a, change) })
	})
}

func (m memPatients) SetAppointmentPrescription(_ context.Context, userID, dp string, rx models.Prescription) error {
	return m.withAppointments("patients.SetAppointmentPrescription", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { setRx(a, rx) })
	})
}

func (m memPatients) PushAppointmentDocuments(_ context.Context, userID, dp string, docs []models.Document) error {
	return m.withAppointments("patients.PushAppointmentDocuments", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { pushDocs(a, docs) })
	})
}

func (m memPatients) PushUploads(_ context.Context, userID string, docs []models.Document) error {
	return m.withAppointments("patients.PushUploads", userID, func(_ *[]models.Appointment, uploads *[]models.Document) error {
		*uploads = append(*uploads, docs...)
		return nil
	})
}

func (m memPatients) withAppointments(call, userID string, fn func(*[]models.Appointment, *[]models.Document) error) error {
	if err := m.enter(call); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	p, ok := m.patients[userID]
	if !ok {
		return databases.ErrNotFound
	}
	return fn(&p.Appointments, &p.Upload)
}

func replaceAppt(appts []models.Appointment, expected int64, appt models.Appointment) error {
	return updateAppt(appts, appt.DoctorPatientID, expected, func(a *models.Appointment) {
		if expected != databases.AnyVersion {
			appt.Version = expected + 1
		}
		*a = appt
	})
}

func setRx(a *models.Appointment, rx models.Prescription) {
	a.Prescription = &rx
	a.Version++
}

func pushDocs(a *models.Appointment, docs []models.Document) {
	a.Documents = append(append([]models.Document(nil), a.Documents...), docs...)
	a.Version++
}

// memDoctors implements databases.DoctorDatabase
type memDoctors struct{ *memStore }

func (m memDoctors) FindByUserID(_ context.Context, userID string) (*models.Doctor, error) {
	if err := m.enter("doctors.FindByUserID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	d, ok := m.doctors[userID]
	if !ok {
		return nil, databases.ErrNotFound
	}
	return cloneDoctor(d), nil
}

func (m memDoctors) FindByRegistrationNo(_ context.Context, regNo string) (*models.Doctor, error) {
	if err := m.enter("doctors.FindByRegistrationNo"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if d.RegistrationNo == regNo {
			return cloneDoctor(d), nil
		}
	}
	return nil, databases.ErrNotFound
}

func (m memDoctors) Find(_ context.Context, _ interface{}, _, _ int) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, *cloneDoctor(d))
	}
	return out, nil
}

func (m memDoctors) UpsertProfile(_ context.Context, userID string, set bson.M) error {
	if err := m.enter("doctors.UpsertProfile"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if regNo, ok := set[models.RegistrationNoField].(string); ok {
		for id, other := range m.doctors {
			if id != userID && other.RegistrationNo == regNo {
				return databases.ErrDuplicateKey
			}
		}
	}
	d, ok := m.doctors[userID]
	if !ok {
		d = &models.Doctor{UserID: userID, Appointments: []models.Appointment{}, Prescription: []models.Prescription{}, Upload: []models.Document{}}
	}
	if err := merge(d, set); err != nil {
		return err
	}
	m.doctors[userID] = d
	return nil
}

func (m memDoctors) PushPrescription(_ context.Context, userID string, rx models.Prescription) error {
	if err := m.enter("doctors.PushPrescription"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	d, ok := m.doctors[userID]
	if !ok {
		return databases.ErrNotFound
	}
	d.Prescription = append(d.Prescription, rx)
	return nil
}

func (m memDoctors) EnsureIndexes(context.Context) error { return nil }

func (m memDoctors) PushAppointment(_ context.Context, userID string, appt models.Appointment) error {
	return m.withAppointments("doctors.PushAppointment", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		*appts = append(*appts, appt)
		return nil
	})
}

func (m memDoctors) ReplaceAppointment(_ context.Context, userID string, expected int64, appt models.Appointment) error {
	return m.withAppointments("doctors.ReplaceAppointment", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return replaceAppt(*appts, expected, appt)
	})
}

func (m memDoctors) SetAppointmentStatus(_ context.Context, userID, dp string, expected int64, change databases.StatusChange) error {
	return m.withAppointments("doctors.SetAppointmentStatus", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, expected, func(a *models.Appointment) { applyStatus(a, change) })
	})
}

func (m memDoctors) SetAppointmentPrescription(_ context.Context, userID, dp string, rx models.Prescription) error {
	return m.withAppointments("doctors.SetAppointmentPrescription", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { setRx(a, rx) })
	})
}

func (m memDoctors) PushAppointmentDocuments(_ context.Context, userID, dp string, docs []models.Document) error {
	return m.withAppointments("doctors.PushAppointmentDocuments", userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { pushDocs(a, docs) })
	})
}

func (m memDoctors) PushUploads(_ context.Context, userID string, docs []models.Document) error {
	return m.withAppointments("doctors.PushUploads", userID, func(_ *[]models.Appointment, uploads *[]models.Document) error {
		*uploads = append(*uploads, docs...)
		return nil
	})
}

func (m memDoctors) withAppointments(call, userID string, fn func(*[]models.Appointment, *[]models.Document) error) error {
	if err := m.enter(call); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	d, ok := m.doctors[userID]
	if !ok {
		return databases.ErrNotFound
	}
	return fn(&d.Appointments, &d.Upload)
}

// memAdmin implements databases.AdminDatabase over a single mirror document
type memAdmin struct{ *memStore }

func (m memAdmin) EnsureMirror(context.Context) error { return nil }

func (m memAdmin) Get(context.Context) (*models.AdminMirror, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *m.admin
	return &c, nil
}

func (m memAdmin) Summary(context.Context) (*models.AdminMirrorSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.AdminMirrorSummary{
		Documents:             1,
		PatientDetails:        int64(len(m.admin.PatientDetails)),
		DoctorDetails:         int64(len(m.admin.DoctorDetails)),
		Prescription:          int64(len(m.admin.Prescription)),
		Upload:                int64(len(m.admin.Upload)),
		RescheduleAppointment: int64(len(m.admin.RescheduleAppointment)),
		PatientRegister:       int64(len(m.admin.PatientRegister)),
		DoctorRegister:        int64(len(m.admin.DoctorRegister)),
	}, nil
}

func (m memAdmin) call(name string, fn func(a *models.AdminMirror) error) error {
	if err := m.enter("admin." + name); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	return fn(m.admin)
}

func (m memAdmin) UpsertDetails(_ context.Context, side databases.MirrorSide, userID string, record interface{}) error {
	return m.call("UpsertDetails", func(a *models.AdminMirror) error {
		if side == databases.PatientDetails {
			rec := record.(models.Patient)
			for i := range a.PatientDetails {
				if a.PatientDetails[i].UserID == userID {
					a.PatientDetails[i] = rec
					return nil
				}
			}
			a.PatientDetails = append(a.PatientDetails, rec)
			return nil
		}
		rec := record.(models.Doctor)
		for i := range a.DoctorDetails {
			if a.DoctorDetails[i].UserID == userID {
				a.DoctorDetails[i] = rec
				return nil
			}
		}
		a.DoctorDetails = append(a.DoctorDetails, rec)
		return nil
	})
}

func (m memAdmin) PushDetails(_ context.Context, side databases.MirrorSide, record interface{}) error {
	return m.call("PushDetails", func(a *models.AdminMirror) error {
		if side == databases.PatientDetails {
			a.PatientDetails = append(a.PatientDetails, record.(models.Patient))
		} else {
			a.DoctorDetails = append(a.DoctorDetails, record.(models.Doctor))
		}
		return nil
	})
}

func (m memAdmin) PushRegister(_ context.Context, side databases.MirrorSide, entry models.RegistrationAudit) error {
	return m.call("PushRegister", func(a *models.AdminMirror) error {
		if side == databases.PatientDetails {
			a.PatientRegister = append(a.PatientRegister, entry)
		} else {
			a.DoctorRegister = append(a.DoctorRegister, entry)
		}
		return nil
	})
}

// nested runs fn against the appointments and uploads of one nested copy
func (m memAdmin) nested(name string, side databases.MirrorSide, userID string, fn func(*[]models.Appointment, *[]models.Document) error) error {
	return m.call(name+"."+string(side), func(a *models.AdminMirror) error {
		if side == databases.PatientDetails {
			for i := range a.PatientDetails {
				if a.PatientDetails[i].UserID == userID {
					return fn(&a.PatientDetails[i].Appointments, &a.PatientDetails[i].Upload)
				}
			}
			return databases.ErrNotFound
		}
		for i := range a.DoctorDetails {
			if a.DoctorDetails[i].UserID == userID {
				return fn(&a.DoctorDetails[i].Appointments, &a.DoctorDetails[i].Upload)
			}
		}
		return databases.ErrNotFound
	})
}

func (m memAdmin) PushAppointment(_ context.Context, side databases.MirrorSide, userID string, appt models.Appointment) error {
	return m.nested("PushAppointment", side, userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		*appts = append(*appts, appt)
		return nil
	})
}

func (m memAdmin) ReplaceAppointment(_ context.Context, side databases.MirrorSide, userID string, appt models.Appointment) error {
	return m.nested("ReplaceAppointment", side, userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return replaceAppt(*appts, databases.AnyVersion, appt)
	})
}

func (m memAdmin) SetAppointmentStatus(_ context.Context, side databases.MirrorSide, userID, dp string, change databases.StatusChange) error {
	return m.nested("SetAppointmentStatus", side, userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { applyStatus(a, change) })
	})
}

func (m memAdmin) SetAppointmentPrescription(_ context.Context, side databases.MirrorSide, userID, dp string, rx models.Prescription) error {
	return m.nested("SetAppointmentPrescription", side, userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { setRx(a, rx) })
	})
}

func (m memAdmin) PushAppointmentDocuments(_ context.Context, side databases.MirrorSide, userID, dp string, docs []models.Document) error {
	return m.nested("PushAppointmentDocuments", side, userID, func(appts *[]models.Appointment, _ *[]models.Document) error {
		return updateAppt(*appts, dp, databases.AnyVersion, func(a *models.Appointment) { pushDocs(a, docs) })
	})
}

func (m memAdmin) PushUploads(_ context.Context, side databases.MirrorSide, userID string, docs []models.Document) error {
	return m.nested("PushUploads", side, userID, func(_ *[]models.Appointment, uploads *[]models.Document) error {
		*uploads = append(*uploads, docs...)
		return nil
	})
}

func (m memAdmin) PushDoctorPrescription(_ context.Context, userID string, rx models.Prescription) error {
	return m.call("PushDoctorPrescription", func(a *models.AdminMirror) error {
		for i := range a.DoctorDetails {
			if a.DoctorDetails[i].UserID == userID {
				a.DoctorDetails[i].Prescription = append(a.DoctorDetails[i].Prescription, rx)
				return nil
			}
		}
		return databases.ErrNotFound
	})
}

func (m memAdmin) PushPrescriptionLog(_ context.Context, entry models.AdminPrescription) error {
	return m.call("PushPrescriptionLog", func(a *models.AdminMirror) error {
		a.Prescription = append(a.Prescription, entry)
		return nil
	})
}

func (m memAdmin) PushUploadLog(_ context.Context, docs []models.Document) error {
	return m.call("PushUploadLog", func(a *models.AdminMirror) error {
		a.Upload = append(a.Upload, docs...)
		return nil
	})
}

func (m memAdmin) PushRescheduleLog(_ context.Context, entry models.RescheduleAudit) error {
	return m.call("PushRescheduleLog", func(a *models.AdminMirror) error {
		a.RescheduleAppointment = append(a.RescheduleAppointment, entry)
		return nil
	})
}

func (m memAdmin) ClearPrimaryPayment(_ context.Context, userID string, types []models.PaymentMethodType) error {
	return m.call("ClearPrimaryPayment", func(a *models.AdminMirror) error {
		for i := range a.PatientDetails {
			if a.PatientDetails[i].UserID == userID {
				clearPrimary(&a.PatientDetails[i].Payment, types)
				return nil
			}
		}
		return databases.ErrNotFound
	})
}

func (m memAdmin) SetPrimaryPayment(_ context.Context, userID string, t models.PaymentMethodType, id string) error {
	return m.call("SetPrimaryPayment", func(a *models.AdminMirror) error {
		for i := range a.PatientDetails {
			if a.PatientDetails[i].UserID == userID {
				return setPrimary(&a.PatientDetails[i].Payment, t, id)
			}
		}
		return databases.ErrNotFound
	})
}

// memAccounts implements databases.AccountDatabase
type memAccounts struct{ *memStore }

func (m memAccounts) FindByUserID(_ context.Context, userID string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return nil, databases.ErrNotFound
	}
	return &a, nil
}

func (m memAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, databases.ErrNotFound
}

func (m memAccounts) InsertOne(_ context.Context, a models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.UserID] = a
	return nil
}

// memObjects implements storage.Store
type memObjects struct{ *memStore }

func (m memObjects) Upload(_ context.Context, path, contentType, _ string, data []byte) (string, error) {
	if err := m.enter("storage.Upload"); err != nil {
		m.mu.Unlock()
		return "", err
	}
	defer m.mu.Unlock()
	m.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (m memObjects) Download(_ context.Context, path string) (*storage.Object, error) {
	if err := m.enter("storage.Download"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data))}, nil
}

func (m memObjects) Delete(_ context.Context, path string) error {
	if err := m.enter("storage.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

type recordedStep struct {
	op, step, target string
	failed           bool
}

type fakeRecorder struct {
	mu    sync.Mutex
	steps []recordedStep
}

func (r *fakeRecorder) RecordStep(_ context.Context, op, step, target string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, recordedStep{op: op, step: step, target: target, failed: err != nil})
}

type fakeReporter struct {
	mu       sync.Mutex
	failures []events.PartialFailure
}

func (r *fakeReporter) PublishPartialFailure(_ context.Context, f events.PartialFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *fakeNotifier) Notify(_ context.Context, evt notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
}

var errInjected = errors.New("injected failure")

// fixture is a Service over a memStore with deterministic ids and clock
type fixture struct {
	store    *memStore
	svc      *Service
	recorder *fakeRecorder
	reporter *fakeReporter
	notifier *fakeNotifier
}

var fixedNow = time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)

func newFixture(opts Options) *fixture {
	st := newMemStore()
	f := &fixture{store: st, recorder: &fakeRecorder{}, reporter: &fakeReporter{}, notifier: &fakeNotifier{}}
	f.svc = NewService(Deps{
		Patients: memPatients{st},
		Doctors:  memDoctors{st},
		Admin:    memAdmin{st},
		Accounts: memAccounts{st},
		Storage:  memObjects{st},
		Recorder: f.recorder,
		Reporter: f.reporter,
		Notifier: f.notifier,
	}, opts)
	f.svc.now = func() time.Time { return fixedNow }
	n := 0
	f.svc.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return f
}

// withIDs makes the next minted ids come from the list
func (f *fixture) withIDs(list ...string) {
	next := f.svc.newID
	f.svc.newID = func() string {
		if len(list) > 0 {
			id := list[0]
			list = list[1:]
			return id
		}
		return next()
	}
}

func (f *fixture) resetCalls() {
	f.store.mu.Lock()
	f.store.calls = nil
	f.store.mu.Unlock()
}

// seed stores a patient P1 and a doctor D1 available on Mondays, mirrored to admin
func (f *fixture) seed() {
	st := f.store
	var week models.WeeklySchedule
	for _, d := range models.Weekdays() {
		week[d] = models.DaySchedule{Slots: []models.TimeSlot{models.DefaultSlot()}}
	}
	week[models.Monday] = models.DaySchedule{Enabled: true, Slots: []models.TimeSlot{{StartTime: "10:00", EndTime: "12:00"}}}

	patient := &models.Patient{
		UserID:       "P1",
		Email:        "ada@example.com",
		Name:         "Ada",
		Age:          34,
		Gender:       "female",
		Contact:      "555-0101",
		BloodGroup:   "O+",
		Appointments: []models.Appointment{},
		Upload:       []models.Document{},
		Payment: models.Payment{
			CardMethods: []models.CardMethod{
				{CardNumber: "4111", IsPrimary: true},
				{CardNumber: "5500"},
			},
			MobileBankingMethods: []models.MobileBankingMethod{{Provider: "bkash", MobileNumber: "01700000000"}},
		},
	}
	doctor := &models.Doctor{
		UserID:          "D1",
		Email:           "grey@example.com",
		RegistrationNo:  "REG-1",
		Name:            "Dr Grey",
		Hospital:        "Seattle Grace",
		Contact:         "555-0199",
		Specializations: []string{"surgery"},
		ConsultationFee: 50,
		AvailableSlots:  week,
		Appointments:    []models.Appointment{},
		Prescription:    []models.Prescription{},
		Upload:          []models.Document{},
	}
	st.patients["P1"] = patient
	st.doctors["D1"] = doctor
	st.admin.PatientDetails = append(st.admin.PatientDetails, *clonePatient(patient))
	st.admin.DoctorDetails = append(st.admin.DoctorDetails, *cloneDoctor(doctor))
	st.accounts["P1"] = models.Account{UserID: "P1", Email: "ada@example.com", Role: models.RolePatient}
	st.accounts["D1"] = models.Account{UserID: "D1", Email: "grey@example.com", Role: models.RoleDoctor, RegistrationNo: "REG-1"}
}

// mondayBooking falls inside D1's Monday slot
func mondayBooking() BookInput {
	return BookInput{
		PatientUserID:    "P1",
		DoctorUserID:     "D1",
		AppointmentDate:  "2024-03-11",
		AppointmentTime:  "10:30",
		ConsultationType: "video",
		ReasonForVisit:   "checkup",
		Symptoms:         "none",
	}
}

func (f *fixture) patientAppt(userID, dp string) models.Appointment {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	a, _ := models.FindAppointment(f.store.patients[userID].Appointments, dp)
	return a
}

func (f *fixture) doctorAppt(userID, dp string) models.Appointment {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	a, _ := models.FindAppointment(f.store.doctors[userID].Appointments, dp)
	return a
}

func (f *fixture) adminPatientAppt(userID, dp string) models.Appointment {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, p := range f.store.admin.PatientDetails {
		if p.UserID == userID {
			a, _ := models.FindAppointment(p.Appointments, dp)
			return a
		}
	}
	return models.Appointment{}
}

func (f *fixture) adminDoctorAppt(userID, dp string) models.Appointment {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, d := range f.store.admin.DoctorDetails {
		if d.UserID == userID {
			a, _ := models.FindAppointment(d.Appointments, dp)
			return a
		}
	}
	return models.Appointment{}
}
