package databases

// go generate: mockery --name AdminDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/telehealth-api/models"
)

const adminName = "admins"

// MirrorSide names which nested profile array of the admin mirror is addressed
type MirrorSide string

// Nested profile arrays of the admin mirror
const (
	PatientDetails MirrorSide = "patientDetails"
	DoctorDetails  MirrorSide = "doctorDetails"
)

// RegisterField is the registration audit log paired with the side
func (s MirrorSide) RegisterField() string {
	if s == DoctorDetails {
		return "doctorRegister"
	}
	return "patientRegister"
}

// AdminDatabase is the admin mirror seen as one logical aggregate. Every write
// is applied to all documents of the admin collection so that any of them can
// serve reads; callers never build that fan-out themselves.
type AdminDatabase interface {
	EnsureMirror(ctx context.Context) error
	Get(ctx context.Context) (*models.AdminMirror, error)
	Summary(ctx context.Context) (*models.AdminMirrorSummary, error)

	UpsertDetails(ctx context.Context, side MirrorSide, userID string, record interface{}) error
	PushDetails(ctx context.Context, side MirrorSide, record interface{}) error
	PushRegister(ctx context.Context, side MirrorSide, entry models.RegistrationAudit) error

	PushAppointment(ctx context.Context, side MirrorSide, userID string, appt models.Appointment) error
	ReplaceAppointment(ctx context.Context, side MirrorSide, userID string, appt models.Appointment) error
	SetAppointmentStatus(ctx context.Context, side MirrorSide, userID, doctorPatientID string, change StatusChange) error
	SetAppointmentPrescription(ctx context.Context, side MirrorSide, userID, doctorPatientID string, rx models.Prescription) error
	PushAppointmentDocuments(ctx context.Context, side MirrorSide, userID, doctorPatientID string, docs []models.Document) error
	PushUploads(ctx context.Context, side MirrorSide, userID string, docs []models.Document) error
	PushDoctorPrescription(ctx context.Context, doctorUserID string, rx models.Prescription) error

	PushPrescriptionLog(ctx context.Context, entry models.AdminPrescription) error
	PushUploadLog(ctx context.Context, docs []models.Document) error
	PushRescheduleLog(ctx context.Context, entry models.RescheduleAudit) error

	ClearPrimaryPayment(ctx context.Context, userID string, types []models.PaymentMethodType) error
	SetPrimaryPayment(ctx context.Context, userID string, t models.PaymentMethodType, identifier string) error
}

type adminDatabase struct {
	db DatabaseHelper
}

// NewAdminDatabase initializes a new instance of the admin mirror with the provided db connection
func NewAdminDatabase(db DatabaseHelper) AdminDatabase {
	return &adminDatabase{db: db}
}

// EnsureMirror creates the first admin document when the collection is empty
func (a *adminDatabase) EnsureMirror(ctx context.Context) error {
	n, err := a.db.Collection(adminName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return translate(err)
	}
	if n > 0 {
		return nil
	}
	_, err = a.db.Collection(adminName).InsertOne(ctx, models.AdminMirror{
		PatientDetails:        []models.Patient{},
		DoctorDetails:         []models.Doctor{},
		Prescription:          []models.AdminPrescription{},
		Upload:                []models.Document{},
		RescheduleAppointment: []models.RescheduleAudit{},
		PatientRegister:       []models.RegistrationAudit{},
		DoctorRegister:        []models.RegistrationAudit{},
	})
	return translate(err)
}

func (a *adminDatabase) Get(ctx context.Context) (*models.AdminMirror, error) {
	mirror := &models.AdminMirror{}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := a.db.Collection(adminName).FindOne(ctx, bson.M{}, opts).Decode(mirror); err != nil {
		return nil, translate(err)
	}
	return mirror, nil
}

// Summary reports the size of every admin array, taken from the oldest admin document
func (a *adminDatabase) Summary(ctx context.Context) (*models.AdminMirrorSummary, error) {
	size := func(field string) bson.M {
		return bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "documents", Value: bson.M{"$sum": 1}},
			{Key: "first", Value: bson.M{"$first": "$$ROOT"}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":                   0,
			"documents":             1,
			"patientDetails":        size("first.patientDetails"),
			"doctorDetails":         size("first.doctorDetails"),
			"prescription":          size("first.prescription"),
			"upload":                size("first.upload"),
			"rescheduleAppointment": size("first.rescheduleAppointment"),
			"patientRegister":       size("first.patientRegister"),
			"doctorRegister":        size("first.doctorRegister"),
		}}},
	}
	cur, err := a.db.Collection(adminName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err)
	}
	var out []models.AdminMirrorSummary
	if err = cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &models.AdminMirrorSummary{}, nil
	}
	return &out[0], nil
}

// UpsertDetails replaces every nested copy of the profile, appending one only
// when no copy exists yet
func (a *adminDatabase) UpsertDetails(ctx context.Context, side MirrorSide, userID string, record interface{}) error {
	field := string(side)
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"p." + models.UserIDField: userID}},
	})
	matched, err := a.updateAll(ctx,
		bson.M{field + "." + models.UserIDField: userID},
		bson.M{"$set": bson.M{field + ".$[p]": record}},
		opts)
	if err != nil {
		return err
	}
	if matched > 0 {
		return nil
	}
	matched, err = a.updateAll(ctx,
		bson.M{field + "." + models.UserIDField: bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{field: record}})
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *adminDatabase) PushDetails(ctx context.Context, side MirrorSide, record interface{}) error {
	return a.pushAll(ctx, bson.M{"$push": bson.M{string(side): record}})
}

func (a *adminDatabase) PushRegister(ctx context.Context, side MirrorSide, entry models.RegistrationAudit) error {
	return a.pushAll(ctx, bson.M{"$push": bson.M{side.RegisterField(): entry}})
}

func (a *adminDatabase) PushAppointment(ctx context.Context, side MirrorSide, userID string, appt models.Appointment) error {
	if appt.Documents == nil {
		appt.Documents = []models.Document{}
	}
	return a.updateProfile(ctx, side, userID, bson.M{"$push": bson.M{string(side) + ".$[p].appointments": appt}})
}

func (a *adminDatabase) ReplaceAppointment(ctx context.Context, side MirrorSide, userID string, appt models.Appointment) error {
	return a.updateNestedAppointment(ctx, side, userID, appt.DoctorPatientID, func(path string) bson.M {
		return bson.M{"$set": bson.M{path: appt}}
	})
}

func (a *adminDatabase) SetAppointmentStatus(ctx context.Context, side MirrorSide, userID, doctorPatientID string, change StatusChange) error {
	return a.updateNestedAppointment(ctx, side, userID, doctorPatientID, func(path string) bson.M {
		return bson.M{"$set": change.fields(path), "$inc": bson.M{path + ".version": 1}}
	})
}

func (a *adminDatabase) SetAppointmentPrescription(ctx context.Context, side MirrorSide, userID, doctorPatientID string, rx models.Prescription) error {
	return a.updateNestedAppointment(ctx, side, userID, doctorPatientID, func(path string) bson.M {
		return bson.M{"$set": bson.M{path + ".prescription": rx}, "$inc": bson.M{path + ".version": 1}}
	})
}

func (a *adminDatabase) PushAppointmentDocuments(ctx context.Context, side MirrorSide, userID, doctorPatientID string, docs []models.Document) error {
	return a.updateNestedAppointment(ctx, side, userID, doctorPatientID, func(path string) bson.M {
		return bson.M{"$push": bson.M{path + ".documents": bson.M{"$each": docs}}, "$inc": bson.M{path + ".version": 1}}
	})
}

func (a *adminDatabase) PushUploads(ctx context.Context, side MirrorSide, userID string, docs []models.Document) error {
	return a.updateProfile(ctx, side, userID, bson.M{"$push": bson.M{string(side) + ".$[p].upload": bson.M{"$each": docs}}})
}

// PushDoctorPrescription appends to the nested doctor's prescription history
func (a *adminDatabase) PushDoctorPrescription(ctx context.Context, doctorUserID string, rx models.Prescription) error {
	return a.updateProfile(ctx, DoctorDetails, doctorUserID, bson.M{"$push": bson.M{string(DoctorDetails) + ".$[p].prescription": rx}})
}

func (a *adminDatabase) PushPrescriptionLog(ctx context.Context, entry models.AdminPrescription) error {
	return a.pushAll(ctx, bson.M{"$push": bson.M{"prescription": entry}})
}

func (a *adminDatabase) PushUploadLog(ctx context.Context, docs []models.Document) error {
	return a.pushAll(ctx, bson.M{"$push": bson.M{"upload": bson.M{"$each": docs}}})
}

func (a *adminDatabase) PushRescheduleLog(ctx context.Context, entry models.RescheduleAudit) error {
	return a.pushAll(ctx, bson.M{"$push": bson.M{"rescheduleAppointment": entry}})
}

func (a *adminDatabase) ClearPrimaryPayment(ctx context.Context, userID string, types []models.PaymentMethodType) error {
	if len(types) == 0 {
		return nil
	}
	set := bson.M{}
	for _, t := range types {
		set[string(PatientDetails)+".$[p].payment."+t.ListField()+".$[].isPrimary"] = false
	}
	return a.updateProfile(ctx, PatientDetails, userID, bson.M{"$set": set})
}

func (a *adminDatabase) SetPrimaryPayment(ctx context.Context, userID string, t models.PaymentMethodType, identifier string) error {
	list := "payment." + t.ListField()
	match := bson.M{models.UserIDField: userID}
	match[list+"."+t.IdentifierField()] = identifier
	filter := bson.M{string(PatientDetails): bson.M{"$elemMatch": match}}
	update := bson.M{"$set": bson.M{string(PatientDetails) + ".$[p]." + list + ".$[m].isPrimary": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"p." + models.UserIDField: userID},
		bson.M{"m." + t.IdentifierField(): identifier},
	}})
	matched, err := a.updateAll(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// updateProfile applies update to every nested copy of one profile
func (a *adminDatabase) updateProfile(ctx context.Context, side MirrorSide, userID string, update bson.M) error {
	field := string(side)
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"p." + models.UserIDField: userID}},
	})
	matched, err := a.updateAll(ctx, bson.M{field + "." + models.UserIDField: userID}, update, opts)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// updateNestedAppointment applies the update built for the nested appointment
// path to the matching appointment of every nested copy of the profile
func (a *adminDatabase) updateNestedAppointment(ctx context.Context, side MirrorSide, userID, doctorPatientID string, build func(path string) bson.M) error {
	field := string(side)
	match := bson.M{models.UserIDField: userID}
	match["appointments."+models.DoctorPatientIDField] = doctorPatientID
	filter := bson.M{field: bson.M{"$elemMatch": match}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"p." + models.UserIDField: userID},
		bson.M{"a." + models.DoctorPatientIDField: doctorPatientID},
	}})
	matched, err := a.updateAll(ctx, filter, build(field+".$[p].appointments.$[a]"), opts)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// pushAll appends to a top-level admin log on every admin document
func (a *adminDatabase) pushAll(ctx context.Context, update bson.M) error {
	matched, err := a.updateAll(ctx, bson.M{}, update)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *adminDatabase) updateAll(ctx context.Context, filter bson.M, update bson.M, opts ...*options.UpdateOptions) (int64, error) {
	res, err := a.db.Collection(adminName).UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return 0, translate(err)
	}
	return res.MatchedCount, nil
}
