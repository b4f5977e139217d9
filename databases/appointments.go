package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/telehealth-api/models"
)

// StatusChange is the set of fields written when an appointment changes state
type StatusChange struct {
	Status             models.AppointmentStatus
	CancellationReason string
	CancelledBy        models.Role
}

func (s StatusChange) fields(prefix string) bson.M {
	set := bson.M{prefix + ".status": s.Status}
	if s.CancellationReason != "" {
		set[prefix+".cancellationReason"] = s.CancellationReason
	}
	if s.CancelledBy != "" {
		set[prefix+".cancelledBy"] = s.CancelledBy
	}
	return set
}

// AppointmentStore is implemented by every collection that owns an appointments
// array keyed by the owner's userId. Each call is a single atomic update against
// one element, located with an array filter on the correlation key.
type AppointmentStore interface {
	PushAppointment(ctx context.Context, userID string, appt models.Appointment) error
	ReplaceAppointment(ctx context.Context, userID string, expectedVersion int64, appt models.Appointment) error
	SetAppointmentStatus(ctx context.Context, userID, doctorPatientID string, expectedVersion int64, change StatusChange) error
	SetAppointmentPrescription(ctx context.Context, userID, doctorPatientID string, rx models.Prescription) error
	PushAppointmentDocuments(ctx context.Context, userID, doctorPatientID string, docs []models.Document) error
	PushUploads(ctx context.Context, userID string, docs []models.Document) error
}

// AnyVersion skips the optimistic version check
const AnyVersion int64 = -1

const apptElem = "appointments.$[appt]"

// appointmentOwner implements AppointmentStore for a named collection
type appointmentOwner struct {
	db   DatabaseHelper
	name string
}

func (o appointmentOwner) PushAppointment(ctx context.Context, userID string, appt models.Appointment) error {
	if appt.Documents == nil {
		appt.Documents = []models.Document{}
	}
	update := bson.M{
		"$push": bson.M{"appointments": appt},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := o.db.Collection(o.name).UpdateOne(ctx, bson.M{models.UserIDField: userID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (o appointmentOwner) ReplaceAppointment(ctx context.Context, userID string, expectedVersion int64, appt models.Appointment) error {
	if expectedVersion != AnyVersion {
		appt.Version = expectedVersion + 1
	}
	update := bson.M{"$set": bson.M{apptElem: appt, "updatedAt": time.Now().UTC()}}
	return o.updateElement(ctx, userID, appt.DoctorPatientID, expectedVersion, update)
}

func (o appointmentOwner) SetAppointmentStatus(ctx context.Context, userID, doctorPatientID string, expectedVersion int64, change StatusChange) error {
	set := change.fields(apptElem)
	set[apptElem+".updatedAt"] = time.Now().UTC()
	update := bson.M{"$set": set, "$inc": bson.M{apptElem + ".version": 1}}
	return o.updateElement(ctx, userID, doctorPatientID, expectedVersion, update)
}

func (o appointmentOwner) SetAppointmentPrescription(ctx context.Context, userID, doctorPatientID string, rx models.Prescription) error {
	update := bson.M{
		"$set": bson.M{apptElem + ".prescription": rx, apptElem + ".updatedAt": time.Now().UTC()},
		"$inc": bson.M{apptElem + ".version": 1},
	}
	return o.updateElement(ctx, userID, doctorPatientID, AnyVersion, update)
}

func (o appointmentOwner) PushAppointmentDocuments(ctx context.Context, userID, doctorPatientID string, docs []models.Document) error {
	update := bson.M{
		"$push": bson.M{apptElem + ".documents": bson.M{"$each": docs}},
		"$inc":  bson.M{apptElem + ".version": 1},
	}
	return o.updateElement(ctx, userID, doctorPatientID, AnyVersion, update)
}

func (o appointmentOwner) PushUploads(ctx context.Context, userID string, docs []models.Document) error {
	update := bson.M{
		"$push": bson.M{"upload": bson.M{"$each": docs}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := o.db.Collection(o.name).UpdateOne(ctx, bson.M{models.UserIDField: userID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// updateElement applies update to the single appointment matching
// doctorPatientID. When a version is expected and nothing matched, a count
// tells a stale version apart from a missing element.
func (o appointmentOwner) updateElement(ctx context.Context, userID, doctorPatientID string, expectedVersion int64, update bson.M) error {
	elem := bson.M{"appt." + models.DoctorPatientIDField: doctorPatientID}
	match := bson.M{models.DoctorPatientIDField: doctorPatientID}
	if expectedVersion != AnyVersion {
		elem["appt.version"] = expectedVersion
		match["version"] = expectedVersion
	}
	filter := bson.M{
		models.UserIDField: userID,
		"appointments":     bson.M{"$elemMatch": match},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{elem}})

	res, err := o.db.Collection(o.name).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if expectedVersion == AnyVersion {
		return ErrNotFound
	}
	exists := bson.M{models.UserIDField: userID}
	exists["appointments."+models.DoctorPatientIDField] = doctorPatientID
	n, err := o.db.Collection(o.name).CountDocuments(ctx, exists)
	if err != nil {
		return translate(err)
	}
	if n > 0 {
		return ErrVersionConflict
	}
	return ErrNotFound
}
