package databases

// go generate: mockery --name DoctorDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/telehealth-api/models"
)

const doctorName = "doctors"

// DoctorDatabase contains the methods to use with the doctor database
type DoctorDatabase interface {
	AppointmentStore
	FindByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	FindByRegistrationNo(ctx context.Context, registrationNo string) (*models.Doctor, error)
	Find(ctx context.Context, filter interface{}, limit, page int) ([]models.Doctor, error)
	UpsertProfile(ctx context.Context, userID string, set bson.M) error
	PushPrescription(ctx context.Context, doctorUserID string, rx models.Prescription) error
	EnsureIndexes(ctx context.Context) error
}

type doctorDatabase struct {
	appointmentOwner
}

// NewDoctorDatabase initializes a new instance of doctor database with the provided db connection
func NewDoctorDatabase(db DatabaseHelper) DoctorDatabase {
	return &doctorDatabase{
		appointmentOwner: appointmentOwner{db: db, name: doctorName},
	}
}

func (d *doctorDatabase) FindByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	return d.findOne(ctx, bson.M{models.UserIDField: userID})
}

func (d *doctorDatabase) FindByRegistrationNo(ctx context.Context, registrationNo string) (*models.Doctor, error) {
	return d.findOne(ctx, bson.M{models.RegistrationNoField: registrationNo})
}

func (d *doctorDatabase) findOne(ctx context.Context, filter bson.M) (*models.Doctor, error) {
	doctor := &models.Doctor{}
	err := d.db.Collection(doctorName).FindOne(ctx, filter).Decode(doctor)
	if err != nil {
		return nil, translate(err)
	}
	return doctor, nil
}

func (d *doctorDatabase) Find(ctx context.Context, filter interface{}, limit, page int) ([]models.Doctor, error) {
	var doctors []models.Doctor
	cur, err := d.db.Collection(doctorName).Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
	if err != nil {
		return nil, translate(err)
	}
	if err = cur.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// UpsertProfile writes the profile fields in set, creating the record with
// empty collections when it does not exist yet
func (d *doctorDatabase) UpsertProfile(ctx context.Context, userID string, set bson.M) error {
	now := time.Now().UTC()
	set["updatedAt"] = now
	onInsert := withoutKeys(bson.M{
		"appointments": []models.Appointment{},
		"prescription": []models.Prescription{},
		"upload":       []models.Document{},
		"createdAt":    now,
	}, set)

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	_, err := d.db.Collection(doctorName).UpdateOne(ctx, bson.M{models.UserIDField: userID}, update, options.Update().SetUpsert(true))
	return translate(err)
}

// PushPrescription appends to the doctor's own prescription history
func (d *doctorDatabase) PushPrescription(ctx context.Context, doctorUserID string, rx models.Prescription) error {
	update := bson.M{
		"$push": bson.M{"prescription": rx},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := d.db.Collection(doctorName).UpdateOne(ctx, bson.M{models.UserIDField: doctorUserID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *doctorDatabase) EnsureIndexes(ctx context.Context) error {
	return d.db.Collection(doctorName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: models.UserIDField, Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: models.RegistrationNoField, Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{models.RegistrationNoField: bson.M{"$type": "string", "$gt": ""}}),
		},
		{Keys: bson.D{{Key: "appointments." + models.DoctorPatientIDField, Value: 1}}},
	})
}
