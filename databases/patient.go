package databases

// go generate: mockery --name PatientDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/telehealth-api/models"
)

const patientName = "patients"

// PatientDatabase contains the methods to use with the patient database
type PatientDatabase interface {
	AppointmentStore
	FindByUserID(ctx context.Context, userID string) (*models.Patient, error)
	Find(ctx context.Context, filter interface{}, limit, page int) ([]models.Patient, error)
	UpsertProfile(ctx context.Context, userID string, set bson.M) error
	ClearPrimaryPayment(ctx context.Context, userID string, types []models.PaymentMethodType) error
	SetPrimaryPayment(ctx context.Context, userID string, t models.PaymentMethodType, identifier string) error
	EnsureIndexes(ctx context.Context) error
}

type patientDatabase struct {
	appointmentOwner
}

// NewPatientDatabase initializes a new instance of patient database with the provided db connection
func NewPatientDatabase(db DatabaseHelper) PatientDatabase {
	return &patientDatabase{
		appointmentOwner: appointmentOwner{db: db, name: patientName},
	}
}

func (p *patientDatabase) FindByUserID(ctx context.Context, userID string) (*models.Patient, error) {
	patient := &models.Patient{}
	err := p.db.Collection(patientName).FindOne(ctx, bson.M{models.UserIDField: userID}).Decode(patient)
	if err != nil {
		return nil, translate(err)
	}
	return patient, nil
}

func (p *patientDatabase) Find(ctx context.Context, filter interface{}, limit, page int) ([]models.Patient, error) {
	var patients []models.Patient
	cur, err := p.db.Collection(patientName).Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
	if err != nil {
		return nil, translate(err)
	}
	if err = cur.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// UpsertProfile writes the profile fields in set, creating the record with
// empty collections when it does not exist yet. Collections already on the
// record are left alone unless set names them.
func (p *patientDatabase) UpsertProfile(ctx context.Context, userID string, set bson.M) error {
	now := time.Now().UTC()
	set["updatedAt"] = now
	onInsert := withoutKeys(bson.M{
		"appointments": []models.Appointment{},
		"upload":       []models.Document{},
		"healthRecord": []models.HealthRecord{},
		"payment":      models.Payment{CardMethods: []models.CardMethod{}, MobileBankingMethods: []models.MobileBankingMethod{}},
		"createdAt":    now,
	}, set)

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	_, err := p.db.Collection(patientName).UpdateOne(ctx, bson.M{models.UserIDField: userID}, update, options.Update().SetUpsert(true))
	return translate(err)
}

func (p *patientDatabase) ClearPrimaryPayment(ctx context.Context, userID string, types []models.PaymentMethodType) error {
	if len(types) == 0 {
		return nil
	}
	set := bson.M{}
	for _, t := range types {
		set["payment."+t.ListField()+".$[].isPrimary"] = false
	}
	res, err := p.db.Collection(patientName).UpdateOne(ctx, bson.M{models.UserIDField: userID}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *patientDatabase) SetPrimaryPayment(ctx context.Context, userID string, t models.PaymentMethodType, identifier string) error {
	list := "payment." + t.ListField()
	filter := bson.M{models.UserIDField: userID, list + "." + t.IdentifierField(): identifier}
	update := bson.M{"$set": bson.M{list + ".$[m].isPrimary": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"m." + t.IdentifierField(): identifier}},
	})
	res, err := p.db.Collection(patientName).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *patientDatabase) EnsureIndexes(ctx context.Context) error {
	return p.db.Collection(patientName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: models.UserIDField, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "appointments." + models.DoctorPatientIDField, Value: 1}}},
	})
}

// withoutKeys drops from defaults every key also present in set, since a path
// may not appear in both $set and $setOnInsert
func withoutKeys(defaults, set bson.M) bson.M {
	for k := range set {
		delete(defaults, k)
	}
	return defaults
}
