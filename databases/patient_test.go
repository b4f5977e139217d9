package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/telehealth-api/config"
	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/databases/mocks"
	"github.com/linesmerrill/telehealth-api/models"
)

func TestNewPatientDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	patientDB := databases.NewPatientDatabase(db)

	assert.NotEmpty(t, patientDB)
}

func TestPatientDatabase_FindByUserID(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	srHelperMissing := mocks.NewSingleResultHelper(t)
	srHelperCorrect := mocks.NewSingleResultHelper(t)

	srHelperMissing.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	srHelperCorrect.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Patient)
		arg.UserID = "u1"
		arg.Name = "Ada"
	})

	collectionHelper.On("FindOne", context.Background(), bson.M{"userId": "missing"}).Return(srHelperMissing)
	collectionHelper.On("FindOne", context.Background(), bson.M{"userId": "u1"}).Return(srHelperCorrect)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	patientDB := databases.NewPatientDatabase(dbHelper)

	patient, err := patientDB.FindByUserID(context.Background(), "missing")
	assert.Nil(t, patient)
	assert.ErrorIs(t, err, databases.ErrNotFound)

	patient, err = patientDB.FindByUserID(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "Ada", patient.Name)
}

func TestPatientDatabase_SetAppointmentStatus(t *testing.T) {
	tests := []struct {
		name      string
		matched   int64
		count     int64
		updateErr error
		wantErr   error
	}{
		{name: "matched", matched: 1},
		{name: "stale version", matched: 0, count: 1, wantErr: databases.ErrVersionConflict},
		{name: "missing element", matched: 0, count: 0, wantErr: databases.ErrNotFound},
		{name: "write error", updateErr: errors.New("mocked-error"), wantErr: errors.New("mocked-error")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbHelper := &mocks.DatabaseHelper{}
			collectionHelper := &mocks.CollectionHelper{}
			dbHelper.On("Collection", "patients").Return(collectionHelper)

			wantFilter := bson.M{
				"userId":       "u1",
				"appointments": bson.M{"$elemMatch": bson.M{"doctorpatinetId": "DP1", "version": int64(3)}},
			}
			var res *mongo.UpdateResult
			if tt.updateErr == nil {
				res = &mongo.UpdateResult{MatchedCount: tt.matched}
			}
			collectionHelper.On("UpdateOne", mock.Anything, wantFilter,
				mock.MatchedBy(func(u bson.M) bool {
					set := u["$set"].(bson.M)
					return set["appointments.$[appt].status"] == models.StatusCancelled &&
						set["appointments.$[appt].cancelledBy"] == models.RoleDoctor
				}),
				mock.MatchedBy(func(o *options.UpdateOptions) bool {
					f := o.ArrayFilters.Filters[0].(bson.M)
					return f["appt.doctorpatinetId"] == "DP1" && f["appt.version"] == int64(3)
				}),
			).Return(res, tt.updateErr)
			collectionHelper.On("CountDocuments", mock.Anything,
				bson.M{"userId": "u1", "appointments.doctorpatinetId": "DP1"}).Return(tt.count, nil).Maybe()

			patientDB := databases.NewPatientDatabase(dbHelper)
			err := patientDB.SetAppointmentStatus(context.Background(), "u1", "DP1", 3, databases.StatusChange{
				Status:      models.StatusCancelled,
				CancelledBy: models.RoleDoctor,
			})

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case tt.updateErr != nil:
				assert.EqualError(t, err, tt.wantErr.Error())
			default:
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPatientDatabase_PushAppointmentDocumentsWithoutVersion(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"userId": "u1", "appointments": bson.M{"$elemMatch": bson.M{"doctorpatinetId": "DP1"}}},
		mock.Anything, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	patientDB := databases.NewPatientDatabase(dbHelper)
	err := patientDB.PushAppointmentDocuments(context.Background(), "u1", "DP1", []models.Document{{FileName: "a.pdf"}})

	assert.ErrorIs(t, err, databases.ErrNotFound)
	collectionHelper.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}

func TestPatientDatabase_UpsertProfile(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	collectionHelper.On("UpdateOne", mock.Anything, bson.M{"userId": "u1"},
		mock.MatchedBy(func(u bson.M) bool {
			onInsert := u["$setOnInsert"].(bson.M)
			_, paymentOnInsert := onInsert["payment"]
			_, apptsOnInsert := onInsert["appointments"]
			return !paymentOnInsert && apptsOnInsert && u["$set"].(bson.M)["name"] == "Ada"
		}),
		mock.MatchedBy(func(o *options.UpdateOptions) bool { return o.Upsert != nil && *o.Upsert }),
	).Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)

	patientDB := databases.NewPatientDatabase(dbHelper)
	err := patientDB.UpsertProfile(context.Background(), "u1", bson.M{"name": "Ada", "payment": models.Payment{}})

	assert.NoError(t, err)
}

func TestPatientDatabase_UpsertProfileDuplicate(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	collectionHelper.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, dup)

	patientDB := databases.NewPatientDatabase(dbHelper)
	err := patientDB.UpsertProfile(context.Background(), "u1", bson.M{"email": "a@b.c"})

	assert.ErrorIs(t, err, databases.ErrDuplicateKey)
}

func TestPatientDatabase_ClearPrimaryPayment(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	collectionHelper.On("UpdateOne", mock.Anything, bson.M{"userId": "u1"}, bson.M{"$set": bson.M{
		"payment.cardMethods.$[].isPrimary":          false,
		"payment.mobileBankingMethods.$[].isPrimary": false,
	}}).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	patientDB := databases.NewPatientDatabase(dbHelper)

	assert.NoError(t, patientDB.ClearPrimaryPayment(context.Background(), "u1", []models.PaymentMethodType{models.PaymentCard, models.PaymentMobileBanking}))
	assert.NoError(t, patientDB.ClearPrimaryPayment(context.Background(), "u1", nil))
	collectionHelper.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestPatientDatabase_SetPrimaryPayment(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	dbHelper.On("Collection", "patients").Return(collectionHelper)

	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"userId": "u1", "payment.mobileBankingMethods.mobileNumber": "017"},
		bson.M{"$set": bson.M{"payment.mobileBankingMethods.$[m].isPrimary": true}},
		mock.MatchedBy(func(o *options.UpdateOptions) bool {
			return o.ArrayFilters.Filters[0].(bson.M)["m.mobileNumber"] == "017"
		}),
	).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"userId": "u1", "payment.mobileBankingMethods.mobileNumber": "999"},
		mock.Anything, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	patientDB := databases.NewPatientDatabase(dbHelper)

	assert.NoError(t, patientDB.SetPrimaryPayment(context.Background(), "u1", models.PaymentMobileBanking, "017"))
	assert.ErrorIs(t, patientDB.SetPrimaryPayment(context.Background(), "u1", models.PaymentMobileBanking, "999"), databases.ErrNotFound)
}
