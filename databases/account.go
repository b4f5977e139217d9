package databases

// go generate: mockery --name AccountDatabase

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/telehealth-api/models"
)

const accountName = "accounts"

// AccountDatabase contains the methods to use with the account database
type AccountDatabase interface {
	FindByUserID(ctx context.Context, userID string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	InsertOne(ctx context.Context, account models.Account) error
}

type accountDatabase struct {
	db DatabaseHelper
}

// NewAccountDatabase initializes a new instance of account database with the provided db connection
func NewAccountDatabase(db DatabaseHelper) AccountDatabase {
	return &accountDatabase{
		db: db,
	}
}

func (a *accountDatabase) FindByUserID(ctx context.Context, userID string) (*models.Account, error) {
	return a.findOne(ctx, bson.M{models.UserIDField: userID})
}

func (a *accountDatabase) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return a.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (a *accountDatabase) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	account := &models.Account{}
	err := a.db.Collection(accountName).FindOne(ctx, filter).Decode(account)
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

func (a *accountDatabase) InsertOne(ctx context.Context, account models.Account) error {
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	_, err := a.db.Collection(accountName).InsertOne(ctx, account)
	return translate(err)
}
