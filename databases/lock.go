package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lockName = "schedulerLocks"

// SchedulerLockDatabase hands out named leases so that a periodic job runs on
// one instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

type schedulerLockDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewSchedulerLockDatabase initializes a new instance of the lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{db: db, now: time.Now}
}

// TryAcquireLock takes the lease when it is free, expired, or already held by
// owner. A concurrent holder surfaces as a duplicate _id on the upsert.
func (l *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := l.now().UTC()
	filter := bson.M{
		"_id": name,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$lt": now}},
			bson.M{"owner": owner},
		},
	}
	update := bson.M{"$set": bson.M{"owner": owner, "expiresAt": now.Add(ttl), "acquiredAt": now}}
	_, err := l.db.Collection(lockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if errors.Is(translate(err), ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, owner string) error {
	_, err := l.db.Collection(lockName).UpdateOne(ctx,
		bson.M{"_id": name, "owner": owner},
		bson.M{"$set": bson.M{"expiresAt": l.now().UTC()}})
	return translate(err)
}
