package databases

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when the keyed document or the nested array element does not exist
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when the element exists but its version moved since it was read
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateKey is returned when a unique index rejects the write
	ErrDuplicateKey = errors.New("duplicate key")
)

// translate maps driver errors onto the package sentinels, keeping the cause
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}
