package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Account is the login identity behind a patient or doctor profile
type Account struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"`
	Role           Role               `json:"role" bson:"role"`
	RegistrationNo string             `json:"registrationNo,omitempty" bson:"registrationNo,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// ComparePassword checks candidate against the stored bcrypt hash
func (a Account) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(candidate)) == nil
}
