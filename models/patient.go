package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient holds the structure for the patients collection in mongo
type Patient struct {
	ID     primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID string             `json:"userId" bson:"userId"`
	Email  string             `json:"email" bson:"email"`

	Name             string `json:"name" bson:"name"`
	Age              int    `json:"age" bson:"age"`
	Gender           string `json:"gender" bson:"gender"`
	Contact          string `json:"contact" bson:"contact"`
	Address          string `json:"address" bson:"address"`
	DateOfBirth      string `json:"dateOfBirth" bson:"dateOfBirth"`
	BloodGroup       string `json:"bloodGroup" bson:"bloodGroup"`
	Height           string `json:"height" bson:"height"`
	Weight           string `json:"weight" bson:"weight"`
	EmergencyContact string `json:"emergencyContact" bson:"emergencyContact"`
	ProfileImage     string `json:"profileImage" bson:"profileImage"`

	Appointments []Appointment  `json:"appointments" bson:"appointments"`
	Payment      Payment        `json:"payment" bson:"payment"`
	Upload       []Document     `json:"upload" bson:"upload"`
	HealthRecord []HealthRecord `json:"healthRecord" bson:"healthRecord"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HealthRecord is a self-reported medical history entry
type HealthRecord struct {
	Condition   string `json:"condition" bson:"condition"`
	Description string `json:"description" bson:"description"`
	DiagnosedOn string `json:"diagnosedOn" bson:"diagnosedOn"`
	Medications string `json:"medications" bson:"medications"`
}
