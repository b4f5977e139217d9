package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor holds the structure for the doctors collection in mongo
type Doctor struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	Email          string             `json:"email" bson:"email"`
	RegistrationNo string             `json:"registrationNo" bson:"registrationNo"`

	Name            string   `json:"name" bson:"name"`
	Gender          string   `json:"gender" bson:"gender"`
	Contact         string   `json:"contact" bson:"contact"`
	Hospital        string   `json:"hospital" bson:"hospital"`
	Specializations []string `json:"specializations" bson:"specializations"`
	Qualifications  []string `json:"qualifications" bson:"qualifications"`
	Experience      int      `json:"experience" bson:"experience"`
	ConsultationFee float64  `json:"consultationFee" bson:"consultationFee"`
	Bio             string   `json:"bio" bson:"bio"`
	ProfileImage    string   `json:"profileImage" bson:"profileImage"`

	AvailableSlots WeeklySchedule `json:"availableSlots" bson:"availableSlots"`

	Appointments []Appointment  `json:"appointments" bson:"appointments"`
	Prescription []Prescription `json:"prescription" bson:"prescription"`
	Upload       []Document     `json:"upload" bson:"upload"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
