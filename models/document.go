package models

import "time"

// Document is the metadata of one stored file. Appointment-scoped copies carry
// the display fields of both parties; personal upload history carries only
// the uploader's own fields.
type Document struct {
	DocumentID   string `json:"documentId" bson:"documentId"`
	DocumentName string `json:"documentName" bson:"documentName"`
	OriginalName string `json:"originalName" bson:"originalName"`
	FileName     string `json:"fileName" bson:"fileName"`
	Path         string `json:"path" bson:"path"`
	URL          string `json:"url" bson:"url"`
	MimeType     string `json:"mimeType" bson:"mimeType"`
	Category     string `json:"category" bson:"category"`
	Size         int64  `json:"size" bson:"size"`
	Checksum     string `json:"checksum" bson:"checksum"`

	UploadedBy Role   `json:"uploadedBy" bson:"uploadedBy"`
	UploaderID string `json:"uploaderId" bson:"uploaderId"`

	DoctorPatientID string `json:"doctorpatinetId,omitempty" bson:"doctorpatinetId,omitempty"`

	PatientUserID  string `json:"userId,omitempty" bson:"userId,omitempty"`
	PatientName    string `json:"patientName,omitempty" bson:"patientName,omitempty"`
	PatientAge     int    `json:"patientAge,omitempty" bson:"patientAge,omitempty"`
	PatientGender  string `json:"patientGender,omitempty" bson:"patientGender,omitempty"`
	DoctorUserID   string `json:"doctorUserId,omitempty" bson:"doctorUserId,omitempty"`
	DoctorName     string `json:"doctorName,omitempty" bson:"doctorName,omitempty"`
	DoctorHospital string `json:"doctorHospital,omitempty" bson:"doctorHospital,omitempty"`

	OwnerName string `json:"ownerName,omitempty" bson:"ownerName,omitempty"`

	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
}
