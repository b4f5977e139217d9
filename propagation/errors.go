package propagation

import (
	"errors"
	"fmt"
)

// Kind classifies a propagation failure
type Kind string

// Failure kinds
const (
	KindValidation       Kind = "ValidationError"
	KindNotFound         Kind = "NotFound"
	KindDuplicateKey     Kind = "DuplicateKey"
	KindConflict         Kind = "Conflict"
	KindUpstreamStorage  Kind = "UpstreamStorageError"
	KindPartialBatch     Kind = "PartialBatchFailure"
	KindPersistenceWrite Kind = "PersistenceWriteFailure"
)

// Error codes reported to callers
const (
	CodeMissingRequiredField      = "MissingRequiredField"
	CodeTimeFormatInvalid         = "TimeFormatInvalid"
	CodeInvalidWeekday            = "InvalidWeekday"
	CodeInvalidDate               = "InvalidDate"
	CodeSlotUnavailable           = "SlotUnavailable"
	CodeInvalidMethodType         = "InvalidMethodType"
	CodeInvalidRole               = "InvalidRole"
	CodeNoFiles                   = "NoFiles"
	CodeReferencedAccountNotFound = "ReferencedAccountNotFound"
	CodePatientProfileNotFound    = "PatientProfileNotFound"
	CodeDoctorProfileNotFound     = "DoctorProfileNotFound"
	CodeAppointmentNotFound       = "AppointmentNotFound"
	CodeNoMethodsOfType           = "NoMethodsOfType"
	CodePaymentMethodNotFound     = "PaymentMethodNotFound"
	CodeDuplicateRegistration     = "DuplicateRegistration"
	CodeVersionConflict           = "VersionConflict"
	CodeInvalidTransition         = "InvalidTransition"
	CodeNoFilesUploaded           = "NoFilesUploaded"
	CodeProfileNotSaved           = "ProfileNotSaved"
	CodeAppointmentNotBooked      = "AppointmentNotBooked"
	CodeAppointmentNotRescheduled = "AppointmentNotRescheduled"
	CodeAppointmentNotCancelled   = "AppointmentNotCancelled"
	CodePrescriptionNotCreated    = "PrescriptionNotCreated"
	CodeDocumentsNotAttached      = "DocumentsNotAttached"
	CodePrimaryNotSet             = "PrimaryMethodNotSet"
	CodeMultiplePrimary           = "MultiplePrimaryMethods"
	CodeObjectNotFound            = "ObjectNotFound"
	CodeStorageUnavailable        = "StorageUnavailable"
)

// Error is returned by every Service operation
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func validationError(code, message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

// KindOf returns the Kind of err, or the empty Kind for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of err, or the empty string for foreign errors
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
