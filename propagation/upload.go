package propagation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/notify"
	"github.com/linesmerrill/telehealth-api/storage"
)

// DefaultMaxUploadSize is the per-file limit used when Options leaves it unset
const DefaultMaxUploadSize int64 = 10 << 20

// File categories derived from the MIME type
const (
	CategoryImage       = "image"
	CategoryPDF         = "pdf"
	CategoryDocument    = "document"
	CategorySpreadsheet = "spreadsheet"
	CategoryOther       = "other"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// UploadFile is one file of a batch as received from the client
type UploadFile struct {
	OriginalName string
	DocumentName string
	MimeType     string
	Data         []byte
}

// UploadInput is a batch of files from one uploader. A non-empty
// DoctorPatientID attaches the batch to that appointment.
type UploadInput struct {
	UploaderRole    models.Role
	UploaderID      string
	DoctorPatientID string
	PatientUserID   string
	DoctorUserID    string
	Files           []UploadFile
}

// FileResult is the outcome of one file of the batch
type FileResult struct {
	FileName string `json:"filename"`
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Message  string `json:"message,omitempty"`
}

// UploadResult lists every file outcome and the documents that were recorded
type UploadResult struct {
	Files     []FileResult      `json:"files"`
	Documents []models.Document `json:"documents"`
}

// Category maps a MIME type onto a storage folder
func Category(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case mt == "application/pdf":
		return CategoryPDF
	case mt == "application/msword",
		mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		mt == "application/rtf",
		mt == "text/plain":
		return CategoryDocument
	case mt == "application/vnd.ms-excel",
		mt == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		mt == "text/csv":
		return CategorySpreadsheet
	}
	return CategoryOther
}

// Checksum is the uppercase hex SHA-256 of data
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "file"
	}
	return name
}

// objectPath builds {ownerId}/{category}/{name}_{ms}_{token}{ext}
func (s *Service) objectPath(ownerID, category string, f UploadFile, at time.Time) string {
	base := f.DocumentName
	if base == "" {
		base = f.OriginalName
	}
	token := strings.ReplaceAll(s.newID(), "-", "")
	if len(token) > 8 {
		token = token[:8]
	}
	unique := sanitizeName(base) + "_" + strconv.FormatInt(at.UnixMilli(), 10) + "_" + token +
		strings.ToLower(filepath.Ext(f.OriginalName))
	return ownerID + "/" + category + "/" + unique
}

// uploadParties holds the display fields copied into appointment documents
type uploadParties struct {
	patient *models.Patient
	doctor  *models.Doctor
}

// AttachDocuments stores every file of the batch independently and records
// the successful ones on each aggregate that tracks them.
func (s *Service) AttachDocuments(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := missing([2]string{"uploaderId", in.UploaderID}, [2]string{"uploaderRole", string(in.UploaderRole)}); err != nil {
		return nil, err
	}
	if in.UploaderRole != models.RolePatient && in.UploaderRole != models.RoleDoctor {
		return nil, validationError(CodeInvalidRole, "uploads are accepted from patients and doctors only",
			map[string]string{"uploaderRole": string(in.UploaderRole)})
	}
	if len(in.Files) == 0 {
		return nil, validationError(CodeNoFiles, "no files were provided", nil)
	}

	parties, err := s.resolveUploadParties(ctx, &in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &UploadResult{Files: make([]FileResult, 0, len(in.Files))}
	failures := map[string]string{}
	for _, f := range in.Files {
		doc, err := s.storeFile(ctx, in, parties, f, now)
		name := f.OriginalName
		if err != nil {
			failures[name] = err.Error()
			result.Files = append(result.Files, FileResult{FileName: name, Message: err.Error()})
			continue
		}
		result.Documents = append(result.Documents, doc)
		result.Files = append(result.Files, FileResult{FileName: name, Success: true, URL: doc.URL})
	}
	if len(result.Documents) == 0 {
		return result, &Error{
			Kind:    KindPartialBatch,
			Code:    CodeNoFilesUploaded,
			Message: "none of the files could be uploaded",
			Details: failures,
		}
	}

	g := s.documentSaga(in, parties, result.Documents)
	if err := s.run(ctx, g); err != nil {
		return result, err
	}

	s.notifyDocuments(ctx, in, parties, len(result.Documents))
	return result, nil
}

// resolveUploadParties loads the records the batch will be written to and
// fills the user ids implied by the uploader
func (s *Service) resolveUploadParties(ctx context.Context, in *UploadInput) (uploadParties, error) {
	var p uploadParties
	if in.DoctorPatientID == "" {
		var err error
		if in.UploaderRole == models.RolePatient {
			in.PatientUserID = in.UploaderID
			p.patient, err = s.loadPatient(ctx, in.UploaderID)
		} else {
			in.DoctorUserID = in.UploaderID
			p.doctor, err = s.loadDoctor(ctx, in.UploaderID)
		}
		return p, err
	}

	if in.UploaderRole == models.RolePatient && in.PatientUserID == "" {
		in.PatientUserID = in.UploaderID
	}
	if in.UploaderRole == models.RoleDoctor && in.DoctorUserID == "" {
		in.DoctorUserID = in.UploaderID
	}
	if err := missing([2]string{"userId", in.PatientUserID}, [2]string{"doctorUserId", in.DoctorUserID}); err != nil {
		return p, err
	}
	var err error
	if p.patient, err = s.loadPatient(ctx, in.PatientUserID); err != nil {
		return p, err
	}
	if _, err = locate(p.patient.Appointments, in.DoctorPatientID, targetPatient); err != nil {
		return p, err
	}
	if p.doctor, err = s.loadDoctor(ctx, in.DoctorUserID); err != nil {
		return p, err
	}
	if _, err = locate(p.doctor.Appointments, in.DoctorPatientID, targetDoctor); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Service) storeFile(ctx context.Context, in UploadInput, parties uploadParties, f UploadFile, at time.Time) (models.Document, error) {
	if f.MimeType == "" {
		return models.Document{}, errors.New("mime type is required")
	}
	if len(f.Data) == 0 {
		return models.Document{}, errors.New("file is empty")
	}
	if int64(len(f.Data)) > s.opts.MaxUploadSize {
		return models.Document{}, fmt.Errorf("file exceeds the %d byte limit", s.opts.MaxUploadSize)
	}

	category := Category(f.MimeType)
	checksum := Checksum(f.Data)
	path := s.objectPath(in.UploaderID, category, f, at)

	start := time.Now()
	url, err := s.storage.Upload(ctx, path, f.MimeType, checksum, f.Data)
	if s.recorder != nil {
		s.recorder.RecordStep(ctx, "attach documents", "store file", targetStorage, time.Since(start), err)
	}
	if err != nil {
		zap.S().Warnw("file upload failed", "path", path, "uploaderId", in.UploaderID, "error", err)
		return models.Document{}, fmt.Errorf("storage upload failed: %w", err)
	}

	name := f.DocumentName
	if name == "" {
		name = f.OriginalName
	}
	doc := models.Document{
		DocumentID:      s.newID(),
		DocumentName:    name,
		OriginalName:    f.OriginalName,
		FileName:        path[strings.LastIndex(path, "/")+1:],
		Path:            path,
		URL:             url,
		MimeType:        f.MimeType,
		Category:        category,
		Size:            int64(len(f.Data)),
		Checksum:        checksum,
		UploadedBy:      in.UploaderRole,
		UploaderID:      in.UploaderID,
		DoctorPatientID: in.DoctorPatientID,
		UploadedAt:      at,
	}
	if in.DoctorPatientID != "" {
		doc.PatientUserID = parties.patient.UserID
		doc.PatientName = parties.patient.Name
		doc.PatientAge = parties.patient.Age
		doc.PatientGender = parties.patient.Gender
		doc.DoctorUserID = parties.doctor.UserID
		doc.DoctorName = parties.doctor.Name
		doc.DoctorHospital = parties.doctor.Hospital
	} else if parties.patient != nil {
		doc.OwnerName = parties.patient.Name
	} else if parties.doctor != nil {
		doc.OwnerName = parties.doctor.Name
	}
	return doc, nil
}

// ownDocuments reshapes appointment documents for the uploader's personal
// history: the counterpart's display fields are dropped and the uploader's
// name is kept as the owner.
func ownDocuments(in UploadInput, parties uploadParties, docs []models.Document) []models.Document {
	owner := ""
	switch {
	case in.UploaderRole == models.RolePatient && parties.patient != nil:
		owner = parties.patient.Name
	case in.UploaderRole == models.RoleDoctor && parties.doctor != nil:
		owner = parties.doctor.Name
	}
	out := make([]models.Document, len(docs))
	for i, d := range docs {
		d.PatientUserID = ""
		d.PatientName = ""
		d.PatientAge = 0
		d.PatientGender = ""
		d.DoctorUserID = ""
		d.DoctorName = ""
		d.DoctorHospital = ""
		d.OwnerName = owner
		out[i] = d
	}
	return out
}

func (s *Service) documentSaga(in UploadInput, parties uploadParties, docs []models.Document) *saga {
	g := &saga{op: "attach documents", key: in.DoctorPatientID, userID: in.UploaderID, failCode: CodeDocumentsNotAttached}

	ownSide, ownTarget := databases.PatientDetails, targetPatient
	var ownStore databases.AppointmentStore = s.patients
	if in.UploaderRole == models.RoleDoctor {
		ownSide, ownTarget, ownStore = databases.DoctorDetails, targetDoctor, s.doctors
	}
	owned := ownDocuments(in, parties, docs)
	own := func(ctx context.Context) error { return ownStore.PushUploads(ctx, in.UploaderID, owned) }
	first := func(run func(context.Context) error) func(context.Context) error {
		return func(ctx context.Context) error {
			err := run(ctx)
			if err != nil {
				s.removeObjects(ctx, docs)
			}
			return err
		}
	}

	if in.DoctorPatientID == "" {
		g.add("push uploader uploads", ownTarget, first(own))
		g.add("push admin uploader uploads", targetAdmin, func(ctx context.Context) error {
			return s.admin.PushUploads(ctx, ownSide, in.UploaderID, docs)
		})
		g.add("push admin upload log", targetAdmin, func(ctx context.Context) error {
			return s.admin.PushUploadLog(ctx, docs)
		})
		return g
	}

	dp := in.DoctorPatientID
	g.add("push patient appointment documents", targetPatient, first(func(ctx context.Context) error {
		return s.patients.PushAppointmentDocuments(ctx, in.PatientUserID, dp, docs)
	}))
	g.add("push doctor appointment documents", targetDoctor, func(ctx context.Context) error {
		return s.doctors.PushAppointmentDocuments(ctx, in.DoctorUserID, dp, docs)
	})
	g.add("push admin patient appointment documents", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushAppointmentDocuments(ctx, databases.PatientDetails, in.PatientUserID, dp, docs)
	})
	g.add("push admin doctor appointment documents", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushAppointmentDocuments(ctx, databases.DoctorDetails, in.DoctorUserID, dp, docs)
	})
	g.add("push admin upload log", targetAdmin, func(ctx context.Context) error {
		return s.admin.PushUploadLog(ctx, docs)
	})
	g.add("push uploader uploads", ownTarget, own)
	return g
}

// removeObjects deletes stored files that no record points at
func (s *Service) removeObjects(ctx context.Context, docs []models.Document) {
	ctx = context.WithoutCancel(ctx)
	for _, d := range docs {
		if err := s.storage.Delete(ctx, d.Path); err != nil {
			zap.S().Warnw("failed to remove orphaned object", "path", d.Path, "error", err)
		}
	}
}

func (s *Service) notifyDocuments(ctx context.Context, in UploadInput, parties uploadParties, n int) {
	if in.DoctorPatientID == "" {
		return
	}
	s.notifier.Notify(ctx, notify.Event{
		Type:            notify.DocumentsAttached,
		DoctorPatientID: in.DoctorPatientID,
		Patient:         patientParty(parties.patient),
		Doctor:          doctorParty(parties.doctor),
		Subject:         "New documents on your appointment",
		Lines:           []string{fmt.Sprintf("%d document(s) were added by the %s.", n, in.UploaderRole)},
		At:              s.now(),
	})
}

// Download streams a stored object back through the service
func (s *Service) Download(ctx context.Context, path string) (*storage.Object, error) {
	if strings.TrimSpace(path) == "" {
		return nil, validationError(CodeMissingRequiredField, "path is required", map[string]string{"path": "required"})
	}
	obj, err := s.storage.Download(ctx, path)
	switch {
	case errors.Is(err, storage.ErrObjectNotFound):
		return nil, &Error{Kind: KindNotFound, Code: CodeObjectNotFound, Message: fmt.Sprintf("file %q not found", path), Err: err}
	case err != nil:
		return nil, &Error{Kind: KindUpstreamStorage, Code: CodeStorageUnavailable, Message: "file could not be fetched", Err: err}
	}
	return obj, nil
}
