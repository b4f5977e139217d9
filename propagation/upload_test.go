package propagation

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/telehealth-api/models"
)

func bookDP1(t *testing.T, f *fixture) {
	t.Helper()
	f.withIDs("DP1")
	_, err := f.svc.Book(context.Background(), mondayBooking())
	require.NoError(t, err)
	f.resetCalls()
}

func TestService_AttachDocumentsBatchIndependence(t *testing.T) {
	f := newFixture(Options{MaxUploadSize: 16})
	f.seed()
	bookDP1(t, f)

	res, err := f.svc.AttachDocuments(context.Background(), UploadInput{
		UploaderRole:    models.RoleDoctor,
		UploaderID:      "D1",
		DoctorPatientID: "DP1",
		PatientUserID:   "P1",
		Files: []UploadFile{
			{OriginalName: "scan.PNG", DocumentName: "Chest scan", MimeType: "image/png", Data: []byte("png-bytes")},
			{OriginalName: "notes.txt", Data: []byte("no mime")},
			{OriginalName: "big.pdf", MimeType: "application/pdf", Data: bytes.Repeat([]byte("x"), 17)},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Files, 3)
	assert.True(t, res.Files[0].Success)
	assert.Equal(t, "scan.PNG", res.Files[0].FileName)
	assert.False(t, res.Files[1].Success)
	assert.Contains(t, res.Files[1].Message, "mime type")
	assert.False(t, res.Files[2].Success)
	assert.Contains(t, res.Files[2].Message, "limit")

	require.Len(t, res.Documents, 1)
	doc := res.Documents[0]
	assert.True(t, strings.HasPrefix(doc.Path, "D1/image/Chest_scan_"))
	assert.True(t, strings.HasSuffix(doc.Path, ".png"))
	assert.Equal(t, "https://cdn.test/"+doc.Path, res.Files[0].URL)
	assert.Equal(t, Checksum([]byte("png-bytes")), doc.Checksum)
	assert.Equal(t, "Ada", doc.PatientName)
	assert.Equal(t, "Dr Grey", doc.DoctorName)
	assert.Len(t, f.store.objects, 1)

	assert.Len(t, f.patientAppt("P1", "DP1").Documents, 1)
	assert.Len(t, f.doctorAppt("D1", "DP1").Documents, 1)
	assert.Len(t, f.adminPatientAppt("P1", "DP1").Documents, 1)
	assert.Len(t, f.adminDoctorAppt("D1", "DP1").Documents, 1)
	assert.Len(t, f.store.admin.Upload, 1)
	assert.Empty(t, f.store.patients["P1"].Upload)

	require.Len(t, f.store.doctors["D1"].Upload, 1)
	own := f.store.doctors["D1"].Upload[0]
	assert.Equal(t, doc.DocumentID, own.DocumentID)
	assert.Equal(t, "Dr Grey", own.OwnerName)
	assert.Equal(t, "DP1", own.DoctorPatientID)
	assert.Empty(t, own.PatientUserID)
	assert.Empty(t, own.PatientName)
	assert.Zero(t, own.PatientAge)
	assert.Empty(t, own.DoctorName)
	assert.Equal(t, "Ada", f.doctorAppt("D1", "DP1").Documents[0].PatientName)
	assert.Equal(t, "Ada", f.store.admin.Upload[0].PatientName)

	assert.Equal(t, []string{
		"storage.Upload",
		"patients.PushAppointmentDocuments",
		"doctors.PushAppointmentDocuments",
		"admin.PushAppointmentDocuments.patientDetails",
		"admin.PushAppointmentDocuments.doctorDetails",
		"admin.PushUploadLog",
		"doctors.PushUploads",
	}, f.store.writes())
}

func TestService_AttachDocumentsAllFail(t *testing.T) {
	f := newFixture(Options{})
	f.seed()
	f.store.fail["storage.Upload"] = errInjected

	res, err := f.svc.AttachDocuments(context.Background(), UploadInput{
		UploaderRole: models.RolePatient,
		UploaderID:   "P1",
		Files: []UploadFile{
			{OriginalName: "a.pdf", MimeType: "application/pdf", Data: []byte("a")},
			{OriginalName: "b.pdf", MimeType: "application/pdf", Data: []byte("b")},
		},
	})

	assert.Equal(t, KindPartialBatch, KindOf(err))
	assert.Equal(t, CodeNoFilesUploaded, CodeOf(err))
	require.NotNil(t, res)
	assert.Len(t, res.Files, 2)
	assert.Empty(t, f.store.patients["P1"].Upload)
	assert.Empty(t, f.store.admin.Upload)
}

func TestService_AttachDocumentsStandalone(t *testing.T) {
	f := newFixture(Options{})
	f.seed()

	res, err := f.svc.AttachDocuments(context.Background(), UploadInput{
		UploaderRole: models.RolePatient,
		UploaderID:   "P1",
		Files:        []UploadFile{{OriginalName: "labs.xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: []byte("x")}},
	})
	require.NoError(t, err)

	doc := res.Documents[0]
	assert.Equal(t, CategorySpreadsheet, doc.Category)
	assert.Equal(t, "Ada", doc.OwnerName)
	assert.Empty(t, doc.DoctorPatientID)
	assert.Len(t, f.store.patients["P1"].Upload, 1)
	assert.Len(t, f.store.admin.PatientDetails[0].Upload, 1)
	assert.Len(t, f.store.admin.Upload, 1)
}

func TestService_AttachDocumentsRemovesOrphans(t *testing.T) {
	f := newFixture(Options{})
	f.seed()
	bookDP1(t, f)
	f.store.fail["patients.PushAppointmentDocuments"] = errInjected

	_, err := f.svc.AttachDocuments(context.Background(), UploadInput{
		UploaderRole:    models.RolePatient,
		UploaderID:      "P1",
		DoctorPatientID: "DP1",
		DoctorUserID:    "D1",
		Files:           []UploadFile{{OriginalName: "a.pdf", MimeType: "application/pdf", Data: []byte("a")}},
	})

	assert.Equal(t, CodeDocumentsNotAttached, CodeOf(err))
	assert.Empty(t, f.store.objects)
	assert.Contains(t, f.store.writes(), "storage.Delete")
	assert.Empty(t, f.reporter.failures)
}

func TestService_AttachDocumentsRejections(t *testing.T) {
	tests := []struct {
		name     string
		in       UploadInput
		wantCode string
	}{
		{name: "no files", in: UploadInput{UploaderRole: models.RolePatient, UploaderID: "P1"}, wantCode: CodeNoFiles},
		{name: "admin uploader", in: UploadInput{UploaderRole: models.RoleAdmin, UploaderID: "A1", Files: []UploadFile{{}}}, wantCode: CodeInvalidRole},
		{
			name: "unknown appointment",
			in: UploadInput{
				UploaderRole:    models.RoleDoctor,
				UploaderID:      "D1",
				DoctorPatientID: "DP9",
				PatientUserID:   "P1",
				Files:           []UploadFile{{OriginalName: "a.pdf", MimeType: "application/pdf", Data: []byte("a")}},
			},
			wantCode: CodeAppointmentNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.seed()

			_, err := f.svc.AttachDocuments(context.Background(), tt.in)

			assert.Equal(t, tt.wantCode, CodeOf(err))
			assert.Empty(t, f.store.writes())
		})
	}
}

func TestCategory(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":                CategoryImage,
		"application/pdf":           CategoryPDF,
		"application/msword":        CategoryDocument,
		"text/plain; charset=utf-8": CategoryDocument,
		"text/csv":                  CategorySpreadsheet,
		"application/zip":           CategoryOther,
	}
	for mime, want := range tests {
		assert.Equal(t, want, Category(mime), mime)
	}
}

func TestChecksumIsUppercaseHex(t *testing.T) {
	assert.Equal(t, "E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855", Checksum(nil))
}

func TestService_Download(t *testing.T) {
	f := newFixture(Options{})
	f.store.objects["P1/pdf/a.pdf"] = []byte("a")

	obj, err := f.svc.Download(context.Background(), "P1/pdf/a.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), body)

	_, err = f.svc.Download(context.Background(), "P1/pdf/missing.pdf")
	assert.Equal(t, KindNotFound, KindOf(err))

	f.store.fail["storage.Download"] = errInjected
	_, err = f.svc.Download(context.Background(), "P1/pdf/a.pdf")
	assert.Equal(t, KindUpstreamStorage, KindOf(err))
}
