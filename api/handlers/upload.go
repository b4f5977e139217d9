package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/config"
	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/propagation"
)

// defaultMaxMemory is how much of a multipart body is held in memory before
// the rest spills to temporary files
const defaultMaxMemory = 32 << 20

// Upload exported for testing purposes
type Upload struct {
	Service   *propagation.Service
	MaxMemory int64
}

// UploadResponse reports every file of the batch. Success is true when at
// least one file was stored and recorded.
type UploadResponse struct {
	Message   string                   `json:"message"`
	Success   bool                     `json:"success"`
	Files     []propagation.FileResult `json:"files"`
	Documents []models.Document        `json:"documents"`
}

// UploadHandler stores a multipart batch of files and records them on the
// uploader's record, the appointment copies and the admin mirror.
//
// Form fields: uploaderRole, uploaderId, doctorpatinetId (optional), userId,
// doctorUserId, and one documentName per file in the same order as files.
func (u Upload) UploadHandler(w http.ResponseWriter, r *http.Request) {
	maxMemory := u.MaxMemory
	if maxMemory <= 0 {
		maxMemory = defaultMaxMemory
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := propagation.UploadInput{
		UploaderRole:    models.Role(r.FormValue("uploaderRole")),
		UploaderID:      r.FormValue("uploaderId"),
		DoctorPatientID: r.FormValue("doctorpatinetId"),
		PatientUserID:   r.FormValue("userId"),
		DoctorUserID:    r.FormValue("doctorUserId"),
	}
	names := r.MultipartForm.Value["documentName"]
	for i, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			config.ErrorStatus("failed to open uploaded file", http.StatusBadRequest, w, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			config.ErrorStatus("failed to read uploaded file", http.StatusBadRequest, w, err)
			return
		}
		file := propagation.UploadFile{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Data:         data,
		}
		if i < len(names) {
			file.DocumentName = names[i]
		}
		in.Files = append(in.Files, file)
	}

	res, err := u.Service.AttachDocuments(r.Context(), in)
	if err != nil && !(propagation.KindOf(err) == propagation.KindPartialBatch && res != nil) {
		writeError(w, err)
		return
	}

	resp := UploadResponse{
		Success:   len(res.Documents) > 0,
		Files:     res.Files,
		Documents: res.Documents,
	}
	status := http.StatusOK
	switch {
	case err != nil:
		resp.Message = "no files were uploaded"
		status = http.StatusBadRequest
	case len(res.Documents) < len(res.Files):
		resp.Message = fmt.Sprintf("%d of %d files uploaded", len(res.Documents), len(res.Files))
	default:
		resp.Message = "files uploaded"
	}
	writeJSON(w, status, resp)
}

// FileHandler streams a stored object back to the caller
func (u Upload) FileHandler(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	obj, err := u.Service.Download(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		zap.S().Warnw("failed to stream object", "path", path, "error", err)
	}
}
