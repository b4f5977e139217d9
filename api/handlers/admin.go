package handlers

import (
	"net/http"

	"github.com/linesmerrill/telehealth-api/api"
	"github.com/linesmerrill/telehealth-api/databases"
)

const codeAdminMirrorNotFound = "AdminMirrorNotFound"

// Admin exported for testing purposes
type Admin struct {
	DB databases.AdminDatabase
}

// MirrorSummaryHandler returns the size of every admin mirror array
func (a Admin) MirrorSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	summary, err := a.DB.Summary(ctx)
	if err != nil {
		notFoundOr(w, err, codeAdminMirrorNotFound, "failed to get admin mirror summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
