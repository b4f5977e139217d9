package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/propagation"
)

// Payment exported for testing purposes
type Payment struct {
	Service *propagation.Service
}

// SetPrimaryPaymentHandler makes one stored payment method the patient's only primary
func (p Payment) SetPrimaryPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var in propagation.PrimaryPaymentInput
	if !decode(w, r, &in) {
		return
	}
	in.PatientUserID = mux.Vars(r)["user_id"]

	if err := p.Service.SetPrimaryPayment(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "primary payment method updated"})
}
