package propagation

import (
	"context"
	"fmt"

	"github.com/linesmerrill/telehealth-api/models"
	"github.com/linesmerrill/telehealth-api/notify"
)

// PrimaryPaymentInput selects the patient's primary payment method
type PrimaryPaymentInput struct {
	PatientUserID string `json:"-"`
	MethodType    string `json:"methodType"`
	Identifier    string `json:"identifier"`
}

// SetPrimaryPayment clears the primary flag across both method lists and sets
// it on the one entry whose number matches, on the patient record and on the
// admin copy.
func (s *Service) SetPrimaryPayment(ctx context.Context, in PrimaryPaymentInput) error {
	if err := missing([2]string{"userId", in.PatientUserID}, [2]string{"identifier", in.Identifier}); err != nil {
		return err
	}
	t, ok := models.ParsePaymentMethodType(in.MethodType)
	if !ok {
		return validationError(CodeInvalidMethodType, fmt.Sprintf("methodType %q must be card or mobile-banking", in.MethodType),
			map[string]string{"methodType": in.MethodType})
	}

	patient, err := s.loadPatient(ctx, in.PatientUserID)
	if err != nil {
		return err
	}
	lists := patient.Payment.NonEmpty()
	if !containsType(lists, t) {
		return &Error{
			Kind:    KindNotFound,
			Code:    CodeNoMethodsOfType,
			Message: fmt.Sprintf("patient has no %s payment methods", t),
			Details: map[string]string{"methodType": string(t)},
		}
	}
	if !patient.Payment.Has(t, in.Identifier) {
		return &Error{
			Kind:    KindNotFound,
			Code:    CodePaymentMethodNotFound,
			Message: fmt.Sprintf("no %s payment method matches %q", t, in.Identifier),
			Details: map[string]string{t.IdentifierField(): in.Identifier},
		}
	}

	uid := in.PatientUserID
	g := &saga{op: "set primary payment", userID: uid, failCode: CodePrimaryNotSet}
	g.add("clear patient primary", targetPatient, func(ctx context.Context) error {
		return s.patients.ClearPrimaryPayment(ctx, uid, lists)
	})
	g.add("clear admin primary", targetAdmin, func(ctx context.Context) error {
		return s.admin.ClearPrimaryPayment(ctx, uid, lists)
	})
	g.add("set patient primary", targetPatient, func(ctx context.Context) error {
		return s.patients.SetPrimaryPayment(ctx, uid, t, in.Identifier)
	})
	g.add("set admin primary", targetAdmin, func(ctx context.Context) error {
		return s.admin.SetPrimaryPayment(ctx, uid, t, in.Identifier)
	})
	if err := s.run(ctx, g); err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.Event{
		Type:    notify.PrimaryPaymentChanged,
		Patient: patientParty(patient),
		Subject: "Primary payment method updated",
		Lines:   []string{fmt.Sprintf("Your primary %s method is now %s.", t, mask(in.Identifier))},
		At:      s.now(),
	})
	return nil
}

func containsType(types []models.PaymentMethodType, t models.PaymentMethodType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// mask keeps the last four characters of a card or phone number
func mask(identifier string) string {
	if len(identifier) <= 4 {
		return identifier
	}
	return "****" + identifier[len(identifier)-4:]
}
