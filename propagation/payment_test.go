package propagation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/telehealth-api/models"
)

func TestService_SetPrimaryPaymentIsExclusive(t *testing.T) {
	tests := []struct {
		name       string
		methodType string
		identifier string
	}{
		{name: "switch to mobile banking", methodType: "mobile-banking", identifier: "01700000000"},
		{name: "switch to other card", methodType: "card", identifier: "5500"},
		{name: "reselect current card", methodType: "card", identifier: "4111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.seed()

			err := f.svc.SetPrimaryPayment(context.Background(), PrimaryPaymentInput{
				PatientUserID: "P1",
				MethodType:    tt.methodType,
				Identifier:    tt.identifier,
			})
			require.NoError(t, err)

			mt, _ := models.ParsePaymentMethodType(tt.methodType)
			for _, payment := range []models.Payment{f.store.patients["P1"].Payment, f.store.admin.PatientDetails[0].Payment} {
				assert.Equal(t, 1, payment.PrimaryCount())
				assert.True(t, primaryIs(payment, mt, tt.identifier))
			}
			assert.Equal(t, []string{
				"patients.ClearPrimaryPayment",
				"admin.ClearPrimaryPayment",
				"patients.SetPrimaryPayment",
				"admin.SetPrimaryPayment",
			}, f.store.writes())
		})
	}
}

func primaryIs(p models.Payment, t models.PaymentMethodType, identifier string) bool {
	if t == models.PaymentCard {
		for _, c := range p.CardMethods {
			if c.IsPrimary {
				return c.CardNumber == identifier
			}
		}
		return false
	}
	for _, m := range p.MobileBankingMethods {
		if m.IsPrimary {
			return m.MobileNumber == identifier
		}
	}
	return false
}

func TestService_SetPrimaryPaymentRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name     string
		in       PrimaryPaymentInput
		prepare  func(*fixture)
		wantKind Kind
		wantCode string
	}{
		{
			name:     "unknown method type",
			in:       PrimaryPaymentInput{PatientUserID: "P1", MethodType: "cash", Identifier: "1"},
			wantKind: KindValidation,
			wantCode: CodeInvalidMethodType,
		},
		{
			name:     "unknown patient",
			in:       PrimaryPaymentInput{PatientUserID: "P9", MethodType: "card", Identifier: "4111"},
			wantKind: KindNotFound,
			wantCode: CodePatientProfileNotFound,
		},
		{
			name: "empty list",
			in:   PrimaryPaymentInput{PatientUserID: "P1", MethodType: "mobile-banking", Identifier: "017"},
			prepare: func(f *fixture) {
				f.store.patients["P1"].Payment.MobileBankingMethods = nil
			},
			wantKind: KindNotFound,
			wantCode: CodeNoMethodsOfType,
		},
		{
			name:     "identifier typo",
			in:       PrimaryPaymentInput{PatientUserID: "P1", MethodType: "card", Identifier: "4112"},
			wantKind: KindNotFound,
			wantCode: CodePaymentMethodNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.seed()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			err := f.svc.SetPrimaryPayment(context.Background(), tt.in)

			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Equal(t, tt.wantCode, CodeOf(err))
			assert.Empty(t, f.store.writes())
			assert.Equal(t, 1, f.store.patients["P1"].Payment.PrimaryCount())
		})
	}
}

func TestService_SetPrimaryPaymentReportsMidwayFailure(t *testing.T) {
	f := newFixture(Options{})
	f.seed()
	f.store.fail["admin.ClearPrimaryPayment"] = errInjected

	err := f.svc.SetPrimaryPayment(context.Background(), PrimaryPaymentInput{
		PatientUserID: "P1",
		MethodType:    "card",
		Identifier:    "5500",
	})

	assert.Equal(t, KindPersistenceWrite, KindOf(err))
	assert.Equal(t, CodePrimaryNotSet, CodeOf(err))
	require.Len(t, f.reporter.failures, 1)
	assert.Equal(t, "clear admin primary", f.reporter.failures[0].FailedStep)
	assert.Equal(t, "P1", f.reporter.failures[0].UserID)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****1111", mask("4111111111111111"))
	assert.Equal(t, "017", mask("017"))
}
