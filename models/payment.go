package models

// PaymentMethodType names one of the two payment method lists
type PaymentMethodType string

// Payment method types accepted by the set-primary operation
const (
	PaymentCard          PaymentMethodType = "card"
	PaymentMobileBanking PaymentMethodType = "mobile-banking"
)

// ParsePaymentMethodType accepts only the two literal method types
func ParsePaymentMethodType(s string) (PaymentMethodType, bool) {
	switch PaymentMethodType(s) {
	case PaymentCard, PaymentMobileBanking:
		return PaymentMethodType(s), true
	}
	return "", false
}

// ListField is the field name of the method list inside the payment object
func (t PaymentMethodType) ListField() string {
	if t == PaymentCard {
		return "cardMethods"
	}
	return "mobileBankingMethods"
}

// IdentifierField is the field that identifies one entry of the list
func (t PaymentMethodType) IdentifierField() string {
	if t == PaymentCard {
		return "cardNumber"
	}
	return "mobileNumber"
}

// CardMethod is a saved card
type CardMethod struct {
	CardNumber     string `json:"cardNumber" bson:"cardNumber"`
	CardHolderName string `json:"cardHolderName" bson:"cardHolderName"`
	ExpiryDate     string `json:"expiryDate" bson:"expiryDate"`
	IsPrimary      bool   `json:"isPrimary" bson:"isPrimary"`
}

// MobileBankingMethod is a saved mobile wallet
type MobileBankingMethod struct {
	Provider     string `json:"provider" bson:"provider"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	AccountName  string `json:"accountName" bson:"accountName"`
	IsPrimary    bool   `json:"isPrimary" bson:"isPrimary"`
}

// Payment holds both method lists of a patient
type Payment struct {
	CardMethods          []CardMethod          `json:"cardMethods" bson:"cardMethods"`
	MobileBankingMethods []MobileBankingMethod `json:"mobileBankingMethods" bson:"mobileBankingMethods"`
}

// NonEmpty returns the method types whose list has at least one entry
func (p Payment) NonEmpty() []PaymentMethodType {
	var out []PaymentMethodType
	if len(p.CardMethods) > 0 {
		out = append(out, PaymentCard)
	}
	if len(p.MobileBankingMethods) > 0 {
		out = append(out, PaymentMobileBanking)
	}
	return out
}

// Has reports whether the list of type t contains identifier
func (p Payment) Has(t PaymentMethodType, identifier string) bool {
	if t == PaymentCard {
		for _, c := range p.CardMethods {
			if c.CardNumber == identifier {
				return true
			}
		}
		return false
	}
	for _, m := range p.MobileBankingMethods {
		if m.MobileNumber == identifier {
			return true
		}
	}
	return false
}

// PrimaryCount counts entries flagged primary across both lists
func (p Payment) PrimaryCount() int {
	n := 0
	for _, c := range p.CardMethods {
		if c.IsPrimary {
			n++
		}
	}
	for _, m := range p.MobileBankingMethods {
		if m.IsPrimary {
			n++
		}
	}
	return n
}
