// Package payment holds the pure validation rules for the supported payment
// methods. Checks run in a fixed priority order and the first failure wins,
// so a submission surfaces exactly one message.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
)

var (
	upiPattern    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]+$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern    = regexp.MustCompile(`^\d{3}$`)
)

// Details carries the method-specific fields collected by the payment form.
type Details struct {
	Method        enums.PaymentMethod `json:"method"`
	UPIID         string              `json:"upi_id,omitempty"`
	CardNumber    string              `json:"card_number,omitempty"`
	CardName      string              `json:"card_name,omitempty"`
	CardExpiry    string              `json:"card_expiry,omitempty"`
	CardCVC       string              `json:"card_cvc,omitempty"`
	Bank          string              `json:"bank,omitempty"`
	AccountNumber string              `json:"account_number,omitempty"`
	IFSCCode      string              `json:"ifsc_code,omitempty"`
}

// Validate applies the method's rules against the provided clock. Required
// fields are checked before formats. Cash on delivery has no fields.
func Validate(details Details, now time.Time) error {
	switch details.Method {
	case enums.PaymentMethodUPI:
		if strings.TrimSpace(details.UPIID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please enter your UPI ID")
		}
		if !ValidUPI(details.UPIID) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid UPI ID format. Use format: yourname@bankname")
		}
	case enums.PaymentMethodCard:
		if strings.TrimSpace(details.CardNumber) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please enter your card number")
		}
		if !ValidCardNumber(details.CardNumber) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid card number. Please check and try again")
		}
		if strings.TrimSpace(details.CardName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please enter cardholder name")
		}
		if !ValidExpiry(details.CardExpiry, now) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid expiry date. Use MM/YY format")
		}
		if !cvcPattern.MatchString(strings.TrimSpace(details.CardCVC)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid CVC. Must be 3 digits")
		}
	case enums.PaymentMethodNetBanking:
		if strings.TrimSpace(details.Bank) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please select a bank")
		}
		if strings.TrimSpace(details.AccountNumber) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please enter your account number")
		}
		if strings.TrimSpace(details.IFSCCode) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please enter IFSC code")
		}
	case enums.PaymentMethodCOD:
		// Nothing to collect.
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "Please select a payment method")
	}
	return nil
}

// ValidUPI reports whether the identifier matches localpart@bankname, where
// the local part allows dots, underscores and hyphens and the bank part is
// alphabetic only.
func ValidUPI(upiID string) bool {
	return upiPattern.MatchString(upiID)
}

// ValidCardNumber strips spaces, requires exactly 16 digits and runs the
// Luhn mod-10 checksum.
func ValidCardNumber(cardNumber string) bool {
	cleaned := strings.ReplaceAll(cardNumber, " ", "")
	if !cardPattern.MatchString(cleaned) {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry accepts MM/YY with a month in 01-12 that is not strictly
// before the current month of the provided clock.
func ValidExpiry(expiry string, now time.Time) bool {
	if !expiryPattern.MatchString(expiry) {
		return false
	}

	parts := strings.SplitN(expiry, "/", 2)
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear {
		return false
	}
	if year == currentYear && month < currentMonth {
		return false
	}
	return true
}
