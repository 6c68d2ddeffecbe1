package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Edcode-bot/MiniSente/models"
)

// FieldError reports which form field failed and why.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

var (
	phoneRegex = regexp.MustCompile(`^(256|0)7[0-9]{8}$`)
	digitsOnly = regexp.MustCompile(`[^0-9]`)
)

// Networks supported for airtime and mobile money.
var Networks = []string{"MTN", "AIRTEL"}

// Schools offered in the school-fees form. A free-text school name is also
// accepted as a custom fallback.
var Schools = []string{
	"Makerere University",
	"Kampala International University",
	"Nakawa Vocational Institute",
	"King's College Buddo",
	"St. Mary's College Kisubi",
	"Uganda Christian University",
}

// Bounds holds the UGX amount limits for one service.
type Bounds struct {
	Min float64
	Max float64
}

// AmountBounds are the per-service UGX limits enforced before submission.
// The seed package mirrors these into the payment_limits table.
var AmountBounds = map[string]Bounds{
	models.ServiceAirtime:             {Min: 1000, Max: 500000},
	models.ServiceData:                {Min: 1000, Max: 500000},
	models.ServiceElectricity:         {Min: 5000, Max: 2000000},
	models.ServiceSchoolFees:          {Min: 10000, Max: 10000000},
	models.ServiceMobileMoneyDeposit:  {Min: 1000, Max: 5000000},
	models.ServiceMobileMoneyWithdraw: {Min: 1000, Max: 5000000},
}

/// ValidatePhone checks a Ugandan mobile number: 07XXXXXXXX or the
// international 2567XXXXXXXX form, ignoring spaces and punctuation.
func ValidatePhone(phone string) error {
	cleaned := digitsOnly.ReplaceAllString(phone, "")
	if !phoneRegex.MatchString(cleaned) {
		return &FieldError{Field: "phone", Message: "Invalid phone number format. Use 07XXXXXXXX or 2567XXXXXXXX."}
	}
	return nil
}

// FormatPhone normalizes a valid local number to +256 form. Numbers that are
// not in the local 10-digit form are returned unchanged.
func FormatPhone(phone string) string {
	cleaned := digitsOnly.ReplaceAllString(phone, "")
	if len(cleaned) == 10 && strings.HasPrefix(cleaned, "0") {
		return "+256" + cleaned[1:]
	}
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "256") {
		return "+" + cleaned
	}
	return phone
}

// ValidateAmount checks the UGX amount against the service's bounds.
func ValidateAmount(serviceType string, amount float64) error {
	bounds, ok := AmountBounds[serviceType]
	if !ok {
		return &FieldError{Field: "service_type", Message: fmt.Sprintf("Unknown service type %q.", serviceType)}
	}
	if amount < bounds.Min {
		return &FieldError{Field: "amount", Message: fmt.Sprintf("Amount must be at least UGX %.0f.", bounds.Min)}
	}
	if amount > bounds.Max {
		return &FieldError{Field: "amount", Message: fmt.Sprintf("Amount must not exceed UGX %.0f.", bounds.Max)}
	}
	return nil
}

// ValidateMeter checks a prepaid electricity meter number: 11-13 digits.
func ValidateMeter(meter string) error {
	cleaned := digitsOnly.ReplaceAllString(meter, "")
	if len(cleaned) < 11 || len(cleaned) > 13 {
		return &FieldError{Field: "meter_number", Message: "Meter number must be 11 to 13 digits."}
	}
	return nil
}

// ValidateNetwork checks the carrier selection.
func ValidateNetwork(network string) error {
	for _, n := range Networks {
		if network == n {
			return nil
		}
	}
	return &FieldError{Field: "network", Message: "Network must be MTN or AIRTEL."}
}

// ValidateSchool accepts a known school or any non-empty custom name.
func ValidateSchool(school string) error {
	if strings.TrimSpace(school) == "" {
		return &FieldError{Field: "school", Message: "School name is required."}
	}
	return nil
}
