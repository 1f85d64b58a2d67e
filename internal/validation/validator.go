// =============================================================================
// XML to EDIFACT Converter - Validation Module
// =============================================================================
//
// This module performs optional strict validation of a parsed order before it
// is encoded. The encoder itself never rejects a document; strict validation
// is a deliberate strengthening enabled by configuration.
//
// ERROR KINDS:
//   - MissingRequiredField: a mandatory field is empty
//   - InvalidFieldValue:    a field is present but cannot be correct
//                           (bad GLN/EAN check digit, non-numeric quantity,
//                           malformed date)
//
// Both kinds are distinct from orderxml.ErrMalformedDocument. A document that
// fails validation is quarantined; the rest of the batch continues.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

var (
	// ErrMissingRequiredField matches every error of kind MissingRequiredField.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidFieldValue matches every error of kind InvalidFieldValue.
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// Kind classifies a ValidationError.
type Kind string

const (
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindInvalidFieldValue    Kind = "InvalidFieldValue"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Kind is the error kind.
	Kind Kind

	// Field is the name of the XML element that failed validation.
	Field string

	// Value is the offending value (empty for missing fields).
	Value string

	// Line is the 1-based detail line, or 0 for header fields.
	Line int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := "header"
	if e.Line > 0 {
		where = fmt.Sprintf("line %d", e.Line)
	}
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s, field '%s': %s", e.Kind, where, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')", e.Kind, where, e.Field, e.Message, e.Value)
}

// Unwrap maps the error to its kind sentinel.
func (e *ValidationError) Unwrap() error {
	if e.Kind == KindMissingRequiredField {
		return ErrMissingRequiredField
	}
	return ErrInvalidFieldValue
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Errors is the list of failures found in one document. It is itself an
// error so it can be returned through the pipeline.
type Errors []*ValidationError

func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (errs Errors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Kind returns the kind shared by all failures, preferring
// MissingRequiredField when both are present.
func (errs Errors) Kind() Kind {
	for _, e := range errs {
		if e.Kind == KindMissingRequiredField {
			return KindMissingRequiredField
		}
	}
	return KindInvalidFieldValue
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks orders against the strict rule set.
type Validator struct {
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// CheckDigits enables GS1 check digit verification of GLN and EAN values.
	// Default: true
	CheckDigits bool

	// RequireLines rejects documents without any detail line.
	// Default: false (zero lines is a legal order)
	RequireLines bool
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		CheckDigits:  true,
		RequireLines: false,
	}
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultValidationOptions())
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks doc and returns nil, or an Errors value listing every
// failure.
func (v *Validator) Validate(doc *types.OrderDocument) error {
	if doc == nil {
		return Errors{{Kind: KindMissingRequiredField, Field: "OrderHeader", Message: "document is empty"}}
	}

	var errs Errors
	h := doc.Header

	required := []struct {
		field, value string
	}{
		{"SenderMailboxId", h.SenderMailboxId},
		{"ReceiverMailboxId", h.ReceiverMailboxId},
		{"OrderNumber", h.OrderNumber},
		{"OrderDate", h.OrderDate},
		{"GLNBuyer", h.GLNBuyer},
		{"GLNShipTo", h.GLNShipTo},
		{"GLNSupplier", h.GLNSupplier},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, missing(r.field, 0))
		}
	}

	for _, g := range []struct{ field, value string }{
		{"GLNBuyer", h.GLNBuyer},
		{"GLNShipTo", h.GLNShipTo},
		{"GLNSupplier", h.GLNSupplier},
	} {
		if g.value == "" {
			continue
		}
		if msg := v.validateGLN(g.value); msg != "" {
			errs = append(errs, invalid(g.field, g.value, 0, msg))
		}
	}

	if h.OrderDate != "" {
		if msg := validateDate(h.OrderDate); msg != "" {
			errs = append(errs, invalid("OrderDate", h.OrderDate, 0, msg))
		}
	}
	if h.DeliveryDate != "" {
		if msg := validateDate(h.DeliveryDate); msg != "" {
			errs = append(errs, invalid("DeliveryDate", h.DeliveryDate, 0, msg))
		}
	}

	if v.options.RequireLines && len(doc.Lines) == 0 {
		errs = append(errs, missing("Detail", 0))
	}

	for i, line := range doc.Lines {
		errs = append(errs, v.validateLine(line, i+1)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateLine checks a single detail line.
func (v *Validator) validateLine(line types.OrderLine, n int) Errors {
	var errs Errors

	if strings.TrimSpace(line.ItemEanBarcode) == "" {
		errs = append(errs, missing("ItemEanBarcode", n))
	} else if msg := v.validateEAN(line.ItemEanBarcode); msg != "" {
		errs = append(errs, invalid("ItemEanBarcode", line.ItemEanBarcode, n, msg))
	}

	if strings.TrimSpace(line.ItemOrderedQuantity) == "" {
		errs = append(errs, missing("ItemOrderedQuantity", n))
	} else if _, ok := edifact.ParseQuantity(line.ItemOrderedQuantity); !ok {
		errs = append(errs, invalid("ItemOrderedQuantity", line.ItemOrderedQuantity, n, "not a decimal number of at most 15 integer digits"))
	}

	return errs
}

func missing(field string, line int) *ValidationError {
	return &ValidationError{
		Kind:    KindMissingRequiredField,
		Field:   field,
		Line:    line,
		Message: "required field is empty",
	}
}

func invalid(field, value string, line int, msg string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidFieldValue,
		Field:   field,
		Value:   value,
		Line:    line,
		Message: msg,
	}
}

// =============================================================================
// FIELD RULES
// =============================================================================

// validateGLN requires 13 digits and, when enabled, a valid check digit.
func (v *Validator) validateGLN(value string) string {
	if len(value) != 13 || !isDigits(value) {
		return "GLN must be 13 digits"
	}
	if v.options.CheckDigits && !ValidCheckDigit(value) {
		return "GLN check digit is wrong"
	}
	return ""
}

// validateEAN accepts GTIN-8, GTIN-12, GTIN-13 and GTIN-14.
func (v *Validator) validateEAN(value string) string {
	switch len(value) {
	case 8, 12, 13, 14:
	default:
		return "EAN must have 8, 12, 13 or 14 digits"
	}
	if !isDigits(value) {
		return "EAN must be numeric"
	}
	if v.options.CheckDigits && !ValidCheckDigit(value) {
		return "EAN check digit is wrong"
	}
	return ""
}

// validateDate accepts the YYMMDD and CCYYMMDD forms.
func validateDate(value string) string {
	if (len(value) != 6 && len(value) != 8) || !isDigits(value) {
		return "date must be YYMMDD or CCYYMMDD"
	}
	return ""
}

// ValidCheckDigit verifies the GS1 mod-10 check digit of a numeric key
// (GLN, GTIN). The rightmost digit is the check digit.
func ValidCheckDigit(key string) bool {
	if len(key) < 2 || !isDigits(key) {
		return false
	}

	sum := 0
	body := key[:len(key)-1]
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		// Weights alternate 3,1,3,... starting from the digit next to the
		// check digit.
		if (len(body)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}

	check := (10 - sum%10) % 10
	return check == int(key[len(key)-1]-'0')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
