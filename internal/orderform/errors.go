package orderform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedBody reports a request body that is not a JSON order object.
var ErrMalformedBody = errors.New("orderform: malformed order body")

// MissingFieldsError lists required fields that were absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("orderform: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidPriceError reports a price that could not be parsed as a finite decimal.
type InvalidPriceError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidPriceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("orderform: invalid price for %s (%q): %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("orderform: invalid price for %s (%q)", e.Field, e.Value)
}

func (e *InvalidPriceError) Unwrap() error {
	return e.Err
}

// NegativePriceError reports a negative price when negative prices are rejected.
type NegativePriceError struct {
	Field string
	Value string
}

func (e *NegativePriceError) Error() string {
	return fmt.Sprintf("orderform: negative price for %s (%s)", e.Field, e.Value)
}

// FieldOf returns the offending field name carried by a price error, if any.
func FieldOf(err error) (string, bool) {
	var invalid *InvalidPriceError
	if errors.As(err, &invalid) {
		return invalid.Field, true
	}
	var negative *NegativePriceError
	if errors.As(err, &negative) {
		return negative.Field, true
	}
	return "", false
}

// Client-facing rejection texts. Callers of the invoice endpoint match on them verbatim.
const (
	MessageMissingFields = "Missing required fields."
	MessageMalformedBody = "Request body must be a JSON object."
	messageInvalidPrice  = "Invalid price for field %s."
)

// Message maps a Decode error to the text shown to the submitter.
func Message(err error) string {
	var missing *MissingFieldsError
	if errors.As(err, &missing) {
		return MessageMissingFields
	}
	if field, ok := FieldOf(err); ok {
		return fmt.Sprintf(messageInvalidPrice, field)
	}
	return MessageMalformedBody
}
