package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Failure reasons carried by ValidationError.
const (
	ReasonMissingField = "missing_field"
	ReasonEmptyItems   = "empty_items"
)

// ValidationError describes a structural defect in an order candidate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptyItems:
		return "items must be a non-empty list"
	default:
		return fmt.Sprintf("missing required field: %s", e.Field)
	}
}

// requiredFields are checked in this order.
var requiredFields = []string{"order_id", "customer_name", "items"}

// ValidateOrder checks structural well-formedness of an order candidate:
// presence of order_id, customer_name and items, then that items is a
// non-empty list. Pure and deterministic; no side effects.
func ValidateOrder(candidate map[string]any) error {
	for _, field := range requiredFields {
		if _, ok := candidate[field]; !ok {
			return &ValidationError{Field: field, Reason: ReasonMissingField}
		}
	}

	items, ok := candidate["items"].([]any)
	if !ok || len(items) == 0 {
		return &ValidationError{Field: "items", Reason: ReasonEmptyItems}
	}

	if name, _ := candidate["customer_name"].(string); name == "" {
		return &ValidationError{Field: "customer_name", Reason: ReasonMissingField}
	}

	return nil
}

// New returns the validator used for request binding at the HTTP edge.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
