package validation

import (
	"encoding/json"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// UnmarshalAndValidate decodes a raw JSON body into `out` and runs struct
// validation. The handler keeps the raw bytes and maps the error to a 400;
// decoding here instead of gin's binder lets intake reuse the same body for
// the queue payload.
func UnmarshalAndValidate(data []byte, out interface{}, v *validatorv10.Validate) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := v.Struct(out); err != nil {
		if ve, ok := err.(validatorv10.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("validation failed on %s (%s)", fe.StructNamespace(), fe.Tag())
		}
		return err
	}
	return nil
}
