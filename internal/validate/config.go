// Package validate provides setting validation helpers shared by the CLI and
// the probe options, built on the validator library's built-in tags.
package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange validates that a port number is within the valid range (1-65535).
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// A zero probe timeout would let a single unreachable endpoint hang the run.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidateParallelism validates the reachability fan-out width.
func ValidateParallelism(n int) error {
	if err := ValidateField(n, "min=1,max=256"); err != nil {
		return fmt.Errorf("parallelism must be between 1 and 256, got: %d", n)
	}
	return nil
}

// ValidateStruct validates a struct against its `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
