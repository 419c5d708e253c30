package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxWorkers = 256
	MinRSSI    = -150.0
	MaxRSSI    = 20.0
)

// ErrInvalidRecord marks an input record that cannot be used
var ErrInvalidRecord = errors.New("invalid record")

func init() {
	validate = validator.New()
}

// Struct validates s using its `validate` struct tags
func Struct(s any) error {
	if s == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateWorkers validates a worker count; 0 means sequential
func ValidateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("workers must not exceed %d, got %d", MaxWorkers, n)
	}
	return nil
}

// ValidateRSSIThreshold validates an RSSI edge threshold in dBm
func ValidateRSSIThreshold(v float64) error {
	if math.IsNaN(v) || v < MinRSSI || v > MaxRSSI {
		return fmt.Errorf("rssi threshold %v is outside [%v, %v] dBm", v, MinRSSI, MaxRSSI)
	}
	return nil
}

// ValidateRecord validates the numeric fields of one trace record
func ValidateRecord(timestamp, rssi float64) error {
	if math.IsNaN(timestamp) || math.IsInf(timestamp, 0) {
		return fmt.Errorf("%w: time %v is not finite", ErrInvalidRecord, timestamp)
	}
	if math.IsNaN(rssi) || math.IsInf(rssi, 0) {
		return fmt.Errorf("%w: rssi %v is not finite", ErrInvalidRecord, rssi)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalidConfig, field)
		case "min", "gte":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalidConfig, field, param)
		case "max", "lte":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalidConfig, field, param)
		case "gt":
			return fmt.Errorf("%w: %s: must be greater than %s", ErrInvalidConfig, field, param)
		case "lt":
			return fmt.Errorf("%w: %s: must be less than %s", ErrInvalidConfig, field, param)
		case "oneof":
			return fmt.Errorf("%w: %s: must be one of [%s]", ErrInvalidConfig, field, param)
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalidConfig, field, tag)
		}
	}

	return err
}
