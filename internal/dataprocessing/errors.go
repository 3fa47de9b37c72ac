package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrSchema is matched by every error the pipeline returns.
var ErrSchema = errors.New("journal schema error")

// MissingColumnsMessage is reported when the export has no date or PnL column.
const MissingColumnsMessage = "CSV must contain at least 'Date' & 'Profit/PnL' columns."

// SchemaError reports an export that cannot be turned into trade records.
type SchemaError struct {
	Message string
	Cause   error
}

func newSchemaError(message string, cause error) *SchemaError {
	return &SchemaError{Message: message, Cause: cause}
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Error processing CSV: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("Error processing CSV: %s", e.Message)
}

// Unwrap exposes both ErrSchema and the underlying cause to errors.Is
func (e *SchemaError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSchema, e.Cause}
	}
	return []error{ErrSchema}
}
