package schema

import "fmt"

// Load error codes.
const (
	CodeReadFailed               = "read_failed"
	CodeInvalidSchema            = "invalid_schema"
	CodeMissingSchemaVersion     = "missing_schema_version"
	CodeInvalidSchemaVersion     = "invalid_schema_version"
	CodeUnsupportedSchemaVersion = "unsupported_schema_version"
	CodeMissingTypes             = "missing_types"
	CodeInvalidTypes             = "invalid_types"
)

// LoadError describes why a registry could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: %v", e.Message, e.Err)
	}
	return "schema: " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(code, message string, err error) *LoadError {
	return &LoadError{Code: code, Message: message, Err: err}
}
