package parsing

import "fmt"

// APICallError reports a failed model invocation while parsing a job
// description, including setup problems like a missing API key.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	msg := "API call failed: " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError reports a model response that could not be decoded into a job
// profile, either malformed JSON or a schema violation.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := "parse error: " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError reports a decoded profile that violates a semantic rule,
// such as a requirement set with no hard requirements.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}
