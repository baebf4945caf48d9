package common

import "errors"

func (e *AnalysisError) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// AnalysisError represents sample decoding, transform and pipeline errors
type AnalysisError struct {
	Code    string `json:"code"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so the sentinel values below work with errors.Is
func (e *AnalysisError) Is(target error) bool {
	var t *AnalysisError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Common error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeConfiguration     = "CONFIGURATION"
	ErrCodeDecoding          = "DECODING_FAILED"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeIO                = "IO_ERROR"
)

// Sentinels for errors.Is
var (
	ErrInvalidInput      = &AnalysisError{Code: ErrCodeInvalidInput, Message: "invalid input"}
	ErrConfiguration     = &AnalysisError{Code: ErrCodeConfiguration, Message: "invalid configuration"}
	ErrDecoding          = &AnalysisError{Code: ErrCodeDecoding, Message: "decoding failed"}
	ErrUnsupportedFormat = &AnalysisError{Code: ErrCodeUnsupportedFormat, Message: "unsupported format"}
	ErrIO                = &AnalysisError{Code: ErrCodeIO, Message: "i/o error"}
)

// NewAnalysisError creates a new analysis error
func NewAnalysisError(code, source, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError is shorthand for an INVALID_INPUT error without a cause
func NewInvalidInputError(source, message string) *AnalysisError {
	return NewAnalysisError(ErrCodeInvalidInput, source, message, nil)
}

// NewConfigurationError is shorthand for a CONFIGURATION error without a cause
func NewConfigurationError(source, message string) *AnalysisError {
	return NewAnalysisError(ErrCodeConfiguration, source, message, nil)
}
