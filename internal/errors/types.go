package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeAsset      ErrorType = "asset"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// StoreError is a structured error type with context.
type StoreError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Route       string
	Recoverable bool
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.Route != "" {
		parts = append(parts, "route:"+e.Route)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel comparisons work through wrapping.
func (e *StoreError) Is(target error) bool {
	var t *StoreError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *StoreError) WithContext(key string, value interface{}) *StoreError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *StoreError) WithComponent(component string) *StoreError {
	e.Component = component

	return e
}

// WithRoute adds the page route the error belongs to.
func (e *StoreError) WithRoute(route string) *StoreError {
	e.Route = route

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *StoreError {
	return &StoreError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewAssetError creates an asset loading error. Asset errors are always
// recoverable: the page renders a placeholder in their place.
func NewAssetError(code, message string, cause error) *StoreError {
	return &StoreError{
		Type:        ErrorTypeAsset,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *StoreError {
	return &StoreError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *StoreError {
	return &StoreError{
		Type:        ErrorTypeBuild,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *StoreError {
	return &StoreError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *StoreError {
	return &StoreError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Common error codes.
const (
	ErrCodeAssetNotFound   = "ERR_ASSET_NOT_FOUND"
	ErrCodeAssetDecode     = "ERR_ASSET_DECODE"
	ErrCodeAssetTimeout    = "ERR_ASSET_TIMEOUT"
	ErrCodeInvalidPath     = "ERR_INVALID_PATH"
	ErrCodeInvalidColor    = "ERR_INVALID_COLOR"
	ErrCodeInvalidConfig   = "ERR_INVALID_CONFIG"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeWriteFailed     = "ERR_WRITE_FAILED"
	ErrCodeGateInterrupted = "ERR_GATE_INTERRUPTED"
	ErrCodeUnknownRoute    = "ERR_UNKNOWN_ROUTE"
	ErrCodePageOutOfRange  = "ERR_PAGE_OUT_OF_RANGE"
	ErrCodeAccessibility   = "ERR_ACCESSIBILITY"
	ErrCodeWatchFailed     = "ERR_WATCH_FAILED"
)

// IsAssetError reports whether err is an asset error.
func IsAssetError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeAsset
	}

	return false
}

// IsBuildError reports whether err is a build error.
func IsBuildError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeBuild
	}

	return false
}

// IsRecoverable reports whether the error allows the caller to continue.
func IsRecoverable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// Logger is the subset of logging.Logger the handler needs.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler routes errors to the logger with their structured fields.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level derived from its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var se *StoreError
	if !errors.As(err, &se) {
		h.logger.Error(ctx, err, "Unexpected error")
		return
	}

	fields := []interface{}{"type", se.Type, "code", se.Code}
	if se.Component != "" {
		fields = append(fields, "component", se.Component)
	}
	if se.Route != "" {
		fields = append(fields, "route", se.Route)
	}

	if se.Recoverable {
		h.logger.Warn(ctx, se, "Recoverable error occurred", fields...)
		return
	}
	h.logger.Error(ctx, se, "Error occurred", fields...)
}
