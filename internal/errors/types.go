package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeDescriptor ErrorType = "descriptor"
	ErrorTypeTarget     ErrorType = "target"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeConfigNotFound      = "ERR_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeMissingHostIdentity = "ERR_MISSING_HOST_IDENTITY"
	ErrCodeInvalidManifest     = "ERR_INVALID_MANIFEST"
	ErrCodeDuplicatePackage    = "ERR_DUPLICATE_PACKAGE"
	ErrCodeNameCollision       = "ERR_NAME_COLLISION"
	ErrCodeTargetMissing       = "ERR_TARGET_MISSING"
	ErrCodeMarkersMissing      = "ERR_MARKERS_MISSING"
	ErrCodeWriteFailed         = "ERR_WRITE_FAILED"
	ErrCodeBuildFailed         = "ERR_BUILD_FAILED"
	ErrCodeBundleMissing       = "ERR_BUNDLE_MISSING"
	ErrCodeDownloadFailed      = "ERR_DOWNLOAD_FAILED"
	ErrCodeToolMissing         = "ERR_TOOL_MISSING"
)

// TamerError is a structured error type with context.
type TamerError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Package     string
	FilePath    string
}

// Error implements the error interface.
func (e *TamerError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Package != "" {
		parts = append(parts, "package:"+e.Package)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TamerError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TamerError) Is(target error) bool {
	var t *TamerError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TamerError) WithContext(key string, value interface{}) *TamerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPackage records the package the error is about.
func (e *TamerError) WithPackage(name string) *TamerError {
	e.Package = name

	return e
}

// WithFile records the file the error is about.
func (e *TamerError) WithFile(path string) *TamerError {
	e.FilePath = path

	return e
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TamerError {
	return &TamerError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
	}
}

// NewDescriptorError creates an error about one package's manifest.
func NewDescriptorError(code, message string, cause error) *TamerError {
	return &TamerError{
		Type:        ErrorTypeDescriptor,
		Code:        code,
		Message:     message,
		Cause:       cause,
	}
}

// NewTargetError creates an error about a host project file.
func NewTargetError(code, message string, cause error) *TamerError {
	return &TamerError{
		Type:        ErrorTypeTarget,
		Code:        code,
		Message:     message,
		Cause:       cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TamerError {
	return &TamerError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(code, message string, cause error) *TamerError {
	return &TamerError{
		Type:        ErrorTypeNetwork,
		Code:        code,
		Message:     message,
		Cause:       cause,
	}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *TamerError {
	return &TamerError{
		Type:        ErrorTypeBuild,
		Code:        code,
		Message:     message,
		Cause:       cause,
	}
}

// IsConfigError checks if an error is a fatal configuration error.
func IsConfigError(err error) bool {
	var te *TamerError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeConfig
	}

	return false
}

// Helper functions for common errors

// ErrConfigNotFound reports a missing host configuration file.
func ErrConfigNotFound(path string) *TamerError {
	return NewConfigError(ErrCodeConfigNotFound,
		"tamer.config.json not found in the project root").WithFile(path)
}

// ErrMissingHostIdentity reports a required host identity field that is unset.
func ErrMissingHostIdentity(field string) *TamerError {
	return NewConfigError(ErrCodeMissingHostIdentity,
		fmt.Sprintf("%q must be defined in tamer.config.json", field)).
		WithContext("field", field)
}

// ErrInvalidManifest reports an unreadable or unparsable package manifest.
func ErrInvalidManifest(pkg, path string, cause error) *TamerError {
	return NewDescriptorError(ErrCodeInvalidManifest, "invalid tamer.json", cause).
		WithPackage(pkg).
		WithFile(path)
}

// ErrDuplicatePackage reports a package name seen twice in one discovery pass.
func ErrDuplicatePackage(pkg, path string) *TamerError {
	return NewDescriptorError(ErrCodeDuplicatePackage,
		"duplicate package name, keeping first occurrence", nil).
		WithPackage(pkg).
		WithFile(path)
}

// ErrNameCollision reports two packages that map to the same generated identifier.
func ErrNameCollision(pkg, other, identifier string) *TamerError {
	return NewDescriptorError(ErrCodeNameCollision,
		fmt.Sprintf("generated identifier %q already used by %s", identifier, other), nil).
		WithPackage(pkg).
		WithContext("identifier", identifier)
}

// ErrTargetMissing reports a host project file that does not exist.
func ErrTargetMissing(path string) *TamerError {
	return NewTargetError(ErrCodeTargetMissing, "file not found, skipping update", nil).
		WithFile(path)
}

// ErrMarkersMissing reports a target file without the generated-section markers.
func ErrMarkersMissing(path string) *TamerError {
	return NewTargetError(ErrCodeMarkersMissing,
		"autolink markers not found, appending to the end of the file", nil).
		WithFile(path)
}

// ErrWriteFailed reports a failed write of one target file.
func ErrWriteFailed(path string, cause error) *TamerError {
	return NewTargetError(ErrCodeWriteFailed, "failed to write file", cause).
		WithFile(path)
}

// ErrBuildFailed creates a build failure error.
func ErrBuildFailed(dir string, cause error) *TamerError {
	return NewBuildError(ErrCodeBuildFailed, "build process failed", cause).
		WithFile(dir)
}

// ErrBundleMissing reports a build that did not produce the expected bundle.
func ErrBundleMissing(path string) *TamerError {
	return NewBuildError(ErrCodeBundleMissing, "build output not found", nil).
		WithFile(path)
}
