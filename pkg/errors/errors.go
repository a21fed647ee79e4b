// Package errors provides structured error handling for ngapp.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates a ProjectConfig that violates an invariant.
	KindConfiguration
	// KindMaterialization indicates an I/O failure while replaying a plan.
	KindMaterialization
	// KindInstall indicates a dependency manager failure.
	KindInstall
	// KindPrompt indicates a failure reading answers from the user.
	KindPrompt
	// KindUsage indicates bad command-line arguments.
	KindUsage
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMaterialization:
		return "materialization"
	case KindInstall:
		return "install"
	case KindPrompt:
		return "prompt"
	case KindUsage:
		return "usage"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ScaffoldError is the envelope reported to the error handler.
type ScaffoldError struct {
	// Op is the operation that failed (e.g., "ngapp init").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ScaffoldError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ScaffoldError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a ProjectConfig that cannot produce a plan.
// It is never retried.
type ConfigurationError struct {
	// Field is the violated field, e.g. "assetFolders.scripts".
	Field string
	// Value is the offending value, if any.
	Value string
	// Reason describes the violation.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Configf builds a ConfigurationError with a formatted reason.
func Configf(field, value, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// MaterializationError reports the plan step whose I/O failed.
// Steps after Index were not executed.
type MaterializationError struct {
	// Index is the zero-based position of the failing operation in the plan.
	Index int
	// Op is the operation kind ("mkdir", "copy" or "render").
	Op string
	// Path is the destination path of the failing operation.
	Path string
	// Err is the underlying I/O or template error.
	Err error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("step %d (%s %s): %v", e.Index, e.Op, e.Path, e.Err)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}

// InstallError reports a dependency manager that could not complete.
type InstallError struct {
	// Tool is the dependency manager command, e.g. "bower".
	Tool string
	// Err is the underlying exec error.
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s install failed: %v", e.Tool, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// UsageError reports invalid command-line arguments.
type UsageError struct {
	Msg   string
	Usage string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s\n\nUsage: %s", e.Msg, e.Usage)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// KindOf returns the category of err by inspecting its chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var se *ScaffoldError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	var ce *ConfigurationError
	if stderrors.As(err, &ce) {
		return KindConfiguration
	}
	var me *MaterializationError
	if stderrors.As(err, &me) {
		return KindMaterialization
	}
	var ie *InstallError
	if stderrors.As(err, &ie) {
		return KindInstall
	}
	var ue *UsageError
	if stderrors.As(err, &ue) {
		return KindUsage
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}

// IsConfiguration reports whether err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return stderrors.As(err, &ce)
}

// ExitCode returns the process exit code for err: 0 for nil, 2 for usage
// errors and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if KindOf(err) == KindUsage {
		return 2
	}
	return 1
}

// ErrorHandler receives errors reported by the CLI.
type ErrorHandler interface {
	// HandleError is called when a command fails.
	HandleError(err *ScaffoldError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
