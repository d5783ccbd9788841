package resolve

import (
	"fmt"
)

// ConfigurationError is fatal and raised before any file is touched - bad
// option combinations must never surface mid-run.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.msg
}

func configErr(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// NewConfigurationError lets the packages layered on top of the core report
// setup failures of the same class (unknown engine name and the like).
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return configErr(format, args...)
}

// JoinError wraps a failure reported by a join strategy. It is fatal for the
// file being processed only, sibling files are unaffected.
type JoinError struct {
	URI string
	Err error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join strategy failed for %q: %v", e.URI, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}

// Diagnostic is a non-fatal finding surfaced to the host. The host decides
// how and whether to report it, processing always continues.
type Diagnostic struct {
	Severity Severity
	Message  string
}
