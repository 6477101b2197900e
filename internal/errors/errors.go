package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a fatal condition that ends a run
type ErrorCode string

const (
	// Input errors
	ErrCodeConfig         ErrorCode = "CONFIG"
	ErrCodeInvalidProject ErrorCode = "INVALID_PROJECT"

	// Pipeline errors
	ErrCodeRefResolution        ErrorCode = "REF_RESOLUTION"
	ErrCodeFetch                ErrorCode = "FETCH"
	ErrCodeExhaustedHistory     ErrorCode = "EXHAUSTED_HISTORY"
	ErrCodeAmbiguousAssociation ErrorCode = "AMBIGUOUS_ASSOCIATION"
	ErrCodeContiguityViolation  ErrorCode = "CONTIGUITY_VIOLATION"

	// Deployment errors
	ErrCodeApprovalDeclined ErrorCode = "APPROVAL_DECLINED"
	ErrCodeDispatch         ErrorCode = "DISPATCH"
)

// Error is a fatal run error with a code and optional cause
type Error struct {
	Code    ErrorCode
	Message string
	Details string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += "\n" + e.Details
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of e carrying a diagnostic hint
func (e *Error) WithDetails(details string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case ErrCodeRefResolution:
		return 2
	case ErrCodeFetch, ErrCodeDispatch:
		return 3
	case ErrCodeExhaustedHistory, ErrCodeAmbiguousAssociation, ErrCodeContiguityViolation:
		return 4
	default:
		return 1
	}
}

// RefResolution reports that the diff mechanism failed or produced malformed output
func RefResolution(err error, project string) *Error {
	return Wrapf(err, ErrCodeRefResolution, "failed to resolve new refs for %s", project)
}

// Fetch reports a transport or auth failure while talking to the remote API
func Fetch(err error, format string, args ...interface{}) *Error {
	return Wrapf(err, ErrCodeFetch, format, args...)
}

// ExhaustedHistory reports that merged PR history ran out before every ref was matched
func ExhaustedHistory(matched, expected, pages int) *Error {
	return Newf(ErrCodeExhaustedHistory,
		"merged pull request history exhausted after %d page(s) with %d of %d refs matched", pages, matched, expected).
		WithDetails("The refs between production and staging do not match the merged pull requests. " +
			"Check for force-pushes, squash merges that rewrote commits, or a wrong branch comparison. Cancelling deployment.")
}

// AmbiguousAssociation reports a commit associated with zero or several merged PRs
func AmbiguousAssociation(ref string, branch string, numbers []int) *Error {
	if len(numbers) == 0 {
		return Newf(ErrCodeAmbiguousAssociation, "commit %s is not associated with any pull request merged into %s", ref, branch)
	}
	return Newf(ErrCodeAmbiguousAssociation, "commit %s is associated with %d pull requests merged into %s: %v", ref, len(numbers), branch, numbers)
}

// ContiguityViolation reports history that breaks the run-boundary assumption
func ContiguityViolation(format string, args ...interface{}) *Error {
	return Newf(ErrCodeContiguityViolation, format, args...).
		WithDetails("Merged pull requests are not contiguous in history. Use the closed-set strategy instead.")
}

// ApprovalDeclined reports an approval prompt answered with anything but the token
func ApprovalDeclined() *Error {
	return New(ErrCodeApprovalDeclined, "Cancelling deployment.")
}

// InvalidProject reports a project outside the allow-list
func InvalidProject(project string) *Error {
	return Newf(ErrCodeInvalidProject, "invalid project %q", project)
}
