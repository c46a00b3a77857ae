// Package errors carries structured failure information across the
// engine.  AppError pairs a typed code with a message; the HTTP layer
// maps codes to status lines, the logging layer records the captured
// stack, and callers branch on codes instead of matching message
// text.  The package wraps transparently, so errors.Is and errors.As
// from the standard library keep working through every layer.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// AppError is the engine's error type.  Construct one through New,
// Wrap, or a domain constructor such as SMILESSyntax; a call stack is
// captured at that point.
//
//	return errors.SMILESSyntax("unclosed branch at position 7")
//	return errors.Wrap(err, errors.CodeCacheError, "read cached analysis")
type AppError struct {
	Code    ErrorCode // failure category, stable across releases
	Message string    // caller-facing description
	Detail  string    // extra context for operators, never required reading
	Cause   error     // wrapped lower-layer error, if any
	Stack   string    // call stack at construction, for logs only
}

// Error renders "[<code>] <message>", with ": <detail>" appended when
// detail is present.  The stack never appears here.
func (e *AppError) Error() string {
	s := "[" + e.Code.String() + "] " + e.Message
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// Unwrap exposes the cause to the standard errors package.
func (e *AppError) Unwrap() error { return e.Cause }

func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

// WithDetail returns a copy with Detail set.  Nil receivers pass
// through, so it chains safely after Wrap.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	c := e.clone()
	c.Detail = detail
	return c
}

// WithCause returns a copy with Cause set, for attaching a low-level
// error to an already built AppError.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	c := e.clone()
	c.Cause = err
	return c
}

// New builds an AppError that originates here, with no wrapped cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Stack: captureStack(1)}
}

// Wrap builds an AppError around err, or returns nil when err is nil
// so it can wrap a call's return directly.  Passing CodeUnknown keeps
// the code of the innermost AppError, which lets middle layers add
// context without reclassifying the failure.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{Code: code, Message: message, Cause: err, Stack: captureStack(1)}
}

// Domain constructors.  Each fixes the code so call sites read as the
// condition they report.

// NotFound reports a missing resource outside compound resolution;
// resolver misses use UnknownCompound instead.
func NotFound(message string) *AppError { return New(CodeNotFound, message) }

// InvalidParam reports request input that failed validation before
// reaching the chemistry layer.
func InvalidParam(message string) *AppError { return New(CodeInvalidParam, message) }

// Internal reports a server-side failure with no more specific code.
// Log the underlying cause alongside it.
func Internal(message string) *AppError { return New(CodeInternal, message) }

// UnknownCompound reports a query that matched neither a library name
// nor a SMILES literal.
func UnknownCompound(message string) *AppError { return New(CodeUnknownCompound, message) }

// SMILESSyntax reports malformed SMILES text: unbalanced brackets,
// unclosed branches or rings, symbols that are not atoms.
func SMILESSyntax(message string) *AppError { return New(CodeSMILESSyntax, message) }

// Valence reports SMILES that parsed but describes impossible
// chemistry, such as a carbon with five bonds.
func Valence(message string) *AppError { return New(CodeValence, message) }

// ConformerFailed reports 3D embedding that did not converge within
// its iteration budget.
func ConformerFailed(message string) *AppError { return New(CodeConformerFailed, message) }

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err's chain carries either not-found
// code.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) || IsCode(err, CodeUnknownCompound)
}

// GetCode returns the code of the outermost AppError in err's chain,
// CodeOK for nil, and CodeUnknown for foreign errors.  Middleware
// uses it to label metrics without knowing individual domain errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// maxStackFrames bounds the trace captured per error.
const maxStackFrames = 32

// captureStack renders the stack below the constructor in the panic
// trace style, one "func\n\tfile:line" block per frame.  Runtime
// frames are dropped.
func captureStack(skip int) string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	var lines []string
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}
