package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is the wire identifier for a failure category.  Codes
// are grouped by owning module: COMMON_ for cross-cutting failures,
// RES_ for compound resolution, CHEM_ for chemistry.  Suffixes are
// stable once released, because API clients switch on these strings.
type ErrorCode string

// String returns the wire form.
func (c ErrorCode) String() string { return string(c) }

// Cross-cutting codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeValidation         ErrorCode = "COMMON_004"
	ErrCodeSerialization      ErrorCode = "COMMON_005"
	ErrCodeCacheError         ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeNotImplemented     ErrorCode = "COMMON_009"
)

// Compound-resolution codes.
const (
	ErrCodeUnknownCompound ErrorCode = "RES_001"
	ErrCodeEmptyQuery      ErrorCode = "RES_002"
)

// Chemistry codes.
const (
	ErrCodeSMILESSyntax    ErrorCode = "CHEM_001"
	ErrCodeValence         ErrorCode = "CHEM_002"
	ErrCodeConformerFailed ErrorCode = "CHEM_003"
)

// Short aliases used at call sites throughout the application.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeNotFound       = ErrCodeNotFound
	CodeValidation     = ErrCodeValidation
	CodeSerialization  = ErrCodeSerialization
	CodeCacheError     = ErrCodeCacheError
	CodeTimeout        = ErrCodeTimeout
	CodeUnavailable    = ErrCodeServiceUnavailable
	CodeNotImplemented = ErrCodeNotImplemented

	CodeUnknownCompound = ErrCodeUnknownCompound
	CodeEmptyQuery      = ErrCodeEmptyQuery
	CodeSMILESSyntax    = ErrCodeSMILESSyntax
	CodeValence         = ErrCodeValence
	CodeConformerFailed = ErrCodeConformerFailed

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// codeInfo fixes the HTTP status and fallback message for one code.
type codeInfo struct {
	status  int
	message string
}

var codeTable = map[ErrorCode]codeInfo{
	ErrCodeInternal:           {http.StatusInternalServerError, "internal server error"},
	ErrCodeBadRequest:         {http.StatusBadRequest, "bad request"},
	ErrCodeNotFound:           {http.StatusNotFound, "resource not found"},
	ErrCodeValidation:         {http.StatusUnprocessableEntity, "validation failed"},
	ErrCodeSerialization:      {http.StatusInternalServerError, "serialization failed"},
	ErrCodeCacheError:         {http.StatusInternalServerError, "cache error"},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, "request timeout"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "service unavailable"},
	ErrCodeNotImplemented:     {http.StatusNotImplemented, "not implemented"},

	ErrCodeUnknownCompound: {http.StatusNotFound, "unknown compound"},
	ErrCodeEmptyQuery:      {http.StatusBadRequest, "query must not be empty"},

	ErrCodeSMILESSyntax:    {http.StatusBadRequest, "invalid SMILES syntax"},
	ErrCodeValence:         {http.StatusUnprocessableEntity, "valence validation failed"},
	ErrCodeConformerFailed: {http.StatusInternalServerError, "3D conformer generation failed"},
}

// HTTPStatusForCode maps a code to its HTTP status.  Codes outside
// the table report 500, so an unmapped new code never masquerades as
// a client fault.
func HTTPStatusForCode(code ErrorCode) int {
	if info, ok := codeTable[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the fallback text used when a
// response carries a code with no AppError behind it.
func DefaultMessageForCode(code ErrorCode) string {
	if info, ok := codeTable[code]; ok {
		return info.message
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool { return HTTPStatusForCode(code)/100 == 4 }

// IsServerError reports whether code maps to a 5xx status.
func IsServerError(code ErrorCode) bool { return HTTPStatusForCode(code)/100 == 5 }

// ModuleForCode returns the prefix naming the module that owns the
// code, or "UNKNOWN" when there is no prefix to name.
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "UNKNOWN"
	}
	return s
}
