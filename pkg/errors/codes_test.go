package errors

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// allCodes lists every released code.  Tests below keep it in lock
// step with codeTable so a new code cannot ship half-mapped.
var allCodes = []ErrorCode{
	ErrCodeInternal,
	ErrCodeBadRequest,
	ErrCodeNotFound,
	ErrCodeValidation,
	ErrCodeSerialization,
	ErrCodeCacheError,
	ErrCodeTimeout,
	ErrCodeServiceUnavailable,
	ErrCodeNotImplemented,
	ErrCodeUnknownCompound,
	ErrCodeEmptyQuery,
	ErrCodeSMILESSyntax,
	ErrCodeValence,
	ErrCodeConformerFailed,
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "CHEM_001", CodeSMILESSyntax.String())
	assert.Equal(t, "RES_001", CodeUnknownCompound.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	cases := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"internal is 500", ErrCodeInternal, http.StatusInternalServerError},
		{"bad request is 400", ErrCodeBadRequest, http.StatusBadRequest},
		{"not found is 404", ErrCodeNotFound, http.StatusNotFound},
		{"validation is 422", ErrCodeValidation, http.StatusUnprocessableEntity},
		{"timeout is 504", ErrCodeTimeout, http.StatusGatewayTimeout},
		{"unknown compound is 404", ErrCodeUnknownCompound, http.StatusNotFound},
		{"empty query is 400", ErrCodeEmptyQuery, http.StatusBadRequest},
		{"smiles syntax is 400", ErrCodeSMILESSyntax, http.StatusBadRequest},
		{"valence is 422", ErrCodeValence, http.StatusUnprocessableEntity},
		{"conformer failure is 500", ErrCodeConformerFailed, http.StatusInternalServerError},
		{"unmapped code falls back to 500", ErrorCode("NOPE_999"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusForCode(tc.code))
		})
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown compound", DefaultMessageForCode(ErrCodeUnknownCompound))
	assert.Equal(t, "invalid SMILES syntax", DefaultMessageForCode(ErrCodeSMILESSyntax))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}

func TestErrorClassification(t *testing.T) {
	clientCodes := []ErrorCode{
		ErrCodeBadRequest, ErrCodeUnknownCompound, ErrCodeEmptyQuery,
		ErrCodeSMILESSyntax, ErrCodeValence,
	}
	serverCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeCacheError, ErrCodeConformerFailed,
		ErrCodeServiceUnavailable,
	}

	for _, code := range clientCodes {
		assert.True(t, IsClientError(code), "%s should classify as client error", code)
		assert.False(t, IsServerError(code), "%s should not classify as server error", code)
	}
	for _, code := range serverCodes {
		assert.True(t, IsServerError(code), "%s should classify as server error", code)
		assert.False(t, IsClientError(code), "%s should not classify as client error", code)
	}
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeCacheError))
	assert.Equal(t, "RES", ModuleForCode(ErrCodeEmptyQuery))
	assert.Equal(t, "CHEM", ModuleForCode(ErrCodeValence))
	assert.Equal(t, "OK", ModuleForCode(CodeOK), "codes without a prefix name themselves")
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestCodeTableCoversEveryCode(t *testing.T) {
	convention := regexp.MustCompile(`^[A-Z]+_\d{3}$`)

	for _, code := range allCodes {
		assert.Regexp(t, convention, string(code))
		info, ok := codeTable[code]
		if assert.True(t, ok, "%s missing from codeTable", code) {
			assert.NotZero(t, info.status, "%s has no status", code)
			assert.NotEmpty(t, info.message, "%s has no message", code)
		}
	}

	// No orphan table entries either.
	assert.Len(t, codeTable, len(allCodes))
}
