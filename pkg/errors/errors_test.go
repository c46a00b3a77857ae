package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/chemalyzer/pkg/errors"
)

func TestNew(t *testing.T) {
	ae := errors.New(errors.CodeValence, "nitrogen exceeds allowed valence")

	require.NotNil(t, ae)
	assert.Equal(t, errors.CodeValence, ae.Code)
	assert.Equal(t, "nitrogen exceeds allowed valence", ae.Message)
	assert.Empty(t, ae.Detail)
	assert.Nil(t, ae.Cause)
	assert.Contains(t, ae.Stack, "errors_test.go",
		"stack should start at the construction site")
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
	})

	t.Run("keeps the cause", func(t *testing.T) {
		root := stderrors.New("redis: connection refused")
		ae := errors.Wrap(root, errors.CodeCacheError, "load cached analysis")

		require.NotNil(t, ae)
		assert.Equal(t, errors.CodeCacheError, ae.Code)
		assert.Equal(t, "load cached analysis", ae.Message)
		assert.Same(t, root, ae.Cause)
		assert.Same(t, root, stderrors.Unwrap(ae))
	})

	t.Run("CodeUnknown inherits the inner code", func(t *testing.T) {
		inner := errors.SMILESSyntax("ring bond 1 never closes")
		outer := errors.Wrap(inner, errors.CodeUnknown, "parse request")

		assert.Equal(t, errors.CodeSMILESSyntax, outer.Code)
	})

	t.Run("CodeUnknown reaches through foreign wrapping", func(t *testing.T) {
		inner := errors.UnknownCompound("nothing matches \"asprin\"")
		mid := fmt.Errorf("resolver: %w", inner)
		outer := errors.Wrap(mid, errors.CodeUnknown, "analysis failed")

		assert.Equal(t, errors.CodeUnknownCompound, outer.Code)
	})

	t.Run("explicit code wins", func(t *testing.T) {
		inner := errors.UnknownCompound("no match")
		outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

		assert.Equal(t, errors.CodeInternal, outer.Code)
	})

	t.Run("chains unwrap level by level", func(t *testing.T) {
		root := stderrors.New("dial tcp: connection refused")
		l1 := errors.Wrap(root, errors.CodeCacheError, "redis unreachable")
		l2 := errors.Wrap(l1, errors.CodeInternal, "analysis pipeline")

		assert.Same(t, l1, stderrors.Unwrap(l2))
		assert.Same(t, root, stderrors.Unwrap(l1))
	})
}

func TestErrorString(t *testing.T) {
	t.Run("without detail", func(t *testing.T) {
		ae := errors.UnknownCompound("compound not found")
		assert.Equal(t, "[RES_001] compound not found", ae.Error())
	})

	t.Run("with detail", func(t *testing.T) {
		ae := errors.SMILESSyntax("invalid SMILES").WithDetail("input=C1CC1[xx]")
		assert.Equal(t, "[CHEM_001] invalid SMILES: input=C1CC1[xx]", ae.Error())
	})

	t.Run("usable through the error interface", func(t *testing.T) {
		var err error = errors.Internal("boom")
		assert.Equal(t, "[COMMON_001] boom", err.Error())
	})
}

func TestWithDetail(t *testing.T) {
	original := errors.NotFound("resource missing")
	detailed := original.WithDetail("query=benzene")

	assert.Empty(t, original.Detail, "receiver must stay untouched")
	assert.Equal(t, "query=benzene", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)

	replaced := detailed.WithDetail("query=caffeine")
	assert.Equal(t, "query=caffeine", replaced.Detail, "later detail replaces earlier")

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWithCause(t *testing.T) {
	root := stderrors.New("redis: bad connection")
	original := errors.New(errors.CodeCacheError, "cache error")
	withCause := original.WithCause(root)

	assert.Nil(t, original.Cause, "receiver must stay untouched")
	assert.Same(t, root, withCause.Cause)
	assert.True(t, stderrors.Is(withCause, root))

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithCause(root))
}

func TestIsCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{
			"direct match",
			errors.UnknownCompound("not found"),
			errors.CodeUnknownCompound,
			true,
		},
		{
			"direct mismatch",
			errors.UnknownCompound("not found"),
			errors.CodeInternal,
			false,
		},
		{
			"inner code of a two-level chain",
			errors.Wrap(errors.New(errors.CodeCacheError, "redis down"), errors.CodeInternal, "service error"),
			errors.CodeCacheError,
			true,
		},
		{
			"outer code of a two-level chain",
			errors.Wrap(errors.New(errors.CodeCacheError, "redis down"), errors.CodeInternal, "service error"),
			errors.CodeInternal,
			true,
		},
		{
			"match below fmt.Errorf wrapping",
			fmt.Errorf("handler: %w", errors.Valence("carbon with five bonds")),
			errors.CodeValence,
			true,
		},
		{
			"nil error",
			nil,
			errors.CodeInternal,
			false,
		},
		{
			"foreign error",
			stderrors.New("plain"),
			errors.CodeInternal,
			false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errors.IsCode(tc.err, tc.code))
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Run("nil reports OK", func(t *testing.T) {
		assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	})

	t.Run("foreign error reports unknown", func(t *testing.T) {
		assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
		assert.Equal(t, errors.CodeUnknown,
			errors.GetCode(fmt.Errorf("ctx: %w", stderrors.New("plain"))))
	})

	t.Run("outermost AppError wins", func(t *testing.T) {
		inner := errors.Valence("valence exceeded")
		outer := errors.Wrap(inner, errors.CodeInternal, "analysis failed")
		assert.Equal(t, errors.CodeInternal, errors.GetCode(outer))
	})

	t.Run("reaches through foreign wrapping", func(t *testing.T) {
		ae := errors.ConformerFailed("embedding diverged")
		wrapped := fmt.Errorf("pipeline: %w", ae)
		assert.Equal(t, errors.CodeConformerFailed, errors.GetCode(wrapped))
	})
}

func TestDomainConstructors(t *testing.T) {
	cases := []struct {
		name string
		err  *errors.AppError
		code errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("missing"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("query must not be empty"), errors.CodeInvalidParam},
		{"Internal", errors.Internal("unexpected"), errors.CodeInternal},
		{"UnknownCompound", errors.UnknownCompound("no match"), errors.CodeUnknownCompound},
		{"SMILESSyntax", errors.SMILESSyntax("unbalanced parentheses"), errors.CodeSMILESSyntax},
		{"Valence", errors.Valence("carbon with five bonds"), errors.CodeValence},
		{"ConformerFailed", errors.ConformerFailed("did not converge"), errors.CodeConformerFailed},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
			assert.NotEmpty(t, tc.err.Stack)
		})
	}
}

func TestStdlibInterop(t *testing.T) {
	t.Run("errors.Is finds the sentinel", func(t *testing.T) {
		sentinel := errors.New(errors.CodeTimeout, "deadline exceeded")
		wrapped := fmt.Errorf("handler: %w", sentinel)
		assert.True(t, stderrors.Is(wrapped, sentinel))
	})

	t.Run("errors.Is stays false across distinct errors", func(t *testing.T) {
		a := errors.Internal("error A")
		b := errors.Internal("error B")
		assert.False(t, stderrors.Is(a, b))
	})

	t.Run("errors.As extracts the first AppError", func(t *testing.T) {
		root := errors.New(errors.CodeCacheError, "redis unavailable")
		chain := fmt.Errorf("http handler: %w",
			fmt.Errorf("analysis service: %w",
				errors.Wrap(root, errors.CodeInternal, "cache read failed")))

		var ae *errors.AppError
		require.True(t, stderrors.As(chain, &ae))
		assert.Equal(t, errors.CodeInternal, ae.Code)
	})
}
