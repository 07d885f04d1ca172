package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"fetch wraps auth", NewFetchError("https://x/y", ErrAuthRequired), ErrAuthRequired},
		{"fetch wraps not found", NewFetchError("https://x/y", ErrReferenceNotFound), ErrReferenceNotFound},
		{"checkout wraps ambiguous", NewCheckoutError("dual", ErrAmbiguousReference), ErrAmbiguousReference},
		{"extraction wraps missing object", NewExtractionError("abc", "/tmp/d", ErrObjectNotFound), ErrObjectNotFound},
		{"resolution wraps bad path", NewResolutionError("/nope", ErrInvalidSourcePath), ErrInvalidSourcePath},
		{"hook wraps empty command", NewHookCommandError(nil, -1, ErrEmptyHookCommand), ErrEmptyHookCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestHookCommandError_Message(t *testing.T) {
	err := NewHookCommandError([]string{"make", "build"}, 2, errors.New("exit status 2"))
	assert.Contains(t, err.Error(), `"make build"`)
	assert.Contains(t, err.Error(), "status 2")
}

func TestCompileError_CarriesDiagnosticsVerbatim(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityError, Message: "boom", Formatted: "Error: boom\n  --> src/Counter.sol:3:1"},
		{Severity: SeverityError, Message: "bad type", Formatted: "Error: bad type"},
	}
	err := NewCompileError(diags)

	// Formatted renderings appear untruncated
	assert.Contains(t, err.Error(), "src/Counter.sol:3:1")
	assert.Contains(t, err.Error(), "Error: bad type")
	assert.Len(t, err.Diagnostics, 2)
}

func TestFetchError_WrappedThroughLayers(t *testing.T) {
	inner := NewFetchError("https://x/y", ErrAuthRequired)
	outer := fmt.Errorf("checkout failed: %w", inner)

	var fetchErr *FetchError
	require.ErrorAs(t, outer, &fetchErr)
	assert.Equal(t, "https://x/y", fetchErr.URL)
	assert.ErrorIs(t, outer, ErrAuthRequired)
}

func TestOid(t *testing.T) {
	oid := Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")
	assert.Equal(t, "4f5b227a", oid.Short())
	assert.False(t, oid.IsZero())
	assert.True(t, Oid("").IsZero())
}

func TestCompileResult(t *testing.T) {
	result := &CompileResult{
		Diagnostics: []Diagnostic{
			{Severity: SeverityWarning, Message: "meh"},
			{Severity: SeverityError, Message: "boom"},
		},
	}
	assert.True(t, result.HasErrors())
	assert.Len(t, result.Errors(), 1)

	clean := &CompileResult{Diagnostics: []Diagnostic{{Severity: SeverityWarning, Message: "meh"}}}
	assert.False(t, clean.HasErrors())
}
