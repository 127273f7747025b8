package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "scope_missing",
			code:    errors.ErrScopeMissing,
			message: "outfit scope not found",
			wantStr: "[SCOPE_MISSING] outfit scope not found",
		},
		{
			name:    "malformed_rule",
			code:    errors.ErrMalformedRule,
			message: "too many fields",
			wantStr: "[MALFORMED_RULE] too many fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("division by zero")

	err := errors.Wrapf(base, errors.ErrDivision, "evaluating %q", "Corset/0")
	assert.Equal(t, `[DIVISION] evaluating "Corset/0": division by zero`, err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
}

func TestIsErrorCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New(errors.ErrUnresolvedName, "Hood"))

	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedName))
	assert.False(t, errors.IsErrorCode(err, errors.ErrDivision))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrUnresolvedName))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrReentrant, errors.GetErrorCode(errors.New(errors.ErrReentrant, "loop")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	a := errors.New(errors.ErrStaleReference, "object gone")
	b := errors.New(errors.ErrStaleReference, "another object gone")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, errors.New(errors.ErrNotFound, "x")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrSelectorUnconnected, "no source").
		WithDetail("node", "Hair_SELECTOR_GROUP").
		WithDetail("tree", "Ciri_Hair")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "Hair_SELECTOR_GROUP", details["node"])
	assert.Equal(t, "Ciri_Hair", details["tree"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
