package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type hex32Probe struct {
	ID string `validate:"required,hex32"`
}

type categoryProbe struct {
	Category string `validate:"required,category"`
}

func TestValidator_Hex32(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(hex32Probe{ID: strings.Repeat("a", 32)}))
	require.Error(t, v.Validate(hex32Probe{ID: strings.Repeat("A", 32)}), "uppercase hex is rejected")
	require.Error(t, v.Validate(hex32Probe{ID: strings.Repeat("a", 31)}))
	require.Error(t, v.Validate(hex32Probe{ID: "not-hex"}))
	require.Error(t, v.Validate(hex32Probe{}))
}

func TestValidator_Category(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(categoryProbe{Category: "fee"}))
	require.NoError(t, v.Validate(categoryProbe{Category: "reserve"}))
	require.Error(t, v.Validate(categoryProbe{Category: "escrow"}))
}

func TestToFieldErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(hex32Probe{ID: "bad"})
	require.Error(t, err)
	fes := ToFieldErrors(err)
	require.Len(t, fes, 1)
	require.Equal(t, "ID", fes[0].Field)
	require.Contains(t, fes[0].Message, "32-char lowercase hex")

	err = v.Validate(hex32Probe{})
	fes = ToFieldErrors(err)
	require.Len(t, fes, 1)
	require.Equal(t, "is required", fes[0].Message)
}
