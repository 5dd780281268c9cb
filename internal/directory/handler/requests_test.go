package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rolodex/pkg/domain-errors"
)

func TestParseAmount(t *testing.T) {
	valid := []struct {
		in    string
		cents int64
	}{
		{"1250.00", 125000},
		{"12.5", 1250},
		{"0.99", 99},
		{".99", 99},
		{"7", 700},
		{"-3.20", -320},
		{" 10.00 ", 1000},
		{"92233720368547757.99", 9223372036854775799},
	}
	for _, tc := range valid {
		got, err := parseAmount(tc.in)
		require.NoError(t, err, "parseAmount(%q)", tc.in)
		assert.Equal(t, tc.cents, got, "parseAmount(%q)", tc.in)
	}

	invalid := []string{
		"",
		"-",
		".",
		"abc",
		"12.",
		"12.345",
		"1,250.00",
		"1e3",
		// whole parts at or past the cents ceiling must be rejected, not
		// silently wrapped into a small positive amount
		"92233720368547758.00",
		"368934881474191033.00",
		"9223372036854775807",
	}
	for _, in := range invalid {
		_, err := parseAmount(in)
		require.Error(t, err, "parseAmount(%q)", in)
		violations := dErrors.ViolationsOf(err)
		require.Len(t, violations, 1, "parseAmount(%q)", in)
		assert.Equal(t, "amount", violations[0].Field, "parseAmount(%q)", in)
	}
}
