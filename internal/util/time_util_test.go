package util

import (
	"errors"
	"etfreplica/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequestDate(t *testing.T) {
	cases := []struct {
		in       string
		expected domain.Date
		ok       bool
	}{
		{"20240105", "20240105", true},
		{"2024-01-05", "20240105", true},
		{"2024-1-5", "", false},
		{"20240230", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseRequestDate(tc.in)
		if !tc.ok {
			var dateErr *domain.InvalidDateError
			require.True(t, errors.As(err, &dateErr), tc.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expected, got)
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("2024-01-01", "20240301")
	require.NoError(t, err)
	require.Equal(t, domain.Date("20240101"), start)
	require.Equal(t, domain.Date("20240301"), end)

	_, _, err = ParseRange("20240301", "20240101")
	var dateErr *domain.InvalidDateError
	require.ErrorAs(t, err, &dateErr)

	_, _, err = ParseRange("20240101", "soon")
	require.ErrorAs(t, err, &dateErr)
}
