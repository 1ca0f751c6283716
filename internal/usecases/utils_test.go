package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTokenAmount(t *testing.T) {
	cases := []struct {
		amount   uint64
		decimals int
		want     string
	}{
		{0, 9, "0"},
		{1, 9, "0.000000001"},
		{500_000, 9, "0.0005"},
		{1_000_000_000, 9, "1"},
		{1_500_000_000, 9, "1.5"},
		{123_456_789, 6, "123.456789"},
		{10_000_000, 6, "10"},
		{42, 0, "42"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, FormatTokenAmount(tc.amount, tc.decimals), "%d @ %d", tc.amount, tc.decimals)
	}
}
