package usecases

import (
	"strconv"
	"strings"
)

// FormatTokenAmount renders base units as a human-readable decimal string,
// e.g. 500_000 lamports at 9 decimals -> "0.0005"
func FormatTokenAmount(amount uint64, decimals int) string {
	s := strconv.FormatUint(amount, 10)
	if decimals <= 0 {
		return s
	}

	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}
