// Copyright (c) 2026 Maria. All rights reserved.

// Package format provides display-oriented string formatting helpers.
//
// # Usage
//
// Currently home to [CompactNumber], which renders view counters the way the
// catalogue UI expects them ("1.2K", "3.4M") without pulling in a full
// localization stack.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// CompactNumber formats n into a short human-readable magnitude string.
//
// # Rules
//
//   - below 1 000: plain digits ("999")
//   - thousands: one decimal, "K" suffix ("1.2K")
//   - millions: one decimal, "M" suffix ("3.4M")
//   - billions: one decimal, "B" suffix
//
// A trailing ".0" is trimmed ("2K", not "2.0K").
func CompactNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000_000)) + "B"
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// trimZero drops a redundant ".0" decimal from a formatted magnitude.
func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
