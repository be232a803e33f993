// Copyright (c) 2026 Maria. All rights reserved.

package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lelipitri23-dev/Maria/pkg/format"
)

func TestCompactNumber(t *testing.T) {
	testCases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1_000, "1K"},
		{1_234, "1.2K"},
		{20_000, "20K"},
		{999_949, "999.9K"},
		{1_000_000, "1M"},
		{3_400_000, "3.4M"},
		{1_200_000_000, "1.2B"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, format.CompactNumber(testCase.in), "input %d", testCase.in)
	}
}
