// Copyright (c) 2026 Maria. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lelipitri23-dev/Maria/pkg/slug"
)

func TestFrom_Basic(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Demo Anime", "demo-anime"},
		{"already a slug", "demo-anime", "demo-anime"},
		{"punctuation", "Re:Zero − Starting Life!", "re-zero-starting-life"},
		{"numbers preserved", "Episode 12.5", "episode-12-5"},
		{"leading and trailing junk", "  --Slice of Life--  ", "slice-of-life"},
		{"consecutive separators", "A   B___C", "a-b-c"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, slug.From(testCase.input))
		})
	}
}

// Idempotency is load-bearing: taxonomy slug resolution compares slugified
// stored values against URL segments that are already slugs.
func TestFrom_Idempotent(t *testing.T) {
	inputs := []string{"Demo Anime", "Café Müller", "2021 Summer", "already-a-slug"}

	for _, input := range inputs {
		once := slug.From(input)
		assert.Equal(t, once, slug.From(once), "slugify must be idempotent for %q", input)
	}
}

func TestFrom_CaseAndDiacriticInsensitive(t *testing.T) {
	assert.Equal(t, slug.From("CAFÉ MÜLLER"), slug.From("cafe muller"))
	assert.Equal(t, slug.From("Shōnen"), slug.From("shonen"))
	assert.Equal(t, "ecchi", slug.From("Écchi"))
}
