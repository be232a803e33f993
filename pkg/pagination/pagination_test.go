// Copyright (c) 2026 Maria. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lelipitri23-dev/Maria/pkg/pagination"
)

func TestParams_Offset(t *testing.T) {
	testCases := []struct {
		name string
		page int
		want int
	}{
		{"first page", 1, 0},
		{"zero page clamps to start", 0, 0},
		{"negative page clamps to start", -3, 0},
		{"second page", 2, 20},
		{"deep page", 10, 180},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			params := pagination.Params{Page: testCase.page, Limit: 20}
			assert.Equal(t, testCase.want, params.Offset())
		})
	}
}

func TestNewMeta_TotalPages(t *testing.T) {
	// totalPages = ceil(total/limit)
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, pagination.NewMeta(1, 20, 1).TotalPages)
	assert.Equal(t, 1, pagination.NewMeta(1, 20, 20).TotalPages)
	assert.Equal(t, 2, pagination.NewMeta(1, 20, 21).TotalPages)
	assert.Equal(t, 5, pagination.NewMeta(1, 24, 100).TotalPages)

	// limit 0 must not divide by zero
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 50).TotalPages)
}

func TestFromRequest_Fallbacks(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"absent params", "", 1, pagination.DefaultLimit},
		{"valid params", "?page=3&limit=50", 3, 50},
		{"non-numeric page", "?page=abc", 1, pagination.DefaultLimit},
		{"zero page", "?page=0", 1, pagination.DefaultLimit},
		{"negative page", "?page=-2", 1, pagination.DefaultLimit},
		{"limit above maximum", "?limit=9999", 1, pagination.DefaultLimit},
		{"zero limit", "?limit=0", 1, pagination.DefaultLimit},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/list"+testCase.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, testCase.wantPage, params.Page)
			assert.Equal(t, testCase.wantLimit, params.Limit)
		})
	}
}

func TestFromAPIRequest_DefaultLimit(t *testing.T) {
	request := httptest.NewRequest("GET", "/api/v1/search?q=demo", nil)
	assert.Equal(t, pagination.APILimit, pagination.FromAPIRequest(request).Limit)
}
