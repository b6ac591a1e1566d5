package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimsQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/providers/0xabc/claims?from_block=800&limit=25", nil)
	params, err := ParseClaimsQueryParams(r)
	require.NoError(t, err)
	require.NotNil(t, params.FromBlock)
	assert.Equal(t, uint64(800), *params.FromBlock)
	assert.Equal(t, 25, params.Limit)
}

func TestParseClaimsQueryParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/providers/0xabc/claims", nil)
	params, err := ParseClaimsQueryParams(r)
	require.NoError(t, err)
	assert.Nil(t, params.FromBlock)
	assert.Zero(t, params.Limit)
}

func TestParseClaimsQueryParamsIgnoresUnknownKeys(t *testing.T) {
	r := httptest.NewRequest("GET", "/providers/0xabc/claims?utm_source=email", nil)
	_, err := ParseClaimsQueryParams(r)
	assert.NoError(t, err)
}

func TestParseClaimsQueryParamsRejectsInvalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/providers/0xabc/claims?from_block=notanumber", nil)
	_, err := ParseClaimsQueryParams(r)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/providers/0xabc/claims?limit=-5", nil)
	_, err = ParseClaimsQueryParams(r)
	assert.Error(t, err)
}
