package pagination_test

import (
	"testing"
	"time"

	"github.com/caselab/lab_case_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	changedAt := time.Date(2025, 6, 1, 15, 4, 5, 123456789, time.UTC)
	token := pagination.EncodeToken(changedAt, 42)

	gotTime, gotSeq, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(changedAt))
	assert.Equal(t, int64(42), gotSeq)
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!not-base64!!!"},
		{name: "missing separator", token: "bm8tc2VwYXJhdG9y"},          // "no-separator"
		{name: "bad time", token: "bm90LWEtdGltZXwxMg=="},               // "not-a-time|12"
		{name: "bad seq", token: "MjAyNS0wNi0wMVQwMDowMDowMFp8YWJj"},    // "2025-06-01T00:00:00Z|abc"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
