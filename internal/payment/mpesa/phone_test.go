package mpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"local trunk prefix", "0712345678", "254712345678", false},
		{"already international", "254712345678", "254712345678", false},
		{"plus prefix", "+254712345678", "254712345678", false},
		{"bare subscriber number", "712345678", "254712345678", false},
		{"spaces and dashes", "0712 345-678", "254712345678", false},
		{"new 01 range", "0112345678", "254112345678", false},
		{"letters", "abc", "", true},
		{"empty", "", "", true},
		{"too short", "07123", "", true},
		{"too long", "25471234567890", "", true},
		{"wrong mobile prefix", "254612345678", "", true},
		{"digits with letters", "07123x5678", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// Both local and international spellings of the same number normalize to the
// same canonical form.
func TestNormalizePhone_CanonicalForm(t *testing.T) {
	local, err := NormalizePhone("0712345678")
	require.NoError(t, err)

	intl, err := NormalizePhone("254712345678")
	require.NoError(t, err)

	assert.Equal(t, local, intl)
}
