package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		name        string
		patterns    []string
		description string
		want        bool
	}{
		{
			name:        "single match",
			patterns:    []string{"^COFFEE SHOP"},
			description: "COFFEE SHOP 123",
			want:        true,
		},
		{
			name:        "anchored pattern misses mid-string",
			patterns:    []string{"^COFFEE SHOP"},
			description: "POS COFFEE SHOP 123",
			want:        false,
		},
		{
			name:        "or across patterns",
			patterns:    []string{"^WHOLE FOODS", "TRADER JOE"},
			description: "TRADER JOES #42",
			want:        true,
		},
		{
			name:        "empty set never matches",
			patterns:    nil,
			description: "ANYTHING",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Compile(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Matches(tt.description))
		})
	}
}

func TestCompileFailsFast(t *testing.T) {
	_, err := Compile([]string{"^OK", "(["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "([")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("^COFFEE SHOP", "COFFEE SHOP 123"))
	assert.Error(t, Validate("^COFFEE SHOP", "BAKERY 9"))
	assert.Error(t, Validate("([", "COFFEE SHOP 123"))
}

func TestSuggest(t *testing.T) {
	s := Suggest("AMZN.COM*1A2B (US)")
	require.NoError(t, Validate(s, "AMZN.COM*1A2B (US)"))
	assert.Error(t, Validate(s, "AMZN COM 1A2B  US "))
}
