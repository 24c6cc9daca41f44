package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"slash full", "9/10/2024", time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), true},
		{"leading zeros", "09/10/2024", time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), true},
		{"dash full", "9-10-2024", time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), true},
		{"month year", "3/2019", time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"surrounding space", " 12/25/2023 ", time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), true},
		{"two digit year", "9/10/24", time.Time{}, false},
		{"month out of range", "13/10/2024", time.Time{}, false},
		{"day overflow", "4/31/2024", time.Time{}, false},
		{"iso format", "2024-09-10", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if !tt.ok {
				var perr *ParseError
				require.Error(t, err)
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, KindInvalidDate, perr.Kind)
				assert.Equal(t, tt.input, perr.Original)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseDateLeadingZerosRoundTrip(t *testing.T) {
	a, err := ParseDate("9/10/2024")
	require.NoError(t, err)
	b, err := ParseDate("09/10/2024")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"plain", "145772", 145772, true},
		{"thousands separator", "145,772", 145772, true},
		{"k suffix", "145k", 145000, true},
		{"upper k suffix", "145K", 145000, true},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, false},
		{"decimal", "145.5", 0, false},
		{"decimal k", "12.5k", 0, false},
		{"empty", "", 0, false},
		{"words", "lots", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMileage(tt.input)
			if !tt.ok {
				var perr *ParseError
				require.Error(t, err)
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, KindInvalidMileage, perr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "129.99", "129.99", true},
		{"dollar sign", "$129.99", "129.99", true},
		{"thousands", "$1,234.56", "1234.56", true},
		{"parenthesized negative", "(123.45)", "-123.45", true},
		{"dollar in parens", "($123.45)", "-123.45", true},
		{"explicit negative", "-50", "-50", true},
		{"integer", "40", "40", true},
		{"garbage", "cheap", "", false},
		{"double symbols", "$$5", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCost(tt.input)
			if !tt.ok {
				var perr *ParseError
				require.Error(t, err)
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, KindInvalidCost, perr.Kind)
				assert.Equal(t, tt.input, perr.Original)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestParseCostEmptyMeansAbsent(t *testing.T) {
	got, err := ParseCost("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseCost("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}
