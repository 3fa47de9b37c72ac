package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
		zero    bool
	}{
		{name: "open range", zero: true},
		{name: "from only", from: "2023-01-01"},
		{name: "both bounds", from: "2023-01-01", to: "2023-01-31"},
		{name: "same day", from: "2023-01-01", to: "2023-01-01"},
		{name: "reversed", from: "2023-02-01", to: "2023-01-01", wantErr: ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.zero, r.IsZero())
		})
	}

	_, err := ParseDateRange("01/02/2023", "")
	assert.Error(t, err)
}

func TestFilterByDate(t *testing.T) {
	records := []domain.TradeRecord{
		trade("2023-01-01", 1, 0, 0, ""),
		trade("2023-01-02", 2, 0, 0, ""),
		trade("2023-01-03", 3, 0, 0, ""),
	}

	r, err := ParseDateRange("2023-01-02", "2023-01-03")
	require.NoError(t, err)
	got := FilterByDate(records, r)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].PnL)
	assert.Equal(t, 3.0, got[1].PnL)

	r, err = ParseDateRange("", "2023-01-01")
	require.NoError(t, err)
	assert.Len(t, FilterByDate(records, r), 1)

	assert.Len(t, FilterByDate(records, DateRange{}), 3)
}
