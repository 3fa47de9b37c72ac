package exporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func sampleRecords() []domain.TradeRecord {
	return []domain.TradeRecord{
		{
			Date: day("2024-03-01"), Symbol: "ES", HasSymbol: true,
			PnL: 12.5, Fees: 0.5, NetPnL: 12, Duration: 90, Direction: "Long",
			Extra: []domain.ExtraField{{Name: "Account", Value: "sim"}, {Name: "Size", Value: 2.0}},
		},
		{
			Date: day("2024-03-02"), Symbol: "NQ", HasSymbol: true,
			PnL: -4, Fees: 0.5, NetPnL: -4.5, Duration: 30.25, Direction: "Short",
			Extra: []domain.ExtraField{{Name: "Account", Value: nil}, {Name: "Size", Value: 1.0}},
		},
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name:    "headers and records",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}},
			want:    "a,b\n1,2\n",
		},
		{
			name:    "bom prefix",
			options: WriteOptions{Headers: []string{"a"}, BOMPrefix: true},
			want:    "\xEF\xBB\xBFa\n",
		},
		{
			name:    "quotes fields with commas",
			options: WriteOptions{Records: [][]string{{"x,y", "z"}}},
			want:    "\"x,y\",z\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, tt.options))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, WriteOptions{Headers: []string{"a"}, BOMPrefix: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOM")
}

func TestTradeHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"Date", "Symbol", "Direction", "Duration", "PnL", "Fees", "NetPnL", "Account", "Size"},
		TradeHeaders(sampleRecords()))

	noSymbol := []domain.TradeRecord{{Date: day("2024-03-01"), Direction: domain.UnknownDirection}}
	assert.Equal(t,
		[]string{"Date", "Direction", "Duration", "PnL", "Fees", "NetPnL"},
		TradeHeaders(noSymbol))
}

func TestTradeCSVWriter_WriteTrades(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTradeCSVWriter(nil).WriteTrades(&buf, sampleRecords()))

	out := strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Symbol,Direction,Duration,PnL,Fees,NetPnL,Account,Size", lines[0])
	assert.Equal(t, "2024-03-01,ES,Long,90,12.50,0.50,12.00,sim,2", lines[1])
	assert.Equal(t, "2024-03-02,NQ,Short,30.25,-4.00,0.50,-4.50,,1", lines[2])
}

func TestTradeCSVWriter_WriteDaily(t *testing.T) {
	var buf bytes.Buffer
	points := []domain.DailyPnLPoint{
		{Date: "2024-03-01", DailyPnL: 12, CumulativePnL: 12, TradeCount: 1},
		{Date: "2024-03-02", DailyPnL: -4.5, CumulativePnL: 7.5, TradeCount: 1},
	}
	require.NoError(t, NewTradeCSVWriter(nil).WriteDaily(&buf, points))
	assert.Contains(t, buf.String(), "Date,DailyPnL,CumulativePnL,TradeCount\n")
	assert.Contains(t, buf.String(), "2024-03-02,-4.50,7.50,1\n")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{1.5, "1.5"},
		{3.0, "3"},
		{"text", "text"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.in))
	}
}

func TestWorkbookExporter_Write(t *testing.T) {
	result := &domain.AnalysisResult{
		Stats: domain.Stats{Summary: domain.SummaryStats{TotalPnL: 7.5, TotalTrades: 2}},
		Charts: domain.Charts{
			DailyPnL: []domain.DailyPnLPoint{
				{Date: "2024-03-01", DailyPnL: 12, CumulativePnL: 12, TradeCount: 1},
				{Date: "2024-03-02", DailyPnL: -4.5, CumulativePnL: 7.5, TradeCount: 1},
			},
			DurationDistribution: []domain.DurationBucket{{Range: "<1m", Count: 1, WinRate: 0}},
		},
		Data:    sampleRecords(),
		Message: domain.SuccessMessage,
	}

	var buf bytes.Buffer
	require.NoError(t, NewWorkbookExporter(nil).Write(&buf, result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTrades, SheetDaily, SheetDuration}, f.GetSheetList())

	trades, err := f.GetRows(SheetTrades)
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, "Account", trades[0][7])
	assert.Equal(t, "ES", trades[1][1])

	daily, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, "7.5", daily[2][2])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total PnL", "7.5"}, summary[1])
}

func TestWorkbookExporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewWorkbookExporter(nil).Write(&buf, nil))
}
