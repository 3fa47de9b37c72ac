package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KwachuQ/trading-dashboard/internal/config"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

const journalCSV = "Date,Symbol,Side,Duration,PnL,Fees\n" +
	"2024-01-02,ES,Long,00:05:00,20,1\n" +
	"2024-01-03,NQ,Short,00:01:30,-8,1\n" +
	"2024-01-03,ES,Long,00:10:00,15,1\n"

func writeJournal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), args, &out, config.Default(), logger)
	return out.String(), err
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		check   func(t *testing.T, o *options)
	}{
		{
			name: "file flag",
			args: []string{"-file", "trades.csv", "-from", "2024-01-01"},
			check: func(t *testing.T, o *options) {
				assert.Equal(t, "trades.csv", o.file)
				assert.Equal(t, "2024-01-01", o.from)
				assert.Equal(t, int64(config.DefaultMaxUploadBytes), o.maxBytes)
			},
		},
		{
			name: "positional file",
			args: []string{"-pretty", "trades.csv"},
			check: func(t *testing.T, o *options) {
				assert.Equal(t, "trades.csv", o.file)
				assert.True(t, o.pretty)
			},
		},
		{name: "missing file", args: []string{}, wantErr: "-file or -dir is required"},
		{name: "bad export", args: []string{"-file", "a.csv", "-export", "pdf"}, wantErr: "unsupported export format"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args, config.Default(), io.Discard)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestRun_WritesPayload(t *testing.T) {
	path := writeJournal(t, journalCSV)

	out, err := runCLI(t, "-file", path)
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Stats.Summary.TotalTrades)
	assert.Equal(t, 24.0, result.Stats.Summary.TotalPnL)
	assert.Len(t, result.Charts.DailyPnL, 2)
}

func TestRun_DateRange(t *testing.T) {
	path := writeJournal(t, journalCSV)

	out, err := runCLI(t, "-file", path, "-from", "2024-01-03")
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Stats.Summary.TotalTrades)
	assert.Equal(t, 5.0, result.Stats.Summary.TotalPnL)

	_, err = runCLI(t, "-file", path, "-from", "2024-02-01", "-to", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestRun_OutFile(t *testing.T) {
	path := writeJournal(t, journalCSV)
	dest := filepath.Join(t.TempDir(), "nested", "payload.json")

	out, err := runCLI(t, "-file", path, "-out", dest, "-pretty")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"stats\"")
}

func TestRun_Export(t *testing.T) {
	path := writeJournal(t, journalCSV)
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		dest := filepath.Join(dir, "out.csv")
		_, err := runCLI(t, "-file", path, "-export", "csv", "-export-out", dest)
		require.NoError(t, err)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff")), "\n")
		assert.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "Date,Symbol,Direction"))
	})

	t.Run("daily", func(t *testing.T) {
		dest := filepath.Join(dir, "daily.csv")
		_, err := runCLI(t, "-file", path, "-export", "daily", "-export-out", dest)
		require.NoError(t, err)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Date,DailyPnL,CumulativePnL,TradeCount")
	})

	t.Run("xlsx next to input", func(t *testing.T) {
		_, err := runCLI(t, "-file", path, "-export", "xlsx")
		require.NoError(t, err)

		f, err := excelize.OpenFile(strings.TrimSuffix(path, ".csv") + ".xlsx")
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, f.GetSheetList(), "Trades")
	})
}

func TestRun_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.csv") },
			wantErr: "not found",
		},
		{
			name: "wrong extension",
			setup: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "trades.txt")
				require.NoError(t, os.WriteFile(p, []byte(journalCSV), 0644))
				return p
			},
			wantErr: "Only CSV files are allowed",
		},
		{
			name:    "no pnl column",
			setup:   func(t *testing.T) string { return writeJournal(t, "Date,Symbol\n2024-01-02,ES\n") },
			wantErr: "must contain at least",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "-file", tt.setup(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_Dir(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.csv")
	require.NoError(t, os.WriteFile(old, []byte("Date,PnL\n2024-01-01,1\n"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte(journalCSV), 0644))

	out, err := runCLI(t, "-dir", dir)
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Stats.Summary.TotalTrades)

	_, err = runCLI(t, "-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no journal exports found")
}

func TestRun_Version(t *testing.T) {
	out, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestDefaultExportPath(t *testing.T) {
	assert.Equal(t, "data/trades_export.csv", defaultExportPath("data/trades.csv", "csv"))
	assert.Equal(t, "data/trades_daily.csv", defaultExportPath("data/trades.csv", "daily"))
	assert.Equal(t, "data/trades.xlsx", defaultExportPath("data/trades.csv", "xlsx"))
}
