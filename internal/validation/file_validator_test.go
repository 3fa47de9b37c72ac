package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/KwachuQ/trading-dashboard/internal/errors"
)

func errType(t *testing.T, err error) apierrors.ErrorType {
	t.Helper()
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Type
}

func TestFileValidator_ValidateName(t *testing.T) {
	v := NewFileValidator(slog.Default(), nil, 0)

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"lowercase csv", "trades.csv", false},
		{"uppercase csv", "TRADES.CSV", false},
		{"nested path", "/tmp/exports/trades.csv", false},
		{"excel file", "trades.xlsx", true},
		{"no extension", "trades", true},
		{"csv in the middle", "trades.csv.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apierrors.ErrTypeValidation, errType(t, err))
				assert.Contains(t, err.Error(), "Only CSV files are allowed")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateSize(t *testing.T) {
	v := NewFileValidator(nil, nil, 10)

	assert.NoError(t, v.ValidateSize(10))
	assert.ErrorContains(t, v.ValidateSize(0), "empty")
	assert.ErrorContains(t, v.ValidateSize(11), "limit is 10")

	unlimited := NewFileValidator(nil, nil, 0)
	assert.NoError(t, unlimited.ValidateSize(1<<40))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(file, []byte("Date,PnL\n"), 0644))

	v := NewFileValidator(slog.Default(), nil, 0)

	assert.NoError(t, v.ValidateFile(file))

	err := v.ValidateFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, apierrors.ErrTypeNotFound, errType(t, err))

	err = v.ValidateFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateJournalFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(good, []byte("Date,PnL\n2024-01-01,1\n"), 0644))
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	wrongExt := filepath.Join(dir, "trades.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0644))

	v := NewFileValidator(nil, []string{".csv"}, 1024)

	assert.NoError(t, v.ValidateJournalFile(good))
	assert.ErrorContains(t, v.ValidateJournalFile(empty), "empty")
	assert.ErrorContains(t, v.ValidateJournalFile(wrongExt), "Only CSV")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	v := NewFileValidator(nil, nil, 0)

	require.NoError(t, v.ValidateOutputDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))
}
