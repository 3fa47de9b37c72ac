package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/KwachuQ/trading-dashboard/internal/errors"
)

// FileValidator checks journal files before they reach the pipeline. It is
// shared by the upload handler and the command-line processor.
type FileValidator struct {
	logger            *slog.Logger
	allowedExtensions []string
	maxBytes          int64
}

// NewFileValidator creates a new file validator. A maxBytes of zero disables
// the size check.
func NewFileValidator(logger *slog.Logger, allowedExtensions []string, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{".csv"}
	}
	return &FileValidator{
		logger:            logger,
		allowedExtensions: allowedExtensions,
		maxBytes:          maxBytes,
	}
}

// ValidateName checks the file name carries an allowed extension
func (v *FileValidator) ValidateName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range v.allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	v.logger.Warn("Rejected file with unsupported extension",
		slog.String("file", name),
		slog.String("extension", ext))
	return apierrors.NewAppValidationError("Only CSV files are allowed").
		WithContext("file", name).
		WithContext("extension", ext)
}

// ValidateSize checks size against the configured limit
func (v *FileValidator) ValidateSize(size int64) error {
	if size == 0 {
		return apierrors.NewAppValidationError("file is empty")
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return apierrors.NewAppValidationError(
			fmt.Sprintf("file is %d bytes, limit is %d", size, v.maxBytes))
	}
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apierrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apierrors.NewPermissionError(fmt.Sprintf("file %s is not readable: %v", path, err))
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateJournalFile runs every check a journal on disk must pass
func (v *FileValidator) ValidateJournalFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if err := v.ValidateName(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return apierrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	return v.ValidateSize(info.Size())
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewPermissionError(fmt.Sprintf("output directory %s is not writable", dir))
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
