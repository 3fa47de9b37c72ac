package services

import (
	"errors"

	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
)

// Journal service errors
var (
	// Upload errors
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")

	// Lookup errors
	ErrResultNotFound = errors.New("upload result not found")

	// Query errors
	ErrInvalidDateRange  = dataprocessing.ErrInvalidDateRange
	ErrInvalidMonth      = errors.New("invalid month")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
