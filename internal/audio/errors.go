package audio

import (
	"fmt"
	"strings"
	"time"
)

// UnsupportedFormatError means the file extension is not in the accepted set.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format %q (supported: %s)",
		e.Ext, strings.Join(SupportedExtensions(), ", "))
}

// FileSizeError means the file exceeds the configured size limit.
type FileSizeError struct {
	Size  int64
	Limit int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("audio file too large: %d bytes (max: %d)", e.Size, e.Limit)
}

// DurationError means the probed audio duration exceeds the configured limit.
type DurationError struct {
	Duration time.Duration
	Limit    time.Duration
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("audio too long: %s (max: %s)", e.Duration.Round(time.Second), e.Limit)
}
