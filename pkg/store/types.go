package store

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/ssargent/gamehdr/pkg/codec"
)

// LogWriterConfig holds configuration for the log writer
type LogWriterConfig struct {
	FilePath      string        // Path to the header log file
	FsyncInterval time.Duration // How often to fsync (0 = every write)
	BufferSize    int           // Write buffer size
}

// LogReaderConfig holds configuration for the log reader
type LogReaderConfig struct {
	FilePath    string // Path to the header log file
	StartOffset int64  // Offset to start reading from
}

// HeaderLogConfig holds configuration for the header log
type HeaderLogConfig struct {
	DataDir       string          // Directory holding headers.log
	FsyncInterval time.Duration   // Fsync interval for durability
	BufferSize    int             // Write buffer size, defaults to 4096
	Logger        *zerolog.Logger // Optional, nil disables logging
}

// HeaderIterator provides streaming access to headers
type HeaderIterator interface {
	Next() bool
	Header() codec.Header
	Offset() int64
	Err() error
	Close() error
}

// RecoveryResult describes what Open found while validating the log
type RecoveryResult struct {
	HeadersValidated int64         `json:"headers_validated"`
	BytesTruncated   int64         `json:"bytes_truncated"`
	FileSizeBefore   int64         `json:"file_size_before"`
	FileSizeAfter    int64         `json:"file_size_after"`
	RecoveryTime     time.Duration `json:"recovery_time"`
}

// LogStats aggregates the headers held in the log
type LogStats struct {
	Headers   int64            `json:"headers"`
	Games     int64            `json:"games"`
	SizeBytes int64            `json:"size_bytes"`
	BySpeed   map[string]int64 `json:"by_speed"`
	ByMode    map[string]int64 `json:"by_mode"`
}

// Errors
var (
	ErrNotFound   = &StoreError{"header not found"}
	ErrNotOpen    = &StoreError{"header log is not open"}
	ErrCorruption = &StoreError{"data corruption detected"}
)

// StoreError represents a header log error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
