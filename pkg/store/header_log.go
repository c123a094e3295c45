package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ssargent/gamehdr/pkg/codec"
)

// LogFileName is the name of the header log inside the data directory
const LogFileName = "headers.log"

// HeaderLog is an append-only log of packed game headers. The header at
// index i is stored at byte offset i.
type HeaderLog struct {
	config  HeaderLogConfig
	writer  *LogWriter
	reader  *LogReader
	logger  zerolog.Logger
	logFile string
	mutex   sync.Mutex
	isOpen  bool
}

// NewHeaderLog creates a new header log instance
func NewHeaderLog(config HeaderLogConfig) (*HeaderLog, error) {
	if err := os.MkdirAll(config.DataDir, 0750); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "header_log").Logger()
	}

	return &HeaderLog{
		config:  config,
		logFile: filepath.Join(config.DataDir, LogFileName),
		logger:  logger,
	}, nil
}

// Open validates the log, truncating it at the first undecodable byte, and
// prepares it for reads and appends
func (l *HeaderLog) Open() (*RecoveryResult, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.isOpen {
		return &RecoveryResult{}, nil
	}

	recovery, err := l.validateLogFile()
	if err != nil {
		return nil, err
	}

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      l.logFile,
		FsyncInterval: l.config.FsyncInterval,
		BufferSize:    l.config.BufferSize,
	})
	if err != nil {
		return nil, err
	}
	l.writer = writer

	reader, err := NewLogReader(LogReaderConfig{FilePath: l.logFile})
	if err != nil {
		_ = l.writer.Close()
		return nil, err
	}
	l.reader = reader

	l.isOpen = true
	l.logger.Debug().
		Str("path", l.logFile).
		Int64("headers", recovery.HeadersValidated).
		Msg("header log opened")

	return recovery, nil
}

// Append adds a header to the end of the log and returns its index
func (l *HeaderLog) Append(h codec.Header) (int64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return 0, ErrNotOpen
	}

	index, err := l.writer.Append(h)
	if err != nil {
		return 0, err
	}

	l.logger.Debug().Int64("index", index).Stringer("header", h).Msg("header appended")
	return index, nil
}

// Get returns the header at the given index
func (l *HeaderLog) Get(index int64) (codec.Header, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return codec.Header{}, ErrNotOpen
	}
	if index < 0 || index >= l.writer.Size() {
		return codec.Header{}, ErrNotFound
	}

	if err := l.writer.Flush(); err != nil {
		return codec.Header{}, err
	}
	return l.reader.ReadAt(index)
}

// Scan returns up to limit headers starting at index start. A limit of zero
// or less reads to the end of the log.
func (l *HeaderLog) Scan(start int64, limit int) ([]codec.Header, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return nil, ErrNotOpen
	}

	size := l.writer.Size()
	if start < 0 {
		start = 0
	}
	if start >= size {
		return []codec.Header{}, nil
	}
	if remaining := size - start; limit <= 0 || int64(limit) > remaining {
		limit = int(remaining)
	}

	if err := l.writer.Flush(); err != nil {
		return nil, err
	}
	return l.reader.ReadRange(start, limit)
}

// Len returns the number of headers in the log
func (l *HeaderLog) Len() int64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return 0
	}
	return l.writer.Size()
}

// Stats aggregates the games held in the log by speed and mode
func (l *HeaderLog) Stats() (*LogStats, error) {
	headers, err := l.Scan(0, 0)
	if err != nil {
		return nil, err
	}

	stats := &LogStats{
		Headers:   int64(len(headers)),
		SizeBytes: int64(len(headers)),
		BySpeed:   make(map[string]int64),
		ByMode:    make(map[string]int64),
	}
	for _, s := range codec.Speeds() {
		stats.BySpeed[s.String()] = 0
	}
	stats.ByMode[codec.Rated.String()] = 0
	stats.ByMode[codec.Casual.String()] = 0

	for _, h := range headers {
		games := int64(h.Games)
		stats.Games += games
		stats.BySpeed[h.Speed.String()] += games
		stats.ByMode[h.Mode.String()] += games
	}

	return stats, nil
}

// Sync flushes and fsyncs pending appends
func (l *HeaderLog) Sync() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return ErrNotOpen
	}
	return l.writer.Sync()
}

// Close syncs and closes the log
func (l *HeaderLog) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.isOpen {
		return nil
	}
	l.isOpen = false

	writerErr := l.writer.Close()
	readerErr := l.reader.Close()
	return errors.Join(writerErr, readerErr)
}

// Path returns the path of the log file
func (l *HeaderLog) Path() string {
	return l.logFile
}

// validateLogFile scans the log and truncates it at the first byte that does
// not decode. Everything after that byte is dropped.
func (l *HeaderLog) validateLogFile() (*RecoveryResult, error) {
	startTime := time.Now()

	fileInfo, err := os.Stat(l.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return &RecoveryResult{RecoveryTime: time.Since(startTime)}, nil
		}
		return nil, err
	}
	fileSizeBefore := fileInfo.Size()

	reader, err := NewLogReader(LogReaderConfig{FilePath: l.logFile})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var validated int64
	var readErr error
	for {
		if _, readErr = reader.ReadNext(); readErr != nil {
			break
		}
		validated++
	}

	if readErr != io.EOF && !errors.Is(readErr, ErrCorruption) {
		return nil, readErr
	}

	result := &RecoveryResult{
		HeadersValidated: validated,
		FileSizeBefore:   fileSizeBefore,
		FileSizeAfter:    fileSizeBefore,
	}

	if errors.Is(readErr, ErrCorruption) {
		if err := os.Truncate(l.logFile, validated); err != nil {
			return nil, err
		}
		result.FileSizeAfter = validated
		result.BytesTruncated = fileSizeBefore - validated

		l.logger.Warn().
			Err(readErr).
			Int64("valid_headers", validated).
			Int64("bytes_truncated", result.BytesTruncated).
			Msg("truncated corrupt header log")
	}

	result.RecoveryTime = time.Since(startTime)
	return result, nil
}
