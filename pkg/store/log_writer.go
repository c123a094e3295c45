package store

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ssargent/gamehdr/pkg/codec"
)

// LogWriter handles append-only writes to the header log
type LogWriter struct {
	file       *os.File
	writer     *bufio.Writer
	codec      *codec.HeaderCodec
	fsyncTimer *time.Timer
	config     LogWriterConfig
	mutex      sync.Mutex
	offset     int64 // Current write offset
}

// NewLogWriter creates a new log writer with the given configuration
func NewLogWriter(config LogWriterConfig) (*LogWriter, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	writer := &LogWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, bufferSize),
		codec:  codec.NewHeaderCodec(),
		config: config,
		offset: offset,
	}

	if config.FsyncInterval > 0 {
		writer.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			writer.mutex.Lock()
			defer writer.mutex.Unlock()
			_ = writer.sync()
		})
	}

	return writer, nil
}

// Append writes a header to the log and returns the offset it was written at.
// Since every header is one byte the offset doubles as the header index.
func (w *LogWriter) Append(h codec.Header) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.codec.Write(w.writer, h); err != nil {
		return 0, err
	}

	offset := w.offset
	w.offset++

	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	} else if w.fsyncTimer != nil {
		w.fsyncTimer.Reset(w.config.FsyncInterval)
	}

	return offset, nil
}

// Flush pushes buffered headers to the file without forcing an fsync
func (w *LogWriter) Flush() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.writer.Flush()
}

// Sync forces a fsync to disk
func (w *LogWriter) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

func (w *LogWriter) sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close closes the log writer and ensures all data is synced
func (w *LogWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	if err := w.sync(); err != nil {
		_ = w.file.Close()
		return err
	}

	return w.file.Close()
}

// Size returns the current size of the log file, buffered headers included
func (w *LogWriter) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *LogWriter) Path() string {
	return w.config.FilePath
}
