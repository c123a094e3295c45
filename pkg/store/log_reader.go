package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/gamehdr/pkg/codec"
)

// LogReader provides sequential and random access to headers in a log file
type LogReader struct {
	file   *os.File
	reader *bufio.Reader
	codec  *codec.HeaderCodec
	offset int64
	config LogReaderConfig
}

// NewLogReader creates a new log reader for the specified file
func NewLogReader(config LogReaderConfig) (*LogReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return &LogReader{
		file:   file,
		reader: bufio.NewReader(file),
		codec:  codec.NewHeaderCodec(),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// ReadNext reads the header at the current offset. It returns io.EOF at the
// end of the file and ErrCorruption when the byte does not decode.
func (r *LogReader) ReadNext() (codec.Header, error) {
	h, err := r.codec.Read(r.reader)
	if err != nil {
		if errors.Is(err, codec.ErrInvalidEncoding) {
			return codec.Header{}, fmt.Errorf("%w at offset %d: %w", ErrCorruption, r.offset, err)
		}
		return codec.Header{}, err
	}
	r.offset++
	return h, nil
}

// ReadAt reads the header at a specific offset without moving the
// sequential read position
func (r *LogReader) ReadAt(offset int64) (codec.Header, error) {
	headers, err := r.ReadRange(offset, 1)
	if err != nil {
		return codec.Header{}, err
	}
	if len(headers) == 0 {
		return codec.Header{}, ErrNotFound
	}
	return headers[0], nil
}

// ReadRange reads up to limit headers starting at offset. Fewer headers are
// returned when the file ends first.
func (r *LogReader) ReadRange(offset int64, limit int) ([]codec.Header, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid range: offset %d, limit %d", offset, limit)
	}

	buf := make([]byte, limit)
	n, err := r.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}

	headers, err := r.codec.DecodeBatch(buf[:n])
	if err != nil {
		return nil, fmt.Errorf("%w in range starting at %d: %w", ErrCorruption, offset, err)
	}
	return headers, nil
}

// Seek sets the read offset
func (r *LogReader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	r.reader.Reset(r.file)
	r.offset = offset
	return nil
}

// Offset returns the current read offset
func (r *LogReader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator over the remaining headers
func (r *LogReader) Iterator() HeaderIterator {
	return &logHeaderIterator{reader: r}
}

// Close closes the log reader
func (r *LogReader) Close() error {
	return r.file.Close()
}

type logHeaderIterator struct {
	reader *LogReader
	header codec.Header
	offset int64
	err    error
}

func (it *logHeaderIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.offset = it.reader.Offset()
	it.header, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *logHeaderIterator) Header() codec.Header {
	return it.header
}

func (it *logHeaderIterator) Offset() int64 {
	return it.offset
}

// Err returns the error that stopped iteration, nil at a clean end of file
func (it *logHeaderIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *logHeaderIterator) Close() error {
	// The underlying reader is owned by the caller
	return nil
}
