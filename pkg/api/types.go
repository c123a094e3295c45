package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/gamehdr/pkg/codec"
	"github.com/ssargent/gamehdr/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PackedHeader pairs a header with its one-byte encoding
type PackedHeader struct {
	Header codec.Header `json:"header"`
	Byte   uint8        `json:"byte"`
	Hex    string       `json:"hex"`
	Binary string       `json:"binary"`
}

// LogEntry is a header stored in the header log
type LogEntry struct {
	Index int64 `json:"index"`
	PackedHeader
}

// BatchRequest is the body for creating or replacing a batch
type BatchRequest struct {
	Headers []codec.Header `json:"headers"`
}

// BatchResponse describes a stored batch
type BatchResponse struct {
	ID      string         `json:"id"`
	Headers []codec.Header `json:"headers,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // Empty disables authentication
}

// HeaderLog defines the header log operations the API needs
type HeaderLog interface {
	Append(h codec.Header) (int64, error)
	Get(index int64) (codec.Header, error)
	Scan(start int64, limit int) ([]codec.Header, error)
	Len() int64
	Stats() (*store.LogStats, error)
}

// BatchStore defines the batch storage operations the API needs
type BatchStore interface {
	Create(headers []codec.Header) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) ([]codec.Header, error)
	Update(id ksuid.KSUID, headers []codec.Header) error
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
}
