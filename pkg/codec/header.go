package codec

import (
	"errors"
	"fmt"
	"io"
)

const (
	// MaxGames is the largest game count a header can carry
	MaxGames = 15

	modeBit    = 0b0000_0001
	speedShift = 1
	speedMask  = 0b111
	gamesShift = 4
	gamesMask  = 0b1111
)

var (
	// ErrInvalidEncoding is returned when a packed header holds a speed code
	// without a corresponding speed class
	ErrInvalidEncoding = errors.New("invalid header encoding")
	// ErrGamesOutOfRange is returned when encoding more than MaxGames games
	ErrGamesOutOfRange = errors.New("games out of range")
	// ErrUnknownSpeed is returned for a speed outside the defined classes
	ErrUnknownSpeed = errors.New("unknown speed")
	// ErrUnknownMode is returned for a mode other than Rated or Casual
	ErrUnknownMode = errors.New("unknown mode")
)

// Header summarizes a batch of games played in one mode and speed class
type Header struct {
	Mode  Mode  `json:"mode" yaml:"mode"`
	Speed Speed `json:"speed" yaml:"speed"`
	Games uint8 `json:"games" yaml:"games"`
}

// Validate checks that h can be packed without losing information
func (h Header) Validate() error {
	if !h.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, uint8(h.Mode))
	}
	if !h.Speed.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSpeed, uint8(h.Speed))
	}
	if h.Games > MaxGames {
		return fmt.Errorf("%w: %d > %d", ErrGamesOutOfRange, h.Games, MaxGames)
	}
	return nil
}

// Pack encodes h into its one-byte wire form
func (h Header) Pack() (byte, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	var b byte
	if h.Mode.IsRated() {
		b |= modeBit
	}
	b |= byte(h.Speed) << speedShift
	b |= (h.Games & gamesMask) << gamesShift
	return b, nil
}

func (h Header) String() string {
	return fmt.Sprintf("%s %s x%d", h.Mode, h.Speed, h.Games)
}

// Unpack decodes a one-byte header. No partial header is returned on error.
func Unpack(b byte) (Header, error) {
	code := (b >> speedShift) & speedMask
	if code >= speedCount {
		return Header{}, fmt.Errorf("%w: speed code %d in byte 0x%02x", ErrInvalidEncoding, code, b)
	}

	return Header{
		Mode:  ModeFromRated(b&modeBit != 0),
		Speed: Speed(code),
		Games: b >> gamesShift,
	}, nil
}

// ReadHeader reads and decodes exactly one header byte from r.
// Errors from r are returned unchanged.
func ReadHeader(r io.ByteReader) (Header, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Header{}, err
	}
	return Unpack(b)
}

// WriteHeader encodes h and writes exactly one byte to w.
// Errors from w are returned unchanged.
func WriteHeader(w io.ByteWriter, h Header) error {
	b, err := h.Pack()
	if err != nil {
		return err
	}
	return w.WriteByte(b)
}

// HeaderCodec handles serialization and deserialization of headers
type HeaderCodec struct{}

// NewHeaderCodec creates a new header codec instance
func NewHeaderCodec() *HeaderCodec {
	return &HeaderCodec{}
}

// Encode serializes a header into its one-byte form
func (c *HeaderCodec) Encode(h Header) (byte, error) {
	return h.Pack()
}

// Decode deserializes a one-byte header
func (c *HeaderCodec) Decode(b byte) (Header, error) {
	return Unpack(b)
}

// Read reads one header from r
func (c *HeaderCodec) Read(r io.ByteReader) (Header, error) {
	return ReadHeader(r)
}

// Write writes one header to w
func (c *HeaderCodec) Write(w io.ByteWriter, h Header) error {
	return WriteHeader(w, h)
}

// EncodeBatch packs headers into a byte slice, one byte per header
func (c *HeaderCodec) EncodeBatch(headers []Header) ([]byte, error) {
	buf := make([]byte, len(headers))
	for i, h := range headers {
		b, err := h.Pack()
		if err != nil {
			return nil, fmt.Errorf("header %d: %w", i, err)
		}
		buf[i] = b
	}
	return buf, nil
}

// DecodeBatch unpacks a byte slice produced by EncodeBatch.
// Decoding stops at the first invalid byte.
func (c *HeaderCodec) DecodeBatch(data []byte) ([]Header, error) {
	headers := make([]Header, 0, len(data))
	for i, b := range data {
		h, err := Unpack(b)
		if err != nil {
			return nil, fmt.Errorf("header %d: %w", i, err)
		}
		headers = append(headers, h)
	}
	return headers, nil
}
