package codec

import (
	"fmt"
	"strings"
)

// Mode tells whether the games of a batch were rated or casual
type Mode uint8

const (
	Casual Mode = iota
	Rated
)

// ModeFromRated returns Rated when rated is true and Casual otherwise
func ModeFromRated(rated bool) Mode {
	if rated {
		return Rated
	}
	return Casual
}

// Valid reports whether m is Rated or Casual
func (m Mode) Valid() bool {
	return m == Rated || m == Casual
}

// IsRated reports whether m is Rated
func (m Mode) IsRated() bool {
	return m == Rated
}

func (m Mode) String() string {
	switch m {
	case Rated:
		return "rated"
	case Casual:
		return "casual"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode converts "rated" or "casual" (case-insensitive) into a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rated":
		return Rated, nil
	case "casual":
		return Casual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
