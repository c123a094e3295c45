package codec

import (
	"fmt"
	"strings"
)

// Speed is the time-control class of a batch of games
type Speed uint8

const (
	Ultrabullet Speed = iota
	Bullet
	Blitz
	Rapid
	Classical
	Correspondence
)

// speedCount is the number of defined speed classes. Codes at or above it
// have no corresponding variant.
const speedCount = 6

var speedNames = [speedCount]string{
	Ultrabullet:    "ultrabullet",
	Bullet:         "bullet",
	Blitz:          "blitz",
	Rapid:          "rapid",
	Classical:      "classical",
	Correspondence: "correspondence",
}

// Speeds returns all speed classes in discriminant order
func Speeds() []Speed {
	return []Speed{Ultrabullet, Bullet, Blitz, Rapid, Classical, Correspondence}
}

// Valid reports whether s is one of the defined speed classes
func (s Speed) Valid() bool {
	return s < speedCount
}

func (s Speed) String() string {
	if !s.Valid() {
		return fmt.Sprintf("speed(%d)", uint8(s))
	}
	return speedNames[s]
}

// ParseSpeed converts a speed name (case-insensitive) into a Speed
func ParseSpeed(name string) (Speed, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range speedNames {
		if n == name {
			return Speed(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpeed, name)
}

// MarshalText implements encoding.TextMarshaler
func (s Speed) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpeed, uint8(s))
	}
	return []byte(speedNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Speed) UnmarshalText(text []byte) error {
	parsed, err := ParseSpeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
