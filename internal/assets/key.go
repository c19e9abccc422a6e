// Package assets resolves scene objects to visual assets and loads external
// models for them.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when a key name does not name any asset key.
var ErrUnknownKey = errors.New("unknown asset key")

// Key is the semantic category that picks a visual for a scene object.
type Key int

const (
	// KeyUnresolved means no rule matched; it renders as a neutral primitive.
	KeyUnresolved Key = iota
	KeyApple
	KeyFish
	KeyMilk
	KeyEgg
)

var keyNames = [...]string{
	KeyUnresolved: "unresolved",
	KeyApple:      "apple",
	KeyFish:       "fish",
	KeyMilk:       "milk",
	KeyEgg:        "egg",
}

// Keys lists every resolvable key, excluding KeyUnresolved.
func Keys() []Key {
	return []Key{KeyApple, KeyFish, KeyMilk, KeyEgg}
}

// String returns the lowercase key name.
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey converts a key name back to a Key.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return KeyUnresolved, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
