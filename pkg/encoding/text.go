// Package encoding normalizes text files exported by other tools to UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Names reported by ToUTF8.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	GB18030 = "gb18030"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ToUTF8 returns data as UTF-8 without a byte order mark, along with the
// name of the encoding it was detected as. UTF-16 needs a BOM; any other
// input that is not valid UTF-8 is decoded as GB18030.
func ToUTF8(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], UTF8, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, UTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decode(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, UTF16BE)
	case utf8.Valid(data):
		return data, UTF8, nil
	default:
		return decode(simplifiedchinese.GB18030, data, GB18030)
	}
}

func decode(enc encoding.Encoding, data []byte, name string) ([]byte, string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, name, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, name, nil
}

// FromUTF8 encodes s in GB18030, for tools that only read legacy Chinese
// encodings.
func FromUTF8(s string) ([]byte, error) {
	out, _, err := transform.Bytes(simplifiedchinese.GB18030.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding gb18030: %w", err)
	}
	return out, nil
}
