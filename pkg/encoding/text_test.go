package encoding

import (
	"bytes"
	"testing"
)

// 啊 is the first GB2312 hanzi (B0 A1); B0 cannot start a UTF-8 sequence.
const legacyText = "啊牛奶"

func TestToUTF8(t *testing.T) {
	gb, err := FromUTF8(legacyText)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		in       []byte
		want     string
		encoding string
	}{
		{"plain", []byte("apple"), "apple", UTF8},
		{"utf-8 chinese", []byte("苹果"), "苹果", UTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "鸡蛋"...), "鸡蛋", UTF8},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'i', 0, 'd', 0}, "id", UTF16LE},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'i', 0, 'd'}, "id", UTF16BE},
		{"gb18030", gb, legacyText, GB18030},
		{"empty", nil, "", UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := ToUTF8(tt.in)
			if err != nil {
				t.Fatalf("ToUTF8: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if enc != tt.encoding {
				t.Errorf("encoding = %s, want %s", enc, tt.encoding)
			}
		})
	}
}

func TestFromUTF8IsNotUTF8(t *testing.T) {
	gb, err := FromUTF8(legacyText)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(gb, []byte{0xB0, 0xA1}) {
		t.Errorf("prefix = % x, want b0 a1", gb[:2])
	}
	if len(gb) != 6 {
		t.Errorf("len = %d, want 6 (three double-byte characters)", len(gb))
	}
}
