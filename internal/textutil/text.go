package textutil

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	TabWidth = 4

	// SniffLen is how much decoded text is inspected for binary content.
	SniffLen = 8192

	EncodingUTF8    = "utf-8"
	EncodingGBK     = "gbk"
	EncodingGB18030 = "gb18030"
	EncodingLatin1  = "latin1"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
)

var encodings = map[string]encoding.Encoding{
	EncodingGBK:     simplifiedchinese.GBK,
	EncodingGB18030: simplifiedchinese.GB18030,
	EncodingLatin1:  charmap.ISO8859_1,
	EncodingUTF16LE: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	EncodingUTF16BE: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// Encodings lists the accepted encoding names.
func Encodings() []string {
	out := []string{EncodingUTF8}
	for name := range encodings {
		out = append(out, name)
	}
	sort.Strings(out[1:])
	return out
}

// NormalizeEncoding maps user spellings ("UTF8", "ISO-8859-1") onto a known name.
func NormalizeEncoding(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "iso-8859-1", "iso8859-1", "latin-1":
		return EncodingLatin1, nil
	case "utf16le", "utf-16-le":
		return EncodingUTF16LE, nil
	case "utf16be", "utf-16-be":
		return EncodingUTF16BE, nil
	}
	if _, ok := encodings[n]; ok {
		return n, nil
	}
	return "", fmt.Errorf("unsupported encoding %q (supported: %s)", name, strings.Join(Encodings(), ", "))
}

// NewReader wraps r so that it yields UTF-8. A leading byte order mark wins over
// the named encoding. For utf-8 the bytes pass through untouched so that invalid
// sequences can still be reported by the caller.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	n, err := NormalizeEncoding(name)
	if err != nil {
		return nil, err
	}
	var fallback transform.Transformer = transform.Nop
	if enc, ok := encodings[n]; ok {
		fallback = enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}

func DetectBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	ctl := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b == 9 || b == 10 || b == 13 {
			continue
		}
		if b < 32 || b == 127 {
			ctl++
		}
	}
	ratio := float64(ctl) / float64(len(sample))
	return ratio > 0.30
}

// TrimmedLen is the rune length of line without leading and trailing whitespace.
func TrimmedLen(line string) int {
	return utf8.RuneCountInString(strings.TrimSpace(line))
}

func DisplayWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col += TabWidth - (col % TabWidth)
			continue
		}
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		col += w
	}
	return col
}

// TruncateLeft keeps the tail of s so that prefix+tail fits in width display
// columns, measured like DisplayWidth. The end of a path is the part worth
// keeping.
func TruncateLeft(s string, width int, prefix string) string {
	if width <= 0 || DisplayWidth(s) <= width {
		return s
	}
	budget := width - DisplayWidth(prefix)
	if budget <= 0 {
		return runewidth.Truncate(prefix, width, "")
	}
	runes := []rune(s)
	i := len(runes)
	for i > 0 && DisplayWidth(string(runes[i-1:])) <= budget {
		i--
	}
	return prefix + string(runes[i:])
}
