// Package csvio reads monitor exports from disk into rows.
//
// Exports come from Windows software and show up as ASCII, UTF-16 with a
// byte order mark, UTF-8, or Windows-1250. [Decode] sniffs the encoding and
// [ParseRows] splits the text into rows, keeping blank lines as rows with
// no fields because the parser uses them as section separators.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by Decode.
const (
	ASCII       = "ascii"
	UTF16       = "utf-16"
	UTF8        = "utf-8"
	Windows1250 = "windows-1250"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw file bytes to text and reports the encoding it
// detected. Candidates are tried in order: UTF-16 with BOM, UTF-16LE
// without BOM when the data contains NUL bytes, ASCII, UTF-8 (BOM
// stripped), and finally Windows-1250, which accepts any input.
func Decode(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		s, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		return s, UTF16, err

	// Text files never contain NUL, UTF-16 almost always does.
	case len(data)%2 == 0 && bytes.IndexByte(data, 0) >= 0:
		s, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data)
		return s, UTF16, err

	case isASCII(data):
		return string(data), ASCII, nil

	case utf8.Valid(data):
		return string(bytes.TrimPrefix(data, bomUTF8)), UTF8, nil
	}

	s, err := decodeWith(charmap.Windows1250, data)
	return s, Windows1250, err
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// ParseRows splits text into comma-separated rows. Lines may end in "\n",
// "\r\n" or a lone "\r". A blank line becomes a row with no fields. A
// trailing line break does not start a new row. Quoted fields may contain
// commas but not line breaks.
func ParseRows(text string) ([][]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))

	for i, line := range lines {
		if line == "" {
			rows = append(rows, []string{})
			continue
		}

		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		fields, err := r.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if fields == nil {
			fields = []string{}
		}
		rows = append(rows, fields)
	}

	return rows, nil
}

// ReadFile reads, decodes and splits the file at path. It returns the rows
// and the detected encoding.
func ReadFile(path string) ([][]string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	text, enc, err := Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	rows, err := ParseRows(text)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return rows, enc, nil
}

// WriteFile writes text to path, replacing any existing file.
func WriteFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
