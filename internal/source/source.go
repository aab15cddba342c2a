// Package source turns CSS bytes into text. The encoding comes from a byte
// order mark, then a leading @charset rule, then the caller's hint, and
// falls back to UTF-8.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var boms = []struct {
	mark []byte
	enc  encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, unicode.UTF8},
	{[]byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{[]byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
}

var charsetPrefix = []byte(`@charset "`)

// Lookup resolves an encoding label such as "latin1" or "shift_jis".
func Lookup(label string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// charsetLabel returns the label of a leading `@charset "label";`, or "".
func charsetLabel(data []byte) string {
	if !bytes.HasPrefix(data, charsetPrefix) {
		return ""
	}
	rest := data[len(charsetPrefix):]
	end := bytes.Index(rest, []byte(`";`))
	if end <= 0 {
		return ""
	}
	return string(rest[:end])
}

// Detect picks the encoding for data and reports how many leading bytes
// are a byte order mark.
func Detect(data []byte, hint string) (enc encoding.Encoding, skip int, err error) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.mark) {
			return b.enc, len(b.mark), nil
		}
	}
	if label := charsetLabel(data); label != "" {
		if enc, err := Lookup(label); err == nil {
			// UTF-16 labels in @charset mean UTF-8.
			if name, _ := htmlindex.Name(enc); name == "utf-16be" || name == "utf-16le" {
				return unicode.UTF8, 0, nil
			}
			return enc, 0, nil
		}
	}
	if hint != "" {
		enc, err := Lookup(hint)
		if err != nil {
			return nil, 0, err
		}
		return enc, 0, nil
	}
	return unicode.UTF8, 0, nil
}

// DecodeBytes decodes data. Malformed input becomes U+FFFD rather than
// an error.
func DecodeBytes(data []byte, hint string) (string, error) {
	enc, skip, err := Detect(data, hint)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data[skip:])
	if err != nil {
		return "", fmt.Errorf("decoding CSS: %w", err)
	}
	return string(out), nil
}

// Decode reads all of r and decodes it.
func Decode(r io.Reader, hint string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading CSS: %w", err)
	}
	return DecodeBytes(data, hint)
}

// ReadFile reads and decodes the file at path.
func ReadFile(path, hint string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeBytes(data, hint)
}
