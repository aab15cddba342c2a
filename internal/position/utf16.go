// Package position converts between the code point columns the CSS parser
// reports and the UTF-16 offsets the language server protocol uses.
package position

import (
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 code unit offset within s to a byte
// offset. An offset that lands inside a surrogate pair clamps to the start
// of that code point.
func UTF16ToByteOffset(s string, utf16Col int) int {
	if utf16Col <= 0 {
		return 0
	}
	units, off := 0, 0
	for off < len(s) && units < utf16Col {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == utf8.RuneError && size == 1 {
			off++
			units++
			continue
		}
		n := utf16.RuneLen(r)
		if n == 2 && units+1 == utf16Col {
			break
		}
		units += n
		off += size
	}
	return off
}

// StringLengthUTF16 returns the length of s in UTF-16 code units.
func StringLengthUTF16(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// RuneColumnToUTF16 converts a 0-based code point column within line to a
// UTF-16 offset. Columns past the end clamp to the line length.
func RuneColumnToUTF16(line string, col int) int {
	units := 0
	for _, r := range line {
		if col <= 0 {
			break
		}
		units += utf16.RuneLen(r)
		col--
	}
	return units
}

// UTF16ToRuneColumn converts a UTF-16 offset within line to a 0-based code
// point column.
func UTF16ToRuneColumn(line string, units int) int {
	return utf8.RuneCountInString(line[:UTF16ToByteOffset(line, units)])
}

// Line returns the 0-based line n of text without its terminator, or "".
// CR, CRLF and LF all end a line.
func Line(text string, n int) string {
	for i := 0; i < n; i++ {
		j := strings.IndexAny(text, "\r\n")
		if j < 0 {
			return ""
		}
		if text[j] == '\r' && j+1 < len(text) && text[j+1] == '\n' {
			j++
		}
		text = text[j+1:]
	}
	if j := strings.IndexAny(text, "\r\n"); j >= 0 {
		return text[:j]
	}
	return text
}

// Clamp converts n to a uint32 for protocol structures.
func Clamp(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(n)
}
