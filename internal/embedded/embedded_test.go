package embedded_test

import (
	"testing"

	"bennypowers.dev/cssom/internal/embedded"
	"github.com/stretchr/testify/assert"
)

func TestAt(t *testing.T) {
	src := "ab\r\ncd\ré <x>"
	r := embedded.At(src, len("ab\r\ncd\ré "), "<x>", embedded.Template)
	assert.Equal(t, 2, r.StartLine)
	assert.Equal(t, 2, r.StartCol)
	assert.Equal(t, "css template", r.Kind.String())

	r = embedded.At(src, 0, "", embedded.StyleElement)
	assert.Equal(t, 0, r.StartLine)
	assert.Equal(t, 0, r.StartCol)
}

func TestMap(t *testing.T) {
	r := embedded.Region{StartLine: 4, StartCol: 10}
	line, col := r.Map(1, 1)
	assert.Equal(t, []int{4, 10}, []int{line, col})
	line, col = r.Map(1, 6)
	assert.Equal(t, []int{4, 15}, []int{line, col})
	line, col = r.Map(3, 2)
	assert.Equal(t, []int{6, 1}, []int{line, col})
}

func TestShift(t *testing.T) {
	host := embedded.Region{StartLine: 4, StartCol: 10}
	inner := embedded.Region{StartLine: 0, StartCol: 3, Kind: embedded.StyleAttribute}
	assert.Equal(t, embedded.Region{StartLine: 4, StartCol: 13, Kind: embedded.StyleAttribute}, inner.Shift(host))

	inner = embedded.Region{StartLine: 2, StartCol: 3}
	assert.Equal(t, embedded.Region{StartLine: 6, StartCol: 3}, inner.Shift(host))
}
