package value_test

import (
	"math"
	"strconv"
	"testing"

	"bennypowers.dev/cssom/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		name string
		unit *value.Unit
		want string
	}{
		{"integer", value.NewInteger(nil, 42), "42"},
		{"real", value.NewReal(nil, 1.5), "1.5"},
		{"real without fraction", value.NewReal(nil, 1.0), "1"},
		{"negative zero", value.NewReal(nil, -0.0), "0"},
		{"percentage", value.NewPercentage(nil, 50), "50%"},
		{"pixel", value.NewDimension(nil, 10, "px"), "10px"},
		{"quarter", value.NewDimension(nil, 3, "q"), "3Q"},
		{"kilohertz", value.NewDimension(nil, 2, "KHZ"), "2kHz"},
		{"generic dimension", value.NewDimension(nil, 1, "fr"), "1fr"},
		{"unit that looks like an exponent", value.NewDimension(nil, 1, "e3"), `1\65 3`},
		{"ident", value.NewIdent(nil, "red"), "red"},
		{"inherit", value.NewIdent(nil, "INHERIT"), "inherit"},
		{"string", value.NewString(nil, "it's"), `"it's"`},
		{"uri", value.NewURI(nil, "a.png"), `url("a.png")`},
		{"unicode range", value.NewUnicodeRange(nil, "U+0025-00FF"), "U+0025-00FF"},
		{"attr", value.NewAttr(nil, "title"), "attr(title)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.unit.String())
		})
	}
}

func TestTypes(t *testing.T) {
	assert.Equal(t, value.Pixel, value.NewDimension(nil, 1, "PX").Type())
	assert.Equal(t, value.Dimension, value.NewDimension(nil, 1, "fr").Type())
	assert.Equal(t, "fr", value.NewDimension(nil, 1, "fr").DimensionUnitText())
	assert.Equal(t, "px", value.NewDimension(nil, 1, "Px").DimensionUnitText())
	assert.Equal(t, value.Inherit, value.NewIdent(nil, "inherit").Type())
	assert.True(t, value.OperatorSlash.IsOperator())
	assert.True(t, value.Calc.IsFunction())
	assert.False(t, value.Attr.IsFunction())
	assert.Equal(t, "PICA", value.Pica.String())
}

func TestChainRendering(t *testing.T) {
	head := value.NewIdent(nil, "a")
	u := value.NewComma(head)
	u = value.NewIdent(u, "b")
	u = value.NewSlash(u)
	value.NewDimension(u, 2, "px")

	assert.Equal(t, "a, b / 2px", value.Text(head))
	assert.Equal(t, 5, value.Len(head))
	assert.Equal(t, value.Pixel, value.Last(head).Type())
	assert.Nil(t, head.Previous())
	assert.Equal(t, head, head.Next().Previous())
}

func TestFunctions(t *testing.T) {
	t.Run("parameters are a separate chain", func(t *testing.T) {
		p := value.NewInteger(nil, 1)
		value.NewInteger(value.NewComma(p), 2)
		fn := value.NewFunction(nil, "foo", p)
		value.NewIdent(fn, "bar")

		assert.Equal(t, "foo(1, 2) bar", value.Text(fn))
		assert.Equal(t, "foo", fn.FunctionName())
		assert.Equal(t, "", fn.StringValue())
		assert.Equal(t, fn, p.Parent())
		assert.Equal(t, fn, p.Next().Next().Parent())
		assert.Nil(t, fn.Next().Parent())
	})

	t.Run("parenthesized group", func(t *testing.T) {
		inner := value.NewDimension(nil, 40, "mm")
		value.NewReal(value.NewSlash(inner), 1.2)
		outer := value.NewDimension(nil, 14.1, "pc")
		value.NewFunction(value.NewOperator(outer, value.OperatorMultiply), "", inner)
		calc := value.NewCalc(nil, outer)
		assert.Equal(t, "calc(14.1pc * (40mm / 1.2))", calc.String())
	})

	t.Run("var with empty fallback", func(t *testing.T) {
		p := value.NewIdent(nil, "--x")
		value.NewComma(p)
		assert.Equal(t, "var(--x,)", value.NewVar(nil, p).String())
	})
}

func TestMutationInvalidatesCache(t *testing.T) {
	px := value.NewDimension(nil, 10, "px")
	fn := value.NewFunction(nil, "translate", px)
	require.Equal(t, "translate(10px)", fn.String())

	px.SetDoubleValue(12.5)
	assert.Equal(t, "12.5px", px.String())
	assert.Equal(t, "translate(12.5px)", fn.String())

	fn.SetFunctionName("translateX")
	assert.Equal(t, "translateX(12.5px)", fn.String())

	fn.SetParameters(value.NewPercentage(nil, 5))
	assert.Equal(t, "translateX(5%)", fn.String())
	assert.Nil(t, px.Parent())

	s := value.NewString(nil, "a")
	_ = s.String()
	s.SetStringValue("b")
	assert.Equal(t, `"b"`, s.String())

	n := value.NewInteger(nil, 1)
	n.SetDoubleValue(1.5)
	assert.Equal(t, value.Real, n.Type())
	n.SetIntegerValue(3)
	assert.Equal(t, value.Integer, n.Type())
	assert.Equal(t, "3", n.String())
}

func TestSetNext(t *testing.T) {
	p := value.NewIdent(nil, "a")
	fn := value.NewFunction(nil, "f", p)
	require.Equal(t, "f(a)", fn.String())

	p.SetNext(value.NewIdent(nil, "b"))
	assert.Equal(t, "f(a b)", fn.String())
	assert.Equal(t, fn, p.Next().Parent())
}

func TestIntegerValueTruncates(t *testing.T) {
	assert.Equal(t, -2, value.NewReal(nil, -2.7).IntegerValue())
	assert.Equal(t, 2, value.NewReal(nil, 2.7).IntegerValue())
	assert.Equal(t, 7, value.NewInteger(nil, 7).IntegerValue())
}

func TestFormatNumberStaysFinite(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		out := value.FormatNumber(v)
		assert.NotContains(t, out, "Inf")
		assert.NotContains(t, out, "NaN")
		_, err := strconv.ParseFloat(out, 64)
		assert.NoError(t, err, out)
	}
	assert.Equal(t, "0", value.FormatNumber(math.NaN()))
	assert.Equal(t, value.FormatNumber(math.MaxFloat64), value.FormatNumber(math.Inf(1)))
	assert.Equal(t, value.FormatNumber(-math.MaxFloat64), value.FormatNumber(math.Inf(-1)))
}

func TestEscaping(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		assert.Equal(t, `"a\"b"`, value.QuoteString(`a"b`))
		assert.Equal(t, `"line\A next"`, value.QuoteString("line\nnext"))
		assert.Equal(t, `"back\\slash"`, value.QuoteString(`back\slash`))
		assert.Equal(t, `"tab\9 x"`, value.QuoteString("tab\tx"))
	})

	t.Run("identifiers", func(t *testing.T) {
		assert.Equal(t, `\31 a`, value.EscapeIdent("1a"))
		assert.Equal(t, `-\31 a`, value.EscapeIdent("-1a"))
		assert.Equal(t, `\-`, value.EscapeIdent("-"))
		assert.Equal(t, `a\ b`, value.EscapeIdent("a b"))
		assert.Equal(t, `a\.b`, value.EscapeIdent("a.b"))
		assert.Equal(t, "--main-color", value.EscapeIdent("--main-color"))
		assert.Equal(t, "ünï", value.EscapeIdent("ünï"))
	})
}

func TestRGBAsHex(t *testing.T) {
	p := value.NewInteger(nil, 204)
	u := value.NewInteger(value.NewComma(p), 0)
	value.NewInteger(value.NewComma(u), 255)
	rgb := value.NewRGBColor(nil, "rgb", p)

	assert.Equal(t, "rgb(204, 0, 255)", rgb.String())
	assert.Equal(t, "#cc00ff", value.Render(rgb, value.Options{RGBAsHex: true}))

	pct := value.NewPercentage(nil, 10)
	value.NewInteger(value.NewComma(pct), 0)
	withPct := value.NewRGBColor(nil, "rgb", pct)
	assert.Equal(t, "rgb(10%, 0)", value.Render(withPct, value.Options{RGBAsHex: true}))
}

func TestContains(t *testing.T) {
	inner := value.NewIdent(nil, "--x")
	v := value.NewVar(nil, inner)
	head := value.NewInteger(nil, 1)
	value.NewFunction(value.NewComma(head), "f", v)

	assert.True(t, value.Contains(head, value.Var))
	assert.False(t, value.Contains(head, value.Calc))
}
