package reportwriter

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// formatCurrency renders an amount with thousands separators and exactly two
// decimals, rounding half to even: 1234567.125 -> "1,234,567.12".
func formatCurrency(d decimal.Decimal) string {
	s := d.StringFixedBank(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	} else if d.Sign() < 0 {
		// rounded to zero, keeps the sign
		sign = "-"
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + frac
	}

	var b strings.Builder
	b.Grow(len(sign) + len(intPart) + len(intPart)/3 + 3)
	b.WriteString(sign)

	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}

// fixLine drops trailing newlines, then pads with spaces or truncates so the
// line is exactly width characters.
func fixLine(line string, width int) string {
	clean := strings.TrimRight(line, "\n")
	n := utf8.RuneCountInString(clean)
	if n < width {
		return clean + strings.Repeat(" ", width-n)
	}
	return string([]rune(clean)[:width])
}

// center centers s in width. When the margin is odd the extra space goes
// left only if width is odd as well.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	marg := width - n
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}

// rjust right-justifies s in width.
func rjust(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// rule returns a horizontal rule of dashes.
func rule(width int) string {
	return strings.Repeat("-", width)
}
