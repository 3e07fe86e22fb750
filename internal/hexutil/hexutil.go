// Package hexutil provides lookup-table escape encoding for the payload
// mutators, which escape every byte of every variant.
package hexutil

const hexLower = "0123456789abcdef"

var (
	// percentEscape holds "%xx" for each byte value.
	percentEscape [256]string

	// unicodeEscape holds "\u00xx" for each byte value; multi-byte
	// runes are escaped from their code points by callers.
	unicodeEscape [256]string
)

func init() {
	for i := 0; i < 256; i++ {
		hi, lo := string(hexLower[i>>4]), string(hexLower[i&0x0f])
		percentEscape[i] = "%" + hi + lo
		unicodeEscape[i] = `\u00` + hi + lo
	}
}

// PercentEscape returns the %xx escape for b.
func PercentEscape(b byte) string { return percentEscape[b] }

// UnicodeEscape returns the \u00xx escape for b.
func UnicodeEscape(b byte) string { return unicodeEscape[b] }

// UnicodeEscapeRune returns the \uxxxx escape for r. Code points above
// the BMP fall back to surrogate-free \Uxxxxxxxx form used rarely
// enough that the slow path does not matter.
func UnicodeEscapeRune(r rune) string {
	if r < 0x100 {
		return unicodeEscape[byte(r)]
	}
	if r <= 0xffff {
		return `\u` + hexNibbles(uint32(r), 4)
	}
	return `\U` + hexNibbles(uint32(r), 8)
}

func hexNibbles(v uint32, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = hexLower[v&0x0f]
		v >>= 4
	}
	return string(buf)
}
