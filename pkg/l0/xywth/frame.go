package xywth

import "strings"

// IntakeSize is the capacity of the reply intake buffer.
const IntakeSize = 20

// minLineGap is the distance from the previous boundary a control byte must
// have to end a line. Stray CR/LF bytes closer than this are noise.
const minLineGap = 3

// intake holds the bytes of the current reply window. When more than
// IntakeSize bytes arrive the oldest are overwritten.
type intake struct {
	buf [IntakeSize]byte
	n   uint32
}

func (b *intake) clear() {
	*b = intake{}
}

func (b *intake) store(c byte) {
	b.buf[b.n%IntakeSize] = c
	b.n++
}

func (b *intake) len() int {
	if b.n < IntakeSize {
		return int(b.n)
	}
	return IntakeSize
}

// bytes returns the held bytes, oldest first.
func (b *intake) bytes() []byte {
	if b.n <= IntakeSize {
		return append([]byte(nil), b.buf[:b.n]...)
	}
	head := b.n % IntakeSize
	out := make([]byte, 0, IntakeSize)
	out = append(out, b.buf[head:]...)
	return append(out, b.buf[:head]...)
}

// framed returns the held bytes ready for framing. Once the ring wrapped
// the oldest bytes are the tail of a cut-off line, so everything before the
// first control byte is dropped. The control byte itself stays as the
// boundary later lines are measured from.
func (b *intake) framed() []byte {
	raw := b.bytes()
	if b.n <= IntakeSize {
		return raw
	}
	for i, c := range raw {
		if isControl(c) {
			return raw[i:]
		}
	}
	return nil
}

func isPrintable(c byte) bool {
	return c >= ' ' && c <= '~'
}

func isControl(c byte) bool {
	return c == '\r' || c == '\n'
}

func isStorable(c byte) bool {
	return isPrintable(c) || isControl(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// frameLines splits complete lines out of raw. A control byte ends a line
// only when it is at least minLineGap positions after the previous boundary.
// Bytes after the last boundary are an incomplete line and are dropped.
func frameLines(raw []byte) []string {
	var lines []string
	var line strings.Builder
	start := 0
	for i, c := range raw {
		if isControl(c) && i-start >= minLineGap {
			lines = append(lines, line.String())
			line.Reset()
			start = i
			continue
		}
		if isPrintable(c) {
			line.WriteByte(c)
		}
	}
	return lines
}

// parsedLine is the classification of one framed line.
type parsedLine struct {
	humidity bool
	relayOff bool
	value    int16
}

func parseLine(line string) parsedLine {
	return parsedLine{
		humidity: strings.Contains(line, "%"),
		relayOff: strings.Contains(line, "OFF"),
		value:    digitsValue(line),
	}
}

// digitsValue concatenates every digit of s and parses the result as an
// integer, ignoring decimal points and any other characters. A line without
// digits yields zero.
func digitsValue(s string) int16 {
	var n int32
	for i := 0; i < len(s); i++ {
		if c := s[i]; isDigit(c) {
			n = n*10 + int32(c-'0')
		}
	}
	return int16(n)
}
