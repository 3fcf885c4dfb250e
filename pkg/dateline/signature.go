package dateline

import (
	"strconv"
	"strings"
)

// signaturePrefix bounds how much of a line contributes to its shape.
// Timestamps sit near the front of log lines; the tail only adds noise.
const signaturePrefix = 64

// maxRun caps the encoded length of a digit or letter run.
const maxRun = 10

// Signature reduces a line to a shape token string: digit runs become
// #N, letter runs become @N, whitespace runs become _, and other bytes
// pass through verbatim. Lines that share a signature almost always
// carry their timestamp in the same format and position.
func Signature(line string) string {
	if len(line) > signaturePrefix {
		line = line[:signaturePrefix]
	}

	var b strings.Builder
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case isDigit(c):
			j := i
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(runLen(j - i)))
			i = j
		case isLetter(c):
			j := i
			for j < len(line) && isLetter(line[j]) {
				j++
			}
			b.WriteByte('@')
			b.WriteString(strconv.Itoa(runLen(j - i)))
			i = j
		case c == ' ' || c == '\t':
			for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
				i++
			}
			b.WriteByte('_')
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func runLen(n int) int {
	if n > maxRun {
		return maxRun
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
