// Package shellwords splits lines of shell-like text into words and commands.
package shellwords

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Split and SplitCommands.
// Wrapped errors carry the offset of the offending construct.
var (
	ErrUnterminatedQuote      = errors.New("unterminated quote")
	ErrTrailingEscape         = errors.New("trailing backslash escape")
	ErrUnbalancedSubstitution = errors.New("unbalanced command substitution")
)

// Split tokenizes one line of shell-like text into ordered words.
// Unquoted whitespace separates words. Single quotes are literal,
// double quotes allow backslash escapes, and a bare backslash escapes
// the next character. Quotes are stripped from the returned words.
func Split(line string) ([]string, error) {
	l := &lexer{input: line}
	var words []string
	for {
		word, ok, err := l.nextWord()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		words = append(words, word)
	}
	return words, nil
}

// lexer walks a line byte by byte, tracking position for error messages.
type lexer struct {
	input string
	pos   int
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

// nextWord returns the next word from the input.
// The second return value is false when the input is exhausted.
func (l *lexer) nextWord() (string, bool, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return "", false, nil
	}

	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if isSpace(ch) {
			break
		}

		switch ch {
		case '\'':
			if err := l.readSingleQuoted(&b); err != nil {
				return "", false, err
			}
		case '"':
			if err := l.readDoubleQuoted(&b); err != nil {
				return "", false, err
			}
		case '\\':
			if l.pos+1 >= len(l.input) {
				return "", false, fmt.Errorf("offset %d: %w", l.pos, ErrTrailingEscape)
			}
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		default:
			b.WriteByte(ch)
			l.pos++
		}
	}

	return b.String(), true, nil
}

// readSingleQuoted consumes a 'quoted' span. Everything inside is literal.
func (l *lexer) readSingleQuoted(b *strings.Builder) error {
	opened := l.pos
	l.pos++ // skip opening quote
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\'' {
			l.pos++
			return nil
		}
		b.WriteByte(l.input[l.pos])
		l.pos++
	}
	return fmt.Errorf("single quote opened at offset %d: %w", opened, ErrUnterminatedQuote)
}

// readDoubleQuoted consumes a "quoted" span. Backslash escapes the
// next character; otherwise bytes are taken literally.
func (l *lexer) readDoubleQuoted(b *strings.Builder) error {
	opened := l.pos
	l.pos++ // skip opening quote
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return nil
		case '\\':
			if l.pos+1 >= len(l.input) {
				return fmt.Errorf("offset %d: %w", l.pos, ErrTrailingEscape)
			}
			next := l.input[l.pos+1]
			// Only these escapes are special inside double quotes.
			if next == '"' || next == '\\' || next == '$' || next == '`' {
				b.WriteByte(next)
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			l.pos += 2
		default:
			b.WriteByte(ch)
			l.pos++
		}
	}
	return fmt.Errorf("double quote opened at offset %d: %w", opened, ErrUnterminatedQuote)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
