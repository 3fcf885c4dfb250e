package shellwords

import (
	"fmt"
	"strings"
)

// Connector joins a simple command to the command that follows it.
type Connector string

const (
	ConnectorNone       Connector = ""
	ConnectorPipe       Connector = "|"
	ConnectorAnd        Connector = "&&"
	ConnectorOr         Connector = "||"
	ConnectorSemicolon  Connector = ";"
	ConnectorBackground Connector = "&"
)

// Redirect is a single file redirection attached to a simple command.
type Redirect struct {
	Op     string // "<", ">", ">>", "2>", "2>>", "2>&1", "&>"
	Target string // empty for "2>&1"
}

// Command is one simple command extracted from a compound command line.
type Command struct {
	Argv      []string
	Redirects []Redirect
	// Connector is the operator joining this command to the next one.
	// Empty for the last command on the line.
	Connector Connector
}

// SplitCommands tokenizes one line of BASH-like text and splits it into
// its constituent simple commands. In addition to the quoting rules of
// Split it recognizes pipes, logical operators, command separators,
// redirects, and command substitution. Substitutions ($(...) and
// backticks) are kept intact as single words.
func SplitCommands(line string) ([]Command, error) {
	l := &bashLexer{lexer: lexer{input: line}}

	var commands []Command
	current := Command{}
	pendingRedirect := ""

	flush := func(conn Connector) error {
		if pendingRedirect != "" {
			return fmt.Errorf("redirect %q has no target", pendingRedirect)
		}
		if len(current.Argv) == 0 && len(current.Redirects) == 0 {
			return fmt.Errorf("syntax error near %q: empty command", conn)
		}
		current.Connector = conn
		commands = append(commands, current)
		current = Command{}
		return nil
	}

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}

		switch tok.kind {
		case tokWord:
			if pendingRedirect != "" {
				current.Redirects = append(current.Redirects, Redirect{Op: pendingRedirect, Target: tok.text})
				pendingRedirect = ""
			} else {
				current.Argv = append(current.Argv, tok.text)
			}
		case tokRedirect:
			if pendingRedirect != "" {
				return nil, fmt.Errorf("redirect %q has no target", pendingRedirect)
			}
			if tok.text == "2>&1" {
				current.Redirects = append(current.Redirects, Redirect{Op: tok.text})
			} else {
				pendingRedirect = tok.text
			}
		case tokConnector:
			if err := flush(Connector(tok.text)); err != nil {
				return nil, err
			}
		}
	}

	if pendingRedirect != "" {
		return nil, fmt.Errorf("redirect %q has no target", pendingRedirect)
	}

	if len(current.Argv) > 0 || len(current.Redirects) > 0 {
		current.Connector = ConnectorNone
		commands = append(commands, current)
	} else if n := len(commands); n > 0 {
		// Trailing ";" or "&" closes the line; a dangling pipe or
		// logical operator leaves the line incomplete.
		switch commands[n-1].Connector {
		case ConnectorPipe, ConnectorAnd, ConnectorOr:
			return nil, fmt.Errorf("missing command after %q", commands[n-1].Connector)
		}
	}

	return commands, nil
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokConnector
	tokRedirect
)

type bashToken struct {
	kind tokenKind
	text string
}

// bashLexer extends the word lexer with operator and substitution handling.
type bashLexer struct {
	lexer
}

// next returns the next token, or nil at end of input.
func (l *bashLexer) next() (*bashToken, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return nil, nil
	}

	if tok := l.readOperator(); tok != nil {
		return tok, nil
	}

	word, err := l.readBashWord()
	if err != nil {
		return nil, err
	}
	return &bashToken{kind: tokWord, text: word}, nil
}

// readOperator recognizes connector and redirect operators at the
// current position. Longer operators are checked first.
func (l *bashLexer) readOperator() *bashToken {
	rest := l.input[l.pos:]

	redirects := []string{"2>&1", "2>>", "2>", "&>", ">>", ">", "<"}
	for _, op := range redirects {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return &bashToken{kind: tokRedirect, text: op}
		}
	}

	connectors := []string{"&&", "||", "|", ";", "&"}
	for _, op := range connectors {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return &bashToken{kind: tokConnector, text: op}
		}
	}

	return nil
}

// readBashWord reads one word, keeping command substitutions intact.
func (l *bashLexer) readBashWord() (string, error) {
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if isSpace(ch) || isOperatorByte(ch) {
			break
		}

		switch ch {
		case '\'':
			if err := l.readSingleQuoted(&b); err != nil {
				return "", err
			}
		case '"':
			if err := l.readDoubleQuoted(&b); err != nil {
				return "", err
			}
		case '\\':
			if l.pos+1 >= len(l.input) {
				return "", fmt.Errorf("offset %d: %w", l.pos, ErrTrailingEscape)
			}
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case '$':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '(' {
				if err := l.readSubstitution(&b); err != nil {
					return "", err
				}
				continue
			}
			// $VAR and ${VAR} pass through verbatim.
			b.WriteByte(ch)
			l.pos++
		case '`':
			if err := l.readBacktick(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(ch)
			l.pos++
		}
	}
	return b.String(), nil
}

// readSubstitution consumes a $(...) span verbatim, balancing nested
// parentheses and skipping over quoted spans inside it.
func (l *bashLexer) readSubstitution(b *strings.Builder) error {
	opened := l.pos
	b.WriteString("$(")
	l.pos += 2

	depth := 1
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				b.WriteByte(')')
				l.pos++
				return nil
			}
		case '\'', '"':
			if err := l.copyQuotedVerbatim(b, ch); err != nil {
				return err
			}
			continue
		}
		b.WriteByte(ch)
		l.pos++
	}
	return fmt.Errorf("$( opened at offset %d: %w", opened, ErrUnbalancedSubstitution)
}

// readBacktick consumes a `...` span verbatim.
func (l *bashLexer) readBacktick(b *strings.Builder) error {
	opened := l.pos
	b.WriteByte('`')
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		b.WriteByte(ch)
		l.pos++
		if ch == '`' {
			return nil
		}
	}
	return fmt.Errorf("backtick opened at offset %d: %w", opened, ErrUnbalancedSubstitution)
}

// copyQuotedVerbatim copies a quoted span inside a substitution without
// stripping the quotes.
func (l *bashLexer) copyQuotedVerbatim(b *strings.Builder, quote byte) error {
	opened := l.pos
	b.WriteByte(quote)
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		b.WriteByte(ch)
		l.pos++
		if ch == quote {
			return nil
		}
		if ch == '\\' && quote == '"' && l.pos < len(l.input) {
			b.WriteByte(l.input[l.pos])
			l.pos++
		}
	}
	return fmt.Errorf("quote opened at offset %d: %w", opened, ErrUnterminatedQuote)
}

// isOperatorByte reports whether a byte terminates a word. The fd form
// "2>" is only an operator at a token boundary, so "file2>out" splits
// as "file2" and ">"; readOperator handles the boundary case.
func isOperatorByte(ch byte) bool {
	switch ch {
	case '|', ';', '&', '<', '>':
		return true
	}
	return false
}
