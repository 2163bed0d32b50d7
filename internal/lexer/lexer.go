package lexer

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/token"
)

const eof = -1

// Scanner turns j-- source text into tokens on demand. Lexical errors are
// reported to the sink and scanning continues.
type Scanner struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	fileName         string
	sink             *diagnostics.Sink
	errorHasOccurred bool

	// last significant token; decides between PLUS and UPLUS
	prev     token.TokenType
	prevLine int
}

func New(fileName, input string, sink *diagnostics.Sink) *Scanner {
	if sink == nil {
		sink = diagnostics.NewSink(fileName)
	}
	l := &Scanner{input: input, line: 1, prevLine: 1, fileName: fileName, sink: sink}
	l.readChar()
	return l
}

// Open reads the file at path and returns a scanner over it.
func Open(path string, sink *diagnostics.Sink) (*Scanner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", path, err)
	}
	return New(path, string(data), sink), nil
}

func (l *Scanner) FileName() string {
	return l.fileName
}

// Line is the line of the token NextToken returned last.
func (l *Scanner) Line() int {
	return l.prevLine
}

func (l *Scanner) ErrorHasOccurred() bool {
	return l.errorHasOccurred
}

func (l *Scanner) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = eof
		l.position = len(l.input)
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += w
	l.column++

	// \r\n and bare \r both count as one line break
	if r == '\r' {
		if l.readPosition < len(l.input) && l.input[l.readPosition] == '\n' {
			l.readPosition++
		}
		r = '\n'
	}
	l.ch = r
}

func (l *Scanner) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Scanner) report(line int, format string, args ...any) {
	l.errorHasOccurred = true
	l.sink.Report(diagnostics.ErrL001, line, format, args...)
}

// NextToken scans and returns the next token. At end of input it keeps
// returning EOF.
func (l *Scanner) NextToken() token.Token {
	tok := l.scan()
	l.prev = tok.Type
	l.prevLine = tok.Line
	return tok
}

func (l *Scanner) scan() token.Token {
	for {
		l.skipWhitespace()

		line, col := l.line, l.column
		var tok token.Token

		switch l.ch {
		case eof:
			return token.Token{Type: token.EOF, Lexeme: token.EOF, Line: line, Column: col}
		case '(':
			tok = newToken(token.LPAREN, line, col)
		case ')':
			tok = newToken(token.RPAREN, line, col)
		case '{':
			tok = newToken(token.LBRACE, line, col)
		case '}':
			tok = newToken(token.RBRACE, line, col)
		case '[':
			tok = newToken(token.LBRACKET, line, col)
		case ']':
			tok = newToken(token.RBRACKET, line, col)
		case ';':
			tok = newToken(token.SEMICOLON, line, col)
		case ',':
			tok = newToken(token.COMMA, line, col)
		case '?':
			tok = newToken(token.QUESTION, line, col)
		case ':':
			tok = newToken(token.COLON, line, col)
		case '~':
			tok = newToken(token.TILDE, line, col)
		case '=':
			tok = l.either('=', token.EQ, token.ASSIGN, line, col)
		case '!':
			tok = l.either('=', token.NOT_EQ, token.BANG, line, col)
		case '*':
			tok = l.either('=', token.ASTERISK_ASSIGN, token.ASTERISK, line, col)
		case '/':
			tok = l.either('=', token.SLASH_ASSIGN, token.SLASH, line, col)
		case '%':
			tok = l.either('=', token.PERCENT_ASSIGN, token.PERCENT, line, col)
		case '^':
			tok = l.either('=', token.CARET_ASSIGN, token.CARET, line, col)
		case '+':
			switch l.peekChar() {
			case '+':
				l.readChar()
				tok = newToken(token.INC, line, col)
			case '=':
				l.readChar()
				tok = newToken(token.PLUS_ASSIGN, line, col)
			default:
				if token.EndsOperand(l.prev) {
					tok = newToken(token.PLUS, line, col)
				} else {
					tok = newToken(token.UPLUS, line, col)
				}
			}
		case '-':
			switch l.peekChar() {
			case '-':
				l.readChar()
				tok = newToken(token.DEC, line, col)
			case '=':
				l.readChar()
				tok = newToken(token.MINUS_ASSIGN, line, col)
			default:
				tok = newToken(token.MINUS, line, col)
			}
		case '&':
			switch l.peekChar() {
			case '&':
				l.readChar()
				tok = newToken(token.AND, line, col)
			case '=':
				l.readChar()
				tok = newToken(token.AMP_ASSIGN, line, col)
			default:
				tok = newToken(token.AMPERSAND, line, col)
			}
		case '|':
			switch l.peekChar() {
			case '|':
				l.readChar()
				tok = newToken(token.OR, line, col)
			case '=':
				l.readChar()
				tok = newToken(token.PIPE_ASSIGN, line, col)
			default:
				tok = newToken(token.PIPE, line, col)
			}
		case '<':
			// <, <=, <<, <<=
			switch l.peekChar() {
			case '=':
				l.readChar()
				tok = newToken(token.LTE, line, col)
			case '<':
				l.readChar()
				tok = l.either('=', token.LSHIFT_ASSIGN, token.LSHIFT, line, col)
			default:
				tok = newToken(token.LT, line, col)
			}
		case '>':
			// >, >=, >>, >>=, >>>, >>>=
			switch l.peekChar() {
			case '=':
				l.readChar()
				tok = newToken(token.GTE, line, col)
			case '>':
				l.readChar()
				if l.peekChar() == '>' {
					l.readChar()
					tok = l.either('=', token.URSHIFT_ASSIGN, token.URSHIFT, line, col)
				} else {
					tok = l.either('=', token.RSHIFT_ASSIGN, token.RSHIFT, line, col)
				}
			default:
				tok = newToken(token.GT, line, col)
			}
		case '\'':
			return l.readCharLiteral(line, col)
		case '"':
			return l.readString(line, col)
		case '.':
			if isDigit(l.peekChar()) {
				return l.readNumber(line, col)
			}
			tok = newToken(token.DOT, line, col)
		default:
			if isDigit(l.ch) {
				return l.readNumber(line, col)
			}
			if isIdentifierStart(l.ch) {
				ident := l.readIdentifier()
				return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
			}
			l.report(line, "Unidentified input token: '%c'", l.ch)
			l.readChar()
			continue
		}

		l.readChar()
		return tok
	}
}

// either consumes the next char if it is next and returns a token of type
// yes, otherwise a token of type no. The current char is not consumed.
func (l *Scanner) either(next rune, yes, no token.TokenType, line, col int) token.Token {
	if l.peekChar() == next {
		l.readChar()
		return newToken(yes, line, col)
	}
	return newToken(no, line, col)
}

func newToken(tokenType token.TokenType, line, col int) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(tokenType), Line: line, Column: col}
}

func (l *Scanner) skipWhitespace() {
	for {
		switch {
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != eof {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.line
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == eof {
					l.report(start, "unterminated comment")
					return
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return
		}
	}
}

func (l *Scanner) readIdentifier() string {
	position := l.position
	for isIdentifierPart(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// escape scans the char after a backslash and returns the escape's source
// spelling. A bad escape is reported and contributes nothing.
func (l *Scanner) escape(line int) string {
	switch l.ch {
	case 'b', 't', 'n', 'f', 'r', '"', '\'', '\\':
		s := "\\" + string(l.ch)
		l.readChar()
		return s
	default:
		l.report(line, "Badly formed escape: \\%c", l.ch)
		if l.ch != eof && l.ch != '\n' {
			l.readChar()
		}
		return ""
	}
}

func (l *Scanner) readCharLiteral(line, col int) token.Token {
	var sb strings.Builder
	sb.WriteByte('\'')
	l.readChar()
	switch l.ch {
	case '\\':
		l.readChar()
		sb.WriteString(l.escape(line))
	case '\'':
		l.report(line, "Empty character literal")
		l.readChar()
		return token.Token{Type: token.CHAR_LITERAL, Lexeme: "''", Line: line, Column: col}
	case eof, '\n':
	default:
		sb.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch == '\'' {
		sb.WriteByte('\'')
		l.readChar()
	} else {
		l.report(line, "%s found by scanner where closing ' was expected.", describe(l.ch))
		for l.ch != '\'' && l.ch != ';' && l.ch != '\n' && l.ch != eof {
			l.readChar()
		}
		if l.ch == '\'' {
			l.readChar()
		}
	}
	return token.Token{Type: token.CHAR_LITERAL, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Scanner) readString(line, col int) token.Token {
	var sb strings.Builder
	sb.WriteByte('"')
	l.readChar()
	for l.ch != '"' && l.ch != '\n' && l.ch != eof {
		if l.ch == '\\' {
			l.readChar()
			sb.WriteString(l.escape(line))
		} else {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	switch l.ch {
	case '\n':
		l.report(line, "Unexpected end of line found in String")
	case eof:
		l.report(line, "Unexpected end of file found in String")
	default:
		l.readChar()
	}
	sb.WriteByte('"')
	return token.Token{Type: token.STRING_LITERAL, Lexeme: sb.String(), Line: line, Column: col}
}

// readNumber scans int, long and double literals, keeping their source
// spelling:
//
//	digits             int
//	digits (l|L)       long
//	digits . digits?   double
//	. digits           double
//	... (e|E) [+-] digits, optional (d|D) suffix on any double form
func (l *Scanner) readNumber(line, col int) token.Token {
	position := l.position
	isDouble := false

	// a leading zero followed by a digit is a literal 0 on its own
	if l.ch == '0' && isDigit(l.peekChar()) {
		l.readChar()
		return token.Token{Type: token.INT_LITERAL, Lexeme: "0", Line: line, Column: col}
	}

	l.readDigits()
	if l.ch == '.' {
		isDouble = true
		l.readChar()
		l.readDigits()
	}

	if l.ch == 'l' || l.ch == 'L' {
		if isDouble {
			text := l.input[position:l.position]
			l.report(line, "Malformed number: %s%c", text, l.ch)
			l.readChar()
			return token.Token{Type: token.DOUBLE_LITERAL, Lexeme: text, Line: line, Column: col}
		}
		l.readChar()
		text := l.input[position:l.position]
		return token.Token{Type: token.LONG_LITERAL, Lexeme: text, Line: line, Column: col}
	}

	if l.ch == 'e' || l.ch == 'E' {
		isDouble = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			l.report(line, "Malformed exponent in %s", l.input[position:l.position])
		}
		l.readDigits()
	}

	if l.ch == 'd' || l.ch == 'D' {
		isDouble = true
		l.readChar()
	}

	text := l.input[position:l.position]
	if isDouble {
		return token.Token{Type: token.DOUBLE_LITERAL, Lexeme: text, Line: line, Column: col}
	}
	return token.Token{Type: token.INT_LITERAL, Lexeme: text, Line: line, Column: col}
}

func (l *Scanner) readDigits() {
	for isDigit(l.ch) {
		l.readChar()
	}
}

func describe(ch rune) string {
	switch ch {
	case eof:
		return "<EOF>"
	case '\n':
		return "<EOL>"
	}
	return string(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Only ASCII is accepted outside literals and comments.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\f'
}

func isIdentifierStart(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentifierPart(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}
