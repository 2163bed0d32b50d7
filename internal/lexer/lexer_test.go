package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/token"
)

func scanAll(t *testing.T, input string) ([]token.Token, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink("Main.java")
	l := New("Main.java", input, sink)
	var toks []token.Token
	for i := 0; i < 10000; i++ {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks, sink
		}
		toks = append(toks, tok)
	}
	t.Fatal("scanner did not reach EOF")
	return nil, nil
}

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestOperatorsMaximalMunch(t *testing.T) {
	input := `>>>= >>= >>> >> >= > <<= << <= < == = != ! ++ += -- -= && &= & || |= | ^= ^ *= * /= / %= % ? : ~ ( ) { } [ ] ; , .`
	toks, sink := scanAll(t, input)
	require.False(t, sink.HasErrors())

	expected := []token.TokenType{
		token.URSHIFT_ASSIGN, token.RSHIFT_ASSIGN, token.URSHIFT, token.RSHIFT, token.GTE, token.GT,
		token.LSHIFT_ASSIGN, token.LSHIFT, token.LTE, token.LT,
		token.EQ, token.ASSIGN, token.NOT_EQ, token.BANG,
		token.INC, token.PLUS_ASSIGN, token.DEC, token.MINUS_ASSIGN,
		token.AND, token.AMP_ASSIGN, token.AMPERSAND,
		token.OR, token.PIPE_ASSIGN, token.PIPE,
		token.CARET_ASSIGN, token.CARET,
		token.ASTERISK_ASSIGN, token.ASTERISK, token.SLASH_ASSIGN, token.SLASH,
		token.PERCENT_ASSIGN, token.PERCENT,
		token.QUESTION, token.COLON, token.TILDE,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.SEMICOLON, token.COMMA, token.DOT,
	}
	assert.Equal(t, expected, types(toks))
}

func TestOperatorsWithoutSpaces(t *testing.T) {
	toks, _ := scanAll(t, "a>>>=b>=c==d")
	assert.Equal(t, []token.TokenType{
		token.IDENT, token.URSHIFT_ASSIGN, token.IDENT, token.GTE, token.IDENT, token.EQ, token.IDENT,
	}, types(toks))
}

func TestUnaryPlus(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.TokenType
	}{
		{"a + +b", []token.TokenType{token.IDENT, token.PLUS, token.UPLUS, token.IDENT}},
		{"x = +1", []token.TokenType{token.IDENT, token.ASSIGN, token.UPLUS, token.INT_LITERAL}},
		{"(a)+1", []token.TokenType{token.LPAREN, token.IDENT, token.RPAREN, token.PLUS, token.INT_LITERAL}},
		{"+1", []token.TokenType{token.UPLUS, token.INT_LITERAL}},
		{"i++ + 2", []token.TokenType{token.IDENT, token.INC, token.PLUS, token.INT_LITERAL}},
		{`"s"+1`, []token.TokenType{token.STRING_LITERAL, token.PLUS, token.INT_LITERAL}},
		{"return +x", []token.TokenType{token.RETURN, token.UPLUS, token.IDENT}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, _ := scanAll(t, tt.input)
			assert.Equal(t, tt.expected, types(toks))
		})
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		input  string
		typ    token.TokenType
		lexeme string
	}{
		{"0", token.INT_LITERAL, "0"},
		{"42", token.INT_LITERAL, "42"},
		{"42L", token.LONG_LITERAL, "42L"},
		{"7l", token.LONG_LITERAL, "7l"},
		{"0.5", token.DOUBLE_LITERAL, "0.5"},
		{"0d", token.DOUBLE_LITERAL, "0d"},
		{"3.14", token.DOUBLE_LITERAL, "3.14"},
		{"1.", token.DOUBLE_LITERAL, "1."},
		{".5", token.DOUBLE_LITERAL, ".5"},
		{"1e10", token.DOUBLE_LITERAL, "1e10"},
		{"2.5e-3d", token.DOUBLE_LITERAL, "2.5e-3d"},
		{"6E+2", token.DOUBLE_LITERAL, "6E+2"},
		{"7D", token.DOUBLE_LITERAL, "7D"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, sink := scanAll(t, tt.input)
			require.False(t, sink.HasErrors(), sink.Messages())
			require.Len(t, toks, 1)
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.lexeme, toks[0].Lexeme)
		})
	}
}

func TestNumberFollowedByOperator(t *testing.T) {
	toks, sink := scanAll(t, "1-2 3.5*x a.b")
	require.False(t, sink.HasErrors())
	assert.Equal(t, []token.TokenType{
		token.INT_LITERAL, token.MINUS, token.INT_LITERAL,
		token.DOUBLE_LITERAL, token.ASTERISK, token.IDENT,
		token.IDENT, token.DOT, token.IDENT,
	}, types(toks))
}

func TestCharAndStringLiteralsKeepSpelling(t *testing.T) {
	tests := []struct {
		input  string
		typ    token.TokenType
		lexeme string
	}{
		{`'a'`, token.CHAR_LITERAL, `'a'`},
		{`'\n'`, token.CHAR_LITERAL, `'\n'`},
		{`'\''`, token.CHAR_LITERAL, `'\''`},
		{`'\\'`, token.CHAR_LITERAL, `'\\'`},
		{`"a\tb"`, token.STRING_LITERAL, `"a\tb"`},
		{`"say \"hi\""`, token.STRING_LITERAL, `"say \"hi\""`},
		{`""`, token.STRING_LITERAL, `""`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, sink := scanAll(t, tt.input)
			require.False(t, sink.HasErrors(), sink.Messages())
			require.Len(t, toks, 1)
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.lexeme, toks[0].Lexeme)
		})
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, _ := scanAll(t, "while whileX int Int $x _y9 switch")
	assert.Equal(t, []token.TokenType{
		token.WHILE, token.IDENT, token.INT, token.IDENT, token.IDENT, token.IDENT, token.SWITCH,
	}, types(toks))
	assert.Equal(t, "whileX", toks[1].Lexeme)
	assert.Equal(t, "_y9", toks[5].Lexeme)
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lexemes  []string
		messages []string
	}{
		{
			name:     "unterminated string at end of line",
			input:    "\"abc\nx",
			lexemes:  []string{`"abc"`, "x"},
			messages: []string{"Main.java:1: Unexpected end of line found in String"},
		},
		{
			name:     "unterminated string at end of file",
			input:    `"abc`,
			lexemes:  []string{`"abc"`},
			messages: []string{"Main.java:1: Unexpected end of file found in String"},
		},
		{
			name:     "bad escape",
			input:    `"\q"`,
			lexemes:  []string{`""`},
			messages: []string{`Main.java:1: Badly formed escape: \q`},
		},
		{
			name:     "unclosed char literal",
			input:    "'ab' x",
			lexemes:  []string{"'a", "x"},
			messages: []string{"Main.java:1: b found by scanner where closing ' was expected."},
		},
		{
			name:     "unknown character",
			input:    "a # b",
			lexemes:  []string{"a", "b"},
			messages: []string{"Main.java:1: Unidentified input token: '#'"},
		},
		{
			name:     "unterminated comment",
			input:    "a /* foo\n bar",
			lexemes:  []string{"a"},
			messages: []string{"Main.java:1: unterminated comment"},
		},
		{
			name:     "letter outside ASCII",
			input:    "café",
			lexemes:  []string{"caf"},
			messages: []string{"Main.java:1: Unidentified input token: 'é'"},
		},
		{
			name:     "vertical tab",
			input:    "a\vb",
			lexemes:  []string{"a", "b"},
			messages: []string{"Main.java:1: Unidentified input token: '\v'"},
		},
		{
			name:     "no-break space",
			input:    "a\u00a0b",
			lexemes:  []string{"a", "b"},
			messages: []string{"Main.java:1: Unidentified input token: '\u00a0'"},
		},
		{
			name:     "next line control",
			input:    "x\u0085y",
			lexemes:  []string{"x", "y"},
			messages: []string{"Main.java:1: Unidentified input token: '\u0085'"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, sink := scanAll(t, tt.input)
			lexemes := make([]string, len(toks))
			for i, tok := range toks {
				lexemes[i] = tok.Lexeme
			}
			assert.Equal(t, tt.lexemes, lexemes)
			assert.Equal(t, tt.messages, sink.Messages())
		})
	}
}

func TestLeadingZeroStandsAlone(t *testing.T) {
	toks, sink := scanAll(t, "007 0.5 01L")
	require.False(t, sink.HasErrors(), sink.Messages())
	lexemes := make([]string, len(toks))
	for i, tok := range toks {
		lexemes[i] = tok.Lexeme
	}
	assert.Equal(t, []string{"0", "0", "7", "0.5", "0", "1L"}, lexemes)
	assert.Equal(t, []token.TokenType{
		token.INT_LITERAL, token.INT_LITERAL, token.INT_LITERAL,
		token.DOUBLE_LITERAL, token.INT_LITERAL, token.LONG_LITERAL,
	}, types(toks))
}

func TestWhitespace(t *testing.T) {
	toks, sink := scanAll(t, "a \tb\f\nc")
	require.False(t, sink.HasErrors(), sink.Messages())
	assert.Len(t, toks, 3)
}

func TestUnaryPlusLexemeIsItsImage(t *testing.T) {
	toks, _ := scanAll(t, "+1")
	require.Len(t, toks, 2)
	assert.Equal(t, string(token.UPLUS), toks[0].Lexeme)
}

func TestLineIsThatOfTheLastToken(t *testing.T) {
	l := New("Main.java", "a\n\n  b", nil)
	assert.Equal(t, 1, l.Line())
	l.NextToken()
	assert.Equal(t, 1, l.Line())
	l.NextToken()
	assert.Equal(t, 3, l.Line())
}

func TestErrorHasOccurred(t *testing.T) {
	l := New("Main.java", "a @ b", nil)
	for l.NextToken().Type != token.EOF {
	}
	assert.True(t, l.ErrorHasOccurred())

	clean := New("Main.java", "a b", nil)
	for clean.NextToken().Type != token.EOF {
	}
	assert.False(t, clean.ErrorHasOccurred())
	assert.Equal(t, "Main.java", clean.FileName())
}

func TestLineTracking(t *testing.T) {
	toks, _ := scanAll(t, "a\n\nb\r\nc\rd // tail\n/* x\ny */ e")
	lines := make([]int, len(toks))
	for i, tok := range toks {
		lines[i] = tok.Line
	}
	assert.Equal(t, []int{1, 3, 4, 5, 7}, lines)
}

func TestEOFRepeats(t *testing.T) {
	l := New("Main.java", "x", nil)
	assert.Equal(t, token.TokenType(token.IDENT), l.NextToken().Type)
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.TokenType(token.EOF), l.NextToken().Type)
	}
}
