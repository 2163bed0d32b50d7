package token

// TokenType identifies the lexical category of a token. Its value is the
// token's image, which is what diagnostics print.
type TokenType string

type Token struct {
	Type TokenType
	// Lexeme is the source spelling. For identifiers and literals it is the
	// token's text; for everything else it equals the image.
	Lexeme string
	Line   int
	Column int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "<EOF>"

	// Identifiers and literals
	IDENT          = "<IDENTIFIER>"
	INT_LITERAL    = "<INT_LITERAL>"
	LONG_LITERAL   = "<LONG_LITERAL>"
	DOUBLE_LITERAL = "<DOUBLE_LITERAL>"
	CHAR_LITERAL   = "<CHAR_LITERAL>"
	STRING_LITERAL = "<STRING_LITERAL>"

	// Operators
	ASSIGN          = "="
	EQ              = "=="
	NOT_EQ          = "!="
	BANG            = "!"
	TILDE           = "~"
	QUESTION        = "?"
	COLON           = ":"
	PLUS            = "+"
	UPLUS           = "+(unary)"
	INC             = "++"
	PLUS_ASSIGN     = "+="
	MINUS           = "-"
	DEC             = "--"
	MINUS_ASSIGN    = "-="
	ASTERISK        = "*"
	ASTERISK_ASSIGN = "*="
	SLASH           = "/"
	SLASH_ASSIGN    = "/="
	PERCENT         = "%"
	PERCENT_ASSIGN  = "%="
	AMPERSAND       = "&"
	AND             = "&&"
	AMP_ASSIGN      = "&="
	PIPE            = "|"
	OR              = "||"
	PIPE_ASSIGN     = "|="
	CARET           = "^"
	CARET_ASSIGN    = "^="
	LT              = "<"
	LTE             = "<="
	LSHIFT          = "<<"
	LSHIFT_ASSIGN   = "<<="
	GT              = ">"
	GTE             = ">="
	RSHIFT          = ">>"
	RSHIFT_ASSIGN   = ">>="
	URSHIFT         = ">>>"
	URSHIFT_ASSIGN  = ">>>="

	// Separators
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	SEMICOLON = ";"
	COMMA     = ","
	DOT       = "."

	// Reserved words
	ABSTRACT     = "abstract"
	BOOLEAN      = "boolean"
	BREAK        = "break"
	CASE         = "case"
	CATCH        = "catch"
	CHAR         = "char"
	CLASS        = "class"
	CONTINUE     = "continue"
	DEFAULT      = "default"
	DO           = "do"
	DOUBLE       = "double"
	ELSE         = "else"
	EXTENDS      = "extends"
	FALSE        = "false"
	FINAL        = "final"
	FINALLY      = "finally"
	FOR          = "for"
	IF           = "if"
	IMPLEMENTS   = "implements"
	IMPORT       = "import"
	INSTANCEOF   = "instanceof"
	INT          = "int"
	INTERFACE    = "interface"
	LONG         = "long"
	NEW          = "new"
	NULL         = "null"
	PACKAGE      = "package"
	PRIVATE      = "private"
	PROTECTED    = "protected"
	PUBLIC       = "public"
	RETURN       = "return"
	STATIC       = "static"
	SUPER        = "super"
	SWITCH       = "switch"
	THIS         = "this"
	THROW        = "throw"
	THROWS       = "throws"
	TRUE         = "true"
	TRY          = "try"
	VOID         = "void"
	WHILE        = "while"
)

var keywords = map[string]TokenType{
	"abstract":   ABSTRACT,
	"boolean":    BOOLEAN,
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"char":       CHAR,
	"class":      CLASS,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"do":         DO,
	"double":     DOUBLE,
	"else":       ELSE,
	"extends":    EXTENDS,
	"false":      FALSE,
	"final":      FINAL,
	"finally":    FINALLY,
	"for":        FOR,
	"if":         IF,
	"implements": IMPLEMENTS,
	"import":     IMPORT,
	"instanceof": INSTANCEOF,
	"int":        INT,
	"interface":  INTERFACE,
	"long":       LONG,
	"new":        NEW,
	"null":       NULL,
	"package":    PACKAGE,
	"private":    PRIVATE,
	"protected":  PROTECTED,
	"public":     PUBLIC,
	"return":     RETURN,
	"static":     STATIC,
	"super":      SUPER,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"throws":     THROWS,
	"true":       TRUE,
	"try":        TRY,
	"void":       VOID,
	"while":      WHILE,
}

// LookupIdent returns the reserved-word type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// EndsOperand reports whether a token of type t can end an operand, so a
// following '+' is binary. Used to tell unary plus apart.
func EndsOperand(t TokenType) bool {
	switch t {
	case IDENT, INT_LITERAL, LONG_LITERAL, DOUBLE_LITERAL, CHAR_LITERAL, STRING_LITERAL,
		RPAREN, RBRACKET, INC, DEC, TRUE, FALSE, NULL, THIS, SUPER:
		return true
	}
	return false
}

// IsLiteral reports whether t carries literal text.
func IsLiteral(t TokenType) bool {
	switch t {
	case INT_LITERAL, LONG_LITERAL, DOUBLE_LITERAL, CHAR_LITERAL, STRING_LITERAL:
		return true
	}
	return false
}
