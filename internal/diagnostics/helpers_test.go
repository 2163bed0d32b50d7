package diagnostics

import "github.com/funvibe/jmm/internal/token"

func tokenAt(line int) token.Token {
	return token.Token{Line: line}
}
