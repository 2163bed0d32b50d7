package ast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Literal values are decoded on demand from the source spelling.

var errEmptyChar = errors.New("empty character literal")

// Int32 decodes an int literal, which may carry a folded minus sign.
func (il *IntegerLiteral) Int32() (int32, error) {
	v, err := strconv.ParseInt(il.Value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("integer number too large: %s", il.Value)
	}
	return int32(v), nil
}

func (ll *LongLiteral) Int64() (int64, error) {
	text := strings.TrimRight(ll.Value, "lL")
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("long number too large: %s", ll.Value)
	}
	return v, nil
}

func (dl *DoubleLiteral) Float64() (float64, error) {
	text := strings.TrimRight(dl.Value, "dD")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("floating-point number too large: %s", dl.Value)
	}
	return v, nil
}

// Rune decodes a quoted char literal.
func (cl *CharLiteral) Rune() (rune, error) {
	s, err := unquote(cl.Value)
	if err != nil {
		return 0, err
	}
	r := []rune(s)
	if len(r) == 0 {
		return 0, errEmptyChar
	}
	return r[0], nil
}

// Unquoted decodes a quoted string literal.
func (sl *StringLiteral) Unquoted() (string, error) {
	return unquote(sl.Value)
}

// unquote strips the delimiters and resolves the escapes the scanner
// accepts: \b \t \n \f \r \" \' \\
func unquote(text string) (string, error) {
	if len(text) < 2 {
		return "", fmt.Errorf("malformed literal %s", text)
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", fmt.Errorf("malformed literal %s", text)
		}
		switch body[i] {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case '"', '\'', '\\':
			sb.WriteByte(body[i])
		default:
			return "", fmt.Errorf("badly formed escape \\%c", body[i])
		}
	}
	return sb.String(), nil
}
