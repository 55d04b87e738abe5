package expr

import "fmt"

// TokenKind identifies a lexical token class.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenIdent
	TokenOp
	TokenLParen
	TokenRParen
	TokenComma
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenOp:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexeme with its byte offset in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// twoCharOps are matched before their one-character prefixes.
var twoCharOps = []string{"==", "!=", "<=", ">="}

// Tokenize splits src into tokens. The final token is always TokenEOF.
func Tokenize(src string) ([]Token, error) {
	tokens := make([]Token, 0, 16)
	for pos := 0; pos < len(src); {
		c := src[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			pos++
			continue

		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Pos: pos})
			pos++

		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Pos: pos})
			pos++

		case c == ',':
			tokens = append(tokens, Token{Kind: TokenComma, Text: ",", Pos: pos})
			pos++

		case isDigit(c):
			end := pos
			for end < len(src) && isDigit(src[end]) {
				end++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: src[pos:end], Pos: pos})
			pos = end

		case isIdentStart(c):
			end := pos
			for end < len(src) && (isIdentStart(src[end]) || isDigit(src[end])) {
				end++
			}
			tokens = append(tokens, Token{Kind: TokenIdent, Text: src[pos:end], Pos: pos})
			pos = end

		default:
			op, ok := matchOp(src[pos:])
			if !ok {
				return nil, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			tokens = append(tokens, Token{Kind: TokenOp, Text: op, Pos: pos})
			pos += len(op)
		}
	}
	tokens = append(tokens, Token{Kind: TokenEOF, Pos: len(src)})
	return tokens, nil
}

func matchOp(s string) (string, bool) {
	for _, op := range twoCharOps {
		if len(s) >= 2 && s[:2] == op {
			return op, true
		}
	}
	switch s[0] {
	case '+', '-', '*', '/', '%', '^', '<', '>':
		return s[:1], true
	}
	return "", false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
