package expr

import (
	"fmt"
	"strconv"
)

// Parse parses src into an expression tree.
func Parse(src string) (Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Kind == TokenEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Text)}
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for expressions known to be valid.
func MustParse(src string) Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	tokens []Token
	index  int
}

func (p *parser) peek() Token {
	return p.tokens[p.index]
}

func (p *parser) next() Token {
	t := p.tokens[p.index]
	if t.Kind != TokenEOF {
		p.index++
	}
	return t
}

// acceptOp consumes the next token if it is one of ops.
func (p *parser) acceptOp(ops ...string) (Token, bool) {
	t := p.peek()
	if t.Kind != TokenOp {
		return t, false
	}
	for _, op := range ops {
		if t.Text == op {
			return p.next(), true
		}
	}
	return t, false
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.next()
	if t.Kind != kind {
		return t, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, found %s", kind, describe(t))}
	}
	return t, nil
}

func (p *parser) parseCmp() (Node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	op, ok := p.acceptOp("==", "!=", "<", "<=", ">", ">=")
	if !ok {
		return left, nil
	}
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if extra, ok := p.acceptOp("==", "!=", "<", "<=", ">", ">="); ok {
		return nil, &SyntaxError{Pos: extra.Pos, Msg: "comparisons cannot be chained"}
	}
	return Binary{Op: op.Text, Left: left, Right: right, Pos: op.Pos}, nil
}

func (p *parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op.Text, Left: left, Right: right, Pos: op.Pos}
	}
}

func (p *parser) parseProduct() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op.Text, Left: left, Right: right, Pos: op.Pos}
	}
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	op, ok := p.acceptOp("^")
	if !ok {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return Binary{Op: op.Text, Left: base, Right: exp, Pos: op.Pos}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.Kind {
	case TokenNumber:
		v, err := strconv.Atoi(t.Text)
		if err != nil {
			return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("number %s out of range", t.Text)}
		}
		return Number{Value: v, Pos: t.Pos}, nil

	case TokenIdent:
		if p.peek().Kind != TokenLParen {
			return Ident{Name: t.Text, Pos: t.Pos}, nil
		}
		return p.parseCall(t)

	case TokenLParen:
		inner, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %s", describe(t))}
	}
}

func (p *parser) parseCall(name Token) (Node, error) {
	p.next() // '('
	call := Call{Name: name.Text, Pos: name.Pos}
	if p.peek().Kind == TokenRParen {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		t := p.next()
		switch t.Kind {
		case TokenComma:
			continue
		case TokenRParen:
			return call, nil
		default:
			return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("expected ',' or ')', found %s", describe(t))}
		}
	}
}

func describe(t Token) string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
