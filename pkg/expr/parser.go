package expr

import (
	"github.com/arthur-debert/rigkit/pkg/errors"
)

type node interface {
	eval(env Env) (Value, error)
}

type literal struct{ v Value }

type ident struct{ name string }

type unary struct {
	op string
	x  node
}

type binary struct {
	op   string
	l, r node
}

// comparison holds a chain such as a < b <= c, which means a < b and b <= c
type comparison struct {
	ops      []string
	operands []node
}

type parser struct {
	toks   []token
	pos    int
	idents []string
	seen   map[string]bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(word string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == word
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func parse(src string) (node, []string, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks, seen: map[string]bool{}}
	if p.peek().kind == tokEOF {
		return nil, nil, errors.New(errors.ErrExpression, "empty expression")
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, nil, errors.Newf(errors.ErrExpression, "unexpected %q at %d", t.text, t.pos)
	}
	return root, p.idents, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binary{op: "or", l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binary{op: "and", l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.isKeyword("not") {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unary{op: "not", x: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.isOp("==", "!=", "<", ">", "<=", ">=") {
		return first, nil
	}
	cmp := &comparison{operands: []node{first}}
	for p.isOp("==", "!=", "<", ">", "<=", ">=") {
		op := p.next().text
		operand, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		cmp.ops = append(cmp.ops, op)
		cmp.operands = append(cmp.operands, operand)
	}
	return cmp, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.isOp("-", "+") {
		op := p.next().text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unary{op: op, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &literal{v: Number(t.num)}, nil
	case tokString:
		return &literal{v: String(t.text)}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, errors.Newf(errors.ErrExpression, "missing ')' at %d", p.peek().pos)
		}
		p.next()
		return inner, nil
	case tokIdent:
		switch t.text {
		case "True", "true":
			return &literal{v: Bool(true)}, nil
		case "False", "false":
			return &literal{v: Bool(false)}, nil
		case "and", "or", "not":
			return nil, errors.Newf(errors.ErrExpression, "unexpected %q at %d", t.text, t.pos)
		}
		if !p.seen[t.text] {
			p.seen[t.text] = true
			p.idents = append(p.idents, t.text)
		}
		return &ident{name: t.text}, nil
	case tokEOF:
		return nil, errors.New(errors.ErrExpression, "unexpected end of expression")
	}
	return nil, errors.Newf(errors.ErrExpression, "unexpected %q at %d", t.text, t.pos)
}
