package expr

import (
	"sync"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
)

// Program is a compiled expression. Programs are immutable and safe to share.
type Program struct {
	src    string
	root   node
	idents []string
}

var cache sync.Map // source -> *Program

// Compile parses src into a Program. Results are cached per source string.
func Compile(src string) (*Program, error) {
	if p, ok := cache.Load(src); ok {
		return p.(*Program), nil
	}
	root, idents, err := parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExpression, "cannot parse %q", src).
			WithDetail("expression", src)
	}
	p := &Program{src: src, root: root, idents: idents}
	actual, _ := cache.LoadOrStore(src, p)
	return actual.(*Program), nil
}

// Source returns the text the program was compiled from
func (p *Program) Source() string { return p.src }

// Identifiers lists the names referenced by the program, in order of first use
func (p *Program) Identifiers() []string {
	out := make([]string, len(p.idents))
	copy(out, p.idents)
	return out
}

// Eval runs the program against env
func (p *Program) Eval(env Env) (Value, error) {
	if env == nil {
		env = Vars{}
	}
	v, err := p.root.eval(env)
	if err != nil {
		if re, ok := err.(*errors.RigError); ok {
			return Unknown, re.WithDetail("expression", p.src)
		}
		return Unknown, err
	}
	return v, nil
}

// Evaluate compiles and runs src, returning a coded error on any failure
func Evaluate(src string, env Env) (Value, error) {
	p, err := Compile(src)
	if err != nil {
		return Unknown, err
	}
	return p.Eval(env)
}

// Eval compiles and runs src. Failures are logged and reported as Unknown.
// Unresolved names are routine (a property outside the active scope) and
// only logged at debug level.
func Eval(src string, env Env) Value {
	v, err := Evaluate(src, env)
	if err == nil {
		return v
	}
	logger := logging.GetLogger("expr")
	if errors.IsErrorCode(err, errors.ErrUnresolvedName) {
		logger.Debug().Err(err).Str("expression", src).Msg("expression has unresolved names")
	} else {
		logger.Warn().Err(err).Str("expression", src).Msg("invalid expression")
	}
	return Unknown
}

func (l *literal) eval(Env) (Value, error) { return l.v, nil }

func (i *ident) eval(env Env) (Value, error) {
	v, ok := env.Lookup(i.name)
	if !ok || !v.Known() {
		return Unknown, errors.Newf(errors.ErrUnresolvedName, "unresolved name %q", i.name).
			WithDetail("name", i.name)
	}
	return v, nil
}

func (u *unary) eval(env Env) (Value, error) {
	x, err := u.x.eval(env)
	if err != nil {
		return Unknown, err
	}
	if u.op == "not" {
		return Bool(!x.Truthy()), nil
	}
	n, ok := x.Float()
	if !ok {
		return Unknown, errors.Newf(errors.ErrExpression, "bad operand for unary %s: %s", u.op, x)
	}
	if u.op == "-" {
		n = -n
	}
	return Number(n), nil
}

func (b *binary) eval(env Env) (Value, error) {
	l, err := b.l.eval(env)
	if err != nil {
		return Unknown, err
	}

	// and/or return one of their operands and short-circuit
	switch b.op {
	case "and":
		if !l.Truthy() {
			return l, nil
		}
		return b.r.eval(env)
	case "or":
		if l.Truthy() {
			return l, nil
		}
		return b.r.eval(env)
	}

	r, err := b.r.eval(env)
	if err != nil {
		return Unknown, err
	}
	return arith(b.op, l, r)
}

func arith(op string, l, r Value) (Value, error) {
	if op == "+" {
		ls, lok := l.Text()
		rs, rok := r.Text()
		if lok && rok {
			return String(ls + rs), nil
		}
	}
	x, xok := l.Float()
	y, yok := r.Float()
	if !xok || !yok {
		return Unknown, errors.Newf(errors.ErrExpression, "unsupported operands for %s: %s and %s", op, l, r)
	}
	switch op {
	case "+":
		return Number(x + y), nil
	case "-":
		return Number(x - y), nil
	case "*":
		return Number(x * y), nil
	case "/":
		if y == 0 {
			return Unknown, errors.New(errors.ErrDivision, "division by zero")
		}
		return Number(x / y), nil
	}
	return Unknown, errors.Newf(errors.ErrExpression, "unknown operator %q", op)
}

func (c *comparison) eval(env Env) (Value, error) {
	left, err := c.operands[0].eval(env)
	if err != nil {
		return Unknown, err
	}
	for i, op := range c.ops {
		right, err := c.operands[i+1].eval(env)
		if err != nil {
			return Unknown, err
		}
		ok, err := compare(op, left, right)
		if err != nil {
			return Unknown, err
		}
		if !ok {
			return Bool(false), nil
		}
		left = right
	}
	return Bool(true), nil
}

func compare(op string, l, r Value) (bool, error) {
	if x, ok := l.Float(); ok {
		if y, ok := r.Float(); ok {
			switch op {
			case "==":
				return x == y, nil
			case "!=":
				return x != y, nil
			case "<":
				return x < y, nil
			case ">":
				return x > y, nil
			case "<=":
				return x <= y, nil
			case ">=":
				return x >= y, nil
			}
		}
	}
	ls, lok := l.Text()
	rs, rok := r.Text()
	if lok && rok {
		switch op {
		case "==":
			return ls == rs, nil
		case "!=":
			return ls != rs, nil
		case "<":
			return ls < rs, nil
		case ">":
			return ls > rs, nil
		case "<=":
			return ls <= rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}
	// Mixed text and number: equality is well defined, ordering is not
	switch op {
	case "==":
		return false, nil
	case "!=":
		return true, nil
	}
	return false, errors.Newf(errors.ErrExpression, "cannot order %s and %s", l, r)
}
