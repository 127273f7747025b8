package expr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/rigkit/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// twoCharOps must be tried before their single-character prefixes
var twoCharOps = []string{"==", "!=", "<=", ">="}

const singleCharOps = "<>+-*/"

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lex splits src into tokens. Keywords (and, or, not, True, False) are
// returned as identifiers and recognised by the parser.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++

		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++

		case r == '#':
			// Placeholder used by templated requirements
			toks = append(toks, token{kind: tokIdent, text: "#", pos: i})
			i++

		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			// Exponent, eg. 1e-3
			if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
				j := i + 1
				if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
					j++
				}
				if j < len(runes) && unicode.IsDigit(runes[j]) {
					i = j
					for i < len(runes) && unicode.IsDigit(runes[i]) {
						i++
					}
				}
			}
			text := string(runes[start:i])
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrExpression, "invalid number %q at %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: n, pos: start})

		case r == '\'' || r == '"':
			start := i
			quote := r
			i++
			var sb strings.Builder
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					sb.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == quote {
					closed = true
					i++
					break
				}
				sb.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, errors.Newf(errors.ErrExpression, "unterminated string at %d", start)
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), pos: start})

		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})

		default:
			matched := false
			if i+1 < len(runes) {
				pair := string(runes[i : i+2])
				for _, op := range twoCharOps {
					if pair == op {
						toks = append(toks, token{kind: tokOp, text: op, pos: i})
						i += 2
						matched = true
						break
					}
				}
			}
			if matched {
				continue
			}
			if strings.ContainsRune(singleCharOps, r) {
				toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
				i++
				continue
			}
			return nil, errors.Newf(errors.ErrExpression, "unknown operator %q at %d", string(r), i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}
