package keyword

import (
	"strconv"
	"strings"

	"github.com/vultra/vshaderc/vserr"
)

// Context is the evaluation environment for an only_if(...) constraint: resolved
// keyword values, keyed by name, plus every declaration in scope (used for
// enumerant-name lookups across all Enum declarations).
type Context struct {
	Values map[string]uint32
	Decls  map[string]Decl
}

// tokenKind identifies a lexical token of the only_if grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokTrue
	tokFalse
	tokAnd
	tokOr
	tokEq
	tokNe
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func lex(expr string) ([]token, error) {
	var toks []token
	i := 0
	n := len(expr)
	for i < n {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '&' && i+1 < n && expr[i+1] == '&':
			toks = append(toks, token{tokAnd, "&&"})
			i += 2
		case c == '|' && i+1 < n && expr[i+1] == '|':
			toks = append(toks, token{tokOr, "||"})
			i += 2
		case c == '=' && i+1 < n && expr[i+1] == '=':
			toks = append(toks, token{tokEq, "=="})
			i += 2
		case c == '!' && i+1 < n && expr[i+1] == '=':
			toks = append(toks, token{tokNe, "!="})
			i += 2
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(expr[j]) {
				j++
			}
			word := expr[i:j]
			switch word {
			case "true":
				toks = append(toks, token{tokTrue, word})
			case "false":
				toks = append(toks, token{tokFalse, word})
			default:
				toks = append(toks, token{tokIdent, word})
			}
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < n && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			toks = append(toks, token{tokNumber, expr[i:j]})
			i = j
		default:
			return nil, vserr.New(vserr.ParseError, "only_if: unexpected character %q", string(c))
		}
	}
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parser implements the only_if constraint's recursive-descent grammar: an
// or-of-ands of equality comparisons and parenthesized subexpressions over
// identifiers, numeric literals, and true/false.
type parser struct {
	toks []token
	pos  int
	ctx  Context
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// EvalOnlyIf evaluates an only_if(...) constraint's inner expression (without the
// surrounding "only_if(" / ")" — callers strip that, see metadata parsing) against
// ctx. An empty expr evaluates to true.
func EvalOnlyIf(expr string, ctx Context) (bool, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return true, nil
	}

	toks, err := lex(trimmed)
	if err != nil {
		return false, err
	}
	p := &parser{toks: toks, ctx: ctx}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.peek().kind != tokEOF {
		return false, vserr.New(vserr.ParseError, "only_if: unexpected trailing token %q", p.peek().text)
	}
	return v != 0, nil
}

func (p *parser) parseOr() (uint64, error) {
	v, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokOr {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		if v != 0 || rhs != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v, nil
}

func (p *parser) parseAnd() (uint64, error) {
	v, err := p.parseCmp()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		rhs, err := p.parseCmp()
		if err != nil {
			return 0, err
		}
		if v != 0 && rhs != 0 {
			v = 1
		} else {
			v = 0
		}
	}
	return v, nil
}

func (p *parser) parseCmp() (uint64, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	switch p.peek().kind {
	case tokEq:
		p.next()
		rhs, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}
		if lhs == rhs {
			return 1, nil
		}
		return 0, nil
	case tokNe:
		p.next()
		rhs, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}
		if lhs != rhs {
			return 1, nil
		}
		return 0, nil
	default:
		return lhs, nil
	}
}

func (p *parser) parsePrimary() (uint64, error) {
	t := p.next()
	switch t.kind {
	case tokTrue:
		return 1, nil
	case tokFalse:
		return 0, nil
	case tokNumber:
		n, err := strconv.ParseUint(t.text, 10, 64)
		if err != nil {
			return 0, vserr.New(vserr.ParseError, "only_if: invalid number %q", t.text)
		}
		return n, nil
	case tokIdent:
		return p.resolveIdent(t.text)
	case tokLParen:
		v, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokRParen {
			return 0, vserr.New(vserr.ParseError, "only_if: expected ')'")
		}
		p.next()
		return v, nil
	default:
		return 0, vserr.New(vserr.ParseError, "only_if: unexpected token %q", t.text)
	}
}

// resolveIdent follows the only_if grammar's identifier resolution order: keyword
// value in ctx.Values, then an enumerant search across all Enum declarations in
// ctx.Decls.
func (p *parser) resolveIdent(name string) (uint64, error) {
	if v, ok := p.ctx.Values[name]; ok {
		return uint64(v), nil
	}
	for _, d := range p.ctx.Decls {
		if idx := d.EnumerantIndex(name); idx >= 0 {
			return uint64(idx), nil
		}
	}
	return 0, vserr.New(vserr.ParseError, "only_if: unresolved identifier %q", name)
}
