package parse

import (
	"fmt"
	"strconv"

	"github.com/ooroo-rules/ooroo/internal/lex"
)

// Error reports a syntax error found while parsing.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Message) }

// Parse tokenizes and parses src into a File.
func Parse(src string) (*File, error) {
	toks, err := lex.Lex(src)
	if err != nil {
		le := err.(*lex.Error)
		return nil, &Error{Pos: le.Pos, Message: le.Message}
	}
	p := &parser{toks: toks}
	return p.parseFile()
}

type parser struct {
	toks []lex.Token
	pos  int
}

func (p *parser) peek() lex.Token { return p.toks[p.pos] }

func (p *parser) advance() lex.Token {
	t := p.toks[p.pos]
	if t.Kind != lex.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lex.Kind) (lex.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, &Error{Pos: t.Start, Message: fmt.Sprintf("expected %s, found %s", k, t.Kind)}
	}
	return p.advance(), nil
}

func (p *parser) parseFile() (*File, error) {
	f := &File{}
	for p.peek().Kind != lex.EOF {
		rule, err := p.parseRuleDef(len(f.Rules))
		if err != nil {
			return nil, err
		}
		f.Rules = append(f.Rules, *rule)
	}
	return f, nil
}

func (p *parser) parseRuleDef(declOrder int) (*Rule, error) {
	if _, err := p.expect(lex.Rule); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lex.Ident)
	if err != nil {
		return nil, err
	}

	r := &Rule{
		Name:      nameTok.Text,
		NameSpan:  Span{nameTok.Start, nameTok.End},
		DeclOrder: declOrder,
	}

	if p.peek().Kind == lex.LParen {
		p.advance()
		if _, err := p.expect(lex.Priority); err != nil {
			return nil, err
		}
		prioTok, err := p.expect(lex.Int)
		if err != nil {
			return nil, err
		}
		prio, err := strconv.ParseInt(prioTok.Text, 10, 64)
		if err != nil || prio < 0 {
			return nil, &Error{Pos: prioTok.Start, Message: "priority must be a non-negative integer"}
		}
		if _, err := p.expect(lex.RParen); err != nil {
			return nil, err
		}
		r.IsTerminal = true
		r.Priority = int(prio)
	}

	if _, err := p.expect(lex.Colon); err != nil {
		return nil, err
	}

	exprStart := p.peek().Start
	if p.peek().Kind == lex.Rule || p.peek().Kind == lex.EOF {
		// Nothing follows the colon before the next rule (or EOF):
		// a rule declared without a condition.
		r.ExprSpan = Span{exprStart, exprStart}
		return r, nil
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	r.Expr = expr
	r.ExprSpan = expr.Span
	return r, nil
}

func (p *parser) parseOr() (*Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == lex.Or {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: EOr, Left: left, Right: right, Span: Span{left.Span.Start, right.Span.End}}
	}
	return left, nil
}

func (p *parser) parseAnd() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == lex.And {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: EAnd, Left: left, Right: right, Span: Span{left.Span.Start, right.Span.End}}
	}
	return left, nil
}

func (p *parser) parseUnary() (*Expr, error) {
	if p.peek().Kind == lex.Not {
		notTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ENot, Left: operand, Span: Span{notTok.Start, operand.Span.End}}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Expr, error) {
	if p.peek().Kind == lex.LParen {
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parseComparisonOrIdent()
}

func (p *parser) parseComparisonOrIdent() (*Expr, error) {
	identTok, err := p.expect(lex.Ident)
	if err != nil {
		return nil, err
	}
	ident := &Expr{Kind: EIdent, Ident: identTok.Text, Span: Span{identTok.Start, identTok.End}}

	op, ok := compareOpOf(p.peek().Kind)
	if !ok {
		return ident, nil
	}
	p.advance()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: ECmp, Op: op, Left: ident, Right: value, Span: Span{ident.Span.Start, value.Span.End}}, nil
}

func compareOpOf(k lex.Kind) (CompareOp, bool) {
	switch k {
	case lex.Eq:
		return OpEq, true
	case lex.Ne:
		return OpNe, true
	case lex.Lt:
		return OpLt, true
	case lex.Le:
		return OpLe, true
	case lex.Gt:
		return OpGt, true
	case lex.Ge:
		return OpGe, true
	default:
		return 0, false
	}
}

func (p *parser) parseValue() (*Expr, error) {
	t := p.peek()
	switch t.Kind {
	case lex.String:
		p.advance()
		return &Expr{Kind: ELit, LitKind: LitString, S: t.Text, Span: Span{t.Start, t.End}}, nil
	case lex.True:
		p.advance()
		return &Expr{Kind: ELit, LitKind: LitBool, B: true, Span: Span{t.Start, t.End}}, nil
	case lex.False:
		p.advance()
		return &Expr{Kind: ELit, LitKind: LitBool, B: false, Span: Span{t.Start, t.End}}, nil
	case lex.Int:
		p.advance()
		i, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, &Error{Pos: t.Start, Message: fmt.Sprintf("invalid integer literal %q", t.Text)}
		}
		return &Expr{Kind: ELit, LitKind: LitInt, I: i, Span: Span{t.Start, t.End}}, nil
	case lex.Float:
		p.advance()
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, &Error{Pos: t.Start, Message: fmt.Sprintf("invalid float literal %q", t.Text)}
		}
		return &Expr{Kind: ELit, LitKind: LitFloat, F: f, Span: Span{t.Start, t.End}}, nil
	default:
		return nil, &Error{Pos: t.Start, Message: fmt.Sprintf("expected a value, found %s", t.Kind)}
	}
}
