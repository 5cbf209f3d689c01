// Package dsl loads Ooroo rule sets from the textual DSL rather than the
// programmatic Builder. It is the one place that resolves the grammar's
// field-vs-rule-reference ambiguity, since that resolution needs the full
// set of rule names declared in the file - information internal/parse
// deliberately does not have.
package dsl

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ooroo-rules/ooroo"
	"github.com/ooroo-rules/ooroo/internal/parse"
)

// PlanFromDSL parses src as Ooroo DSL source and compiles it into a RuleSet.
// A bare undotted identifier that matches a rule declared anywhere in src
// is treated as a reference to that rule's result; every other identifier,
// dotted or not, is treated as a field path. opts are forwarded to Compile
// unchanged (WithOptimizer, for instance).
//
// Every error returned is a *ooroo.CompileError: a malformed document comes
// back as one with Kind ooroo.KindParseError, carrying the byte offset the
// parser stopped at; everything past parsing (duplicate rules, cycles, type
// mismatches, and so on) comes back as whatever Kind Compile reports,
// positioned at the span of the DSL construct that caused it.
func PlanFromDSL(src string, opts ...ooroo.CompileOption) (*ooroo.RuleSet, error) {
	file, err := parse.Parse(src)
	if err != nil {
		return nil, parseError(err)
	}

	ruleNames := make(map[string]bool, len(file.Rules))
	for _, r := range file.Rules {
		ruleNames[r.Name] = true
	}

	b := ooroo.NewBuilder()
	for _, r := range file.Rules {
		var body *ooroo.Expr
		if r.Expr != nil {
			body, err = convert(r.Expr, ruleNames)
			if err != nil {
				if cerr, ok := err.(*ooroo.CompileError); ok {
					if cerr.Rule == "" {
						cerr.Rule = r.Name
					}
					return nil, cerr
				}
				return nil, err
			}
		}
		b.Rule(r.Name, body, toSpan(r.NameSpan))
		if r.IsTerminal {
			b.Terminal(r.Name, r.Priority, toSpan(r.NameSpan))
		}
	}

	return b.Compile(opts...)
}

// PlanFromFile reads path and loads it with PlanFromDSL.
func PlanFromFile(path string, opts ...ooroo.CompileOption) (*ooroo.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return PlanFromDSL(string(data), opts...)
}

// parseError converts a failure from internal/lex or internal/parse - the
// only two error types parse.Parse can return - into a *ooroo.CompileError
// positioned at the offset the failure was found.
func parseError(err error) *ooroo.CompileError {
	if perr, ok := err.(*parse.Error); ok {
		return ooroo.NewParseError(perr.Message, ooroo.Span{Start: perr.Pos, End: perr.Pos})
	}
	return ooroo.NewParseError(err.Error(), ooroo.Span{})
}

func toSpan(s parse.Span) ooroo.Span {
	return ooroo.Span{Start: s.Start, End: s.End}
}

func convert(e *parse.Expr, ruleNames map[string]bool) (*ooroo.Expr, error) {
	switch e.Kind {
	case parse.EIdent:
		return identExpr(e.Ident, ruleNames).WithSpan(toSpan(e.Span)), nil
	case parse.ECmp:
		return convertCmp(e)
	case parse.ENot:
		operand, err := convert(e.Left, ruleNames)
		if err != nil {
			return nil, err
		}
		return ooroo.Not(operand).WithSpan(toSpan(e.Span)), nil
	case parse.EAnd:
		left, right, err := convertPair(e, ruleNames)
		if err != nil {
			return nil, err
		}
		return left.And(right).WithSpan(toSpan(e.Span)), nil
	case parse.EOr:
		left, right, err := convertPair(e, ruleNames)
		if err != nil {
			return nil, err
		}
		return left.Or(right).WithSpan(toSpan(e.Span)), nil
	default:
		return nil, ooroo.NewParseError("unexpected expression shape in rule body", toSpan(e.Span))
	}
}

func convertPair(e *parse.Expr, ruleNames map[string]bool) (*ooroo.Expr, *ooroo.Expr, error) {
	left, err := convert(e.Left, ruleNames)
	if err != nil {
		return nil, nil, err
	}
	right, err := convert(e.Right, ruleNames)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// identExpr resolves the field-vs-rule-reference ambiguity: a dotted path
// is always a field; an undotted name matching a declared rule is that
// rule's result; anything else is a bare field taken as a boolean.
func identExpr(name string, ruleNames map[string]bool) *ooroo.Expr {
	if !strings.Contains(name, ".") && ruleNames[name] {
		return ooroo.RuleRefExpr(name)
	}
	return ooroo.Field(name).IsTrue()
}

func convertCmp(e *parse.Expr) (*ooroo.Expr, error) {
	if e.Left.Kind != parse.EIdent {
		return nil, ooroo.NewParseError("comparison's left-hand side must be a field reference", toSpan(e.Left.Span))
	}
	field := ooroo.Field(e.Left.Ident)
	value := litValue(e.Right)
	var cmp *ooroo.Expr
	switch e.Op {
	case parse.OpEq:
		cmp = field.Eq(value)
	case parse.OpNe:
		cmp = field.Ne(value)
	case parse.OpLt:
		cmp = field.Lt(value)
	case parse.OpLe:
		cmp = field.Le(value)
	case parse.OpGt:
		cmp = field.Gt(value)
	case parse.OpGe:
		cmp = field.Ge(value)
	default:
		return nil, ooroo.NewParseError(fmt.Sprintf("unknown comparison operator %d", e.Op), toSpan(e.Span))
	}
	cmp.Left.WithSpan(toSpan(e.Left.Span))
	cmp.Right.WithSpan(toSpan(e.Right.Span))
	return cmp.WithSpan(toSpan(e.Span)), nil
}

func litValue(e *parse.Expr) ooroo.Value {
	switch e.LitKind {
	case parse.LitInt:
		return ooroo.IntValue(e.I)
	case parse.LitFloat:
		return ooroo.FloatValue(e.F)
	case parse.LitBool:
		return ooroo.BoolValue(e.B)
	case parse.LitString:
		return ooroo.StringValue(e.S)
	default:
		return ooroo.Value{}
	}
}
