package ooroo

import (
	"fmt"
	"strings"
	"time"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
	"github.com/dustin/go-humanize"
)

// DiagnosticReason classifies why a comparison inside a rule's condition
// did not produce a definite true/false during a detailed evaluation.
type DiagnosticReason uint8

const (
	// ReasonMissingField: the Context had no value at all for this path.
	ReasonMissingField DiagnosticReason = iota
	// ReasonTypeMismatch: both operands had values, but Value.Compare
	// reported them incomparable under the requested operator; or a bare
	// field used as a boolean held a non-bool value.
	ReasonTypeMismatch
)

func (r DiagnosticReason) String() string {
	switch r {
	case ReasonMissingField:
		return "missing field"
	case ReasonTypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// Diagnostic explains one comparison that silently evaluated false because
// its inputs were missing or incompatible, rather than because the
// comparison was genuinely not satisfied.
type Diagnostic struct {
	Rule     string
	Field    string
	Reason   DiagnosticReason
	Expected ValueKind
	Actual   ValueKind
}

func (d Diagnostic) String() string {
	switch d.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("rule %q: field %q was not set in the context", d.Rule, d.Field)
	case ReasonTypeMismatch:
		return fmt.Sprintf("rule %q: field %q was %s, expected %s", d.Rule, d.Field, d.Actual, d.Expected)
	default:
		return fmt.Sprintf("rule %q: %s", d.Rule, d.Reason)
	}
}

// RuleOutcome pairs a rule name with the boolean it evaluated to, true or
// false alike - unlike Verdict, which only ever names a winning terminal.
type RuleOutcome struct {
	Name   string
	Result bool
}

func (o RuleOutcome) String() string { return fmt.Sprintf("%s=%t", o.Name, o.Result) }

// EvaluationReport is the result of RuleSet.EvaluateDetailed: the verdict
// (if any), every rule's name and outcome in the order the whole rule set
// was walked, how long evaluation took, and any diagnostics collected along
// the way. Modeled on the reference implementation's EvaluationReport.
type EvaluationReport struct {
	Verdict         *Verdict
	Evaluated       []RuleOutcome
	EvaluationOrder []string
	Duration        time.Duration
	Diagnostics     []Diagnostic
}

// String renders the report the way the reference implementation's
// EvaluationReport::Display does: "verdict: ...", "evaluated: [...]",
// "duration: ...".
func (r *EvaluationReport) String() string {
	var sb strings.Builder
	if r.Verdict != nil {
		sb.WriteString(fmt.Sprintf("verdict: %s", r.Verdict))
	} else {
		sb.WriteString("verdict: none")
	}
	outcomes := make([]string, len(r.Evaluated))
	for i, o := range r.Evaluated {
		outcomes[i] = o.String()
	}
	sb.WriteString(fmt.Sprintf(", evaluated: [%s]", strings.Join(outcomes, ", ")))
	sb.WriteString(fmt.Sprintf(", duration: %s", humanize.RelTime(time.Now().Add(-r.Duration), time.Now(), "", "")))
	return sb.String()
}

// Box renders a full diagnostic report: the one-line summary from String
// (verdict, every rule's outcome, duration), the evaluation order, and a
// table of diagnostics when there are any -
// grounded on the teacher's Diagnostics.AsString, which boxes a summary
// above a simpletable of evaluation state.
func (r *EvaluationReport) Box() string {
	b := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	var sb strings.Builder
	sb.WriteString(r.String())
	sb.WriteString("\n\n")
	sb.WriteString("Evaluation Order:\n")
	sb.WriteString("-----------------\n")
	sb.WriteString(strings.Join(r.EvaluationOrder, " -> "))
	sb.WriteString("\n\n")

	if len(r.Diagnostics) > 0 {
		sb.WriteString("Diagnostics:\n")
		sb.WriteString("------------\n")
		sb.WriteString(r.diagnosticsTable().String())
	}

	return b.String("OOROO EVALUATION REPORT", sb.String())
}

func (r *EvaluationReport) diagnosticsTable() *simpletable.Table {
	t := simpletable.New()
	t.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Rule"},
			{Align: simpletable.AlignCenter, Text: "Field"},
			{Align: simpletable.AlignCenter, Text: "Reason"},
		},
	}
	for _, d := range r.Diagnostics {
		t.Body.Cells = append(t.Body.Cells, []*simpletable.Cell{
			{Text: d.Rule},
			{Text: d.Field},
			{Text: d.Reason.String()},
		})
	}
	t.SetStyle(simpletable.StyleUnicode)
	return t
}

// EvaluateDetailed runs rs against ctx exactly as Evaluate does, but also
// records every rule's name and boolean outcome, the full evaluation
// order, how long it took, and a diagnostic for every comparison that
// evaluated false because a field was missing or a type mismatch, rather
// than because the comparison was genuinely not satisfied.
func (rs *RuleSet) EvaluateDetailed(ctx *Context) *EvaluationReport {
	start := time.Now()

	results := make([]bool, len(rs.rules))
	var diags []Diagnostic
	evaluated := make([]RuleOutcome, len(rs.rules))
	order := make([]string, len(rs.rules))

	for _, r := range rs.rules {
		order[r.Index] = r.Name
		results[r.Index] = evalDynamicDetailed(r.Expr, ctx, results, r.Name, &diags)
		evaluated[r.Index] = RuleOutcome{Name: r.Name, Result: results[r.Index]}
	}

	report := &EvaluationReport{
		Evaluated:       evaluated,
		EvaluationOrder: order,
		Duration:        time.Since(start),
		Diagnostics:     diags,
	}
	if v, ok := rs.pickVerdict(results); ok {
		report.Verdict = &v
	}
	return report
}

func evalDynamicDetailed(e *Expr, ctx *Context, results []bool, rule string, diags *[]Diagnostic) bool {
	switch e.Kind {
	case exprLit:
		return e.Lit.Kind() == KindBool && e.Lit.Bool()
	case exprSlotRef:
		v, ok := ctx.Get(e.FieldPath)
		if !ok {
			*diags = append(*diags, Diagnostic{Rule: rule, Field: e.FieldPath, Reason: ReasonMissingField, Expected: KindBool})
			return false
		}
		if v.Kind() != KindBool {
			*diags = append(*diags, Diagnostic{Rule: rule, Field: e.FieldPath, Reason: ReasonTypeMismatch, Expected: KindBool, Actual: v.Kind()})
			return false
		}
		return v.Bool()
	case exprRuleIdx:
		return results[e.RuleIdx]
	case exprCmp:
		return compareDynamicDetailed(e, ctx, rule, diags)
	case exprNot:
		return !evalDynamicDetailed(e.Left, ctx, results, rule, diags)
	case exprAnd:
		return evalDynamicDetailed(e.Left, ctx, results, rule, diags) && evalDynamicDetailed(e.Right, ctx, results, rule, diags)
	case exprOr:
		return evalDynamicDetailed(e.Left, ctx, results, rule, diags) || evalDynamicDetailed(e.Right, ctx, results, rule, diags)
	default:
		return false
	}
}

func compareDynamicDetailed(e *Expr, ctx *Context, rule string, diags *[]Diagnostic) bool {
	left, leftOK := operandDynamic(e.Left, ctx)
	if !leftOK && e.Left.Kind == exprSlotRef {
		*diags = append(*diags, Diagnostic{Rule: rule, Field: e.Left.FieldPath, Reason: ReasonMissingField})
	}
	right, rightOK := operandDynamic(e.Right, ctx)
	if !rightOK && e.Right.Kind == exprSlotRef {
		*diags = append(*diags, Diagnostic{Rule: rule, Field: e.Right.FieldPath, Reason: ReasonMissingField})
	}
	if !leftOK || !rightOK {
		return false
	}
	result, ok := left.Compare(e.Op, right)
	if !ok {
		field, kind := fieldAndKind(e.Left, left)
		if field == "" {
			field, kind = fieldAndKind(e.Right, right)
		}
		*diags = append(*diags, Diagnostic{Rule: rule, Field: field, Reason: ReasonTypeMismatch, Expected: otherKind(left, right, kind), Actual: kind})
		return false
	}
	return result
}

func fieldAndKind(e *Expr, v Value) (string, ValueKind) {
	if e.Kind == exprSlotRef {
		return e.FieldPath, v.Kind()
	}
	return "", v.Kind()
}

func otherKind(left, right Value, not ValueKind) ValueKind {
	if left.Kind() != not {
		return left.Kind()
	}
	return right.Kind()
}
