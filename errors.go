package ooroo

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Span is a byte offset range into DSL source text. Rules and terminals
// built with the Builder carry a zero Span; diagnostics produced against
// them simply omit position information.
type Span struct {
	Start, End int
}

// IsZero reports whether s carries no source position.
func (s Span) IsZero() bool { return s == Span{} }

// ErrorKind classifies a CompileError.
type ErrorKind uint8

const (
	// KindDuplicateRule: two rules declared the same name.
	KindDuplicateRule ErrorKind = iota
	// KindMissingCondition: a rule was declared without a condition.
	KindMissingCondition
	// KindUndefinedRuleRef: an expression refers to a rule name that was
	// never declared.
	KindUndefinedRuleRef
	// KindCyclicDependency: the rule dependency graph contains a cycle.
	KindCyclicDependency
	// KindNoTerminals: the rule set declares no terminals at all.
	KindNoTerminals
	// KindUndefinedTerminal: a terminal names a rule that was never
	// declared.
	KindUndefinedTerminal
	// KindDuplicateTerminal: the same rule is declared terminal twice.
	KindDuplicateTerminal
	// KindTypeMismatch: a comparison or boolean context combines
	// incompatible operand types.
	KindTypeMismatch
	// KindEmptyRuleSet: no rules were declared at all.
	KindEmptyRuleSet
	// KindParseError: the DSL source could not be parsed, or a parsed
	// construct has a shape the converter does not recognize.
	KindParseError
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateRule:
		return "duplicate rule"
	case KindMissingCondition:
		return "missing condition"
	case KindUndefinedRuleRef:
		return "undefined rule reference"
	case KindCyclicDependency:
		return "cyclic dependency"
	case KindNoTerminals:
		return "no terminals"
	case KindUndefinedTerminal:
		return "undefined terminal"
	case KindDuplicateTerminal:
		return "duplicate terminal"
	case KindTypeMismatch:
		return "type mismatch"
	case KindEmptyRuleSet:
		return "empty rule set"
	case KindParseError:
		return "parse error"
	default:
		return "compile error"
	}
}

// CompileError reports why Compile failed. It carries enough structure for
// a caller to build its own diagnostics, while Error() renders a
// reasonable one-line message on its own.
type CompileError struct {
	Kind ErrorKind

	// Message is a human-readable description specific to this failure.
	Message string

	// Rule, when non-empty, names the rule the error was found in.
	Rule string

	// Path, for a KindCyclicDependency error, lists the rule names that
	// make up the cycle, first and last entries equal.
	Path []string

	// PrimarySpan locates the offending construct in DSL source, if the
	// rule set was parsed from DSL text rather than built programmatically.
	PrimarySpan Span

	// RelatedSpans carries additional positions relevant to the error: the
	// spans of every reference that forms a KindCyclicDependency cycle; for
	// a KindTypeMismatch, the span of the conflicting earlier use of a
	// field, or the spans of both operands when a comparison's own operands
	// have incompatible types.
	RelatedSpans []Span

	cause error
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case KindCyclicDependency:
		return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Path, " -> "))
	case KindDuplicateRule:
		return fmt.Sprintf("duplicate rule %q", e.Rule)
	case KindMissingCondition:
		return fmt.Sprintf("rule %q has no condition", e.Rule)
	case KindUndefinedRuleRef:
		return fmt.Sprintf("rule %q: %s", e.Rule, e.Message)
	case KindUndefinedTerminal:
		return fmt.Sprintf("terminal refers to undefined rule %q", e.Rule)
	case KindDuplicateTerminal:
		return fmt.Sprintf("rule %q declared terminal more than once", e.Rule)
	case KindNoTerminals:
		return "rule set declares no terminals"
	case KindEmptyRuleSet:
		return "rule set declares no rules"
	case KindTypeMismatch:
		return fmt.Sprintf("rule %q: %s", e.Rule, e.Message)
	case KindParseError:
		return e.Message
	default:
		return e.Message
	}
}

// Unwrap exposes a wrapped cause, if any, to errors.Is/errors.As.
func (e *CompileError) Unwrap() error { return e.cause }

func newCompileError(kind ErrorKind, rule, message string) *CompileError {
	return &CompileError{Kind: kind, Rule: rule, Message: message, cause: errors.New(message)}
}

func duplicateRuleError(name string, span Span) *CompileError {
	return &CompileError{Kind: KindDuplicateRule, Rule: name, PrimarySpan: span, cause: errors.Errorf("duplicate rule %q", name)}
}

func missingConditionError(name string, span Span) *CompileError {
	return &CompileError{Kind: KindMissingCondition, Rule: name, PrimarySpan: span, cause: errors.Errorf("rule %q has no condition", name)}
}

func undefinedRuleRefError(rule, ref string, span Span) *CompileError {
	msg := fmt.Sprintf("undefined rule reference %q", ref)
	return &CompileError{Kind: KindUndefinedRuleRef, Rule: rule, Message: msg, PrimarySpan: span, cause: errors.Errorf("rule %q: %s", rule, msg)}
}

// cyclicDependencyError reports a dependency cycle. spans holds the span of
// each reference that closes the cycle, aligned with path[i] -> path[i+1];
// the first is taken as the primary span when present.
func cyclicDependencyError(path []string, spans []Span) *CompileError {
	var primary Span
	if len(spans) > 0 {
		primary = spans[0]
	}
	return &CompileError{
		Kind:         KindCyclicDependency,
		Path:         path,
		PrimarySpan:  primary,
		RelatedSpans: spans,
		cause:        errors.Errorf("cyclic dependency: %s", strings.Join(path, " -> ")),
	}
}

func noTerminalsError() *CompileError {
	return &CompileError{Kind: KindNoTerminals, cause: errors.New("rule set declares no terminals")}
}

func emptyRuleSetError() *CompileError {
	return &CompileError{Kind: KindEmptyRuleSet, cause: errors.New("rule set declares no rules")}
}

func undefinedTerminalError(name string, span Span) *CompileError {
	return &CompileError{Kind: KindUndefinedTerminal, Rule: name, PrimarySpan: span, cause: errors.Errorf("terminal refers to undefined rule %q", name)}
}

func duplicateTerminalError(name string, span Span) *CompileError {
	return &CompileError{Kind: KindDuplicateTerminal, Rule: name, PrimarySpan: span, cause: errors.Errorf("rule %q declared terminal more than once", name)}
}

// typeMismatchError reports an incompatible-type use. primary locates the
// construct that revealed the conflict; related, when given, locates the
// earlier use it conflicts with, or the operands of a comparison whose
// types clash directly.
func typeMismatchError(rule, message string, primary Span, related ...Span) *CompileError {
	return &CompileError{
		Kind:         KindTypeMismatch,
		Rule:         rule,
		Message:      message,
		PrimarySpan:  primary,
		RelatedSpans: related,
		cause:        errors.Errorf("rule %q: %s", rule, message),
	}
}

// NewParseError builds a CompileError for a malformed DSL document: either
// unparsable source text, or a parsed construct that package dsl does not
// know how to convert into a rule condition. It is exported so dsl, which
// lives outside this package, can report these failures with the same
// *CompileError shape as every other compile failure.
func NewParseError(message string, span Span) *CompileError {
	return &CompileError{Kind: KindParseError, Message: message, PrimarySpan: span, cause: errors.New(message)}
}
