// Package ooroo provides a compile-once, evaluate-many boolean rule engine.
//
// Ooroo does not parse free-form expression languages at evaluation time.
// Instead, rules are assembled with the Builder (or parsed from the small
// DSL in the dsl package), compiled into an immutable RuleSet, and then
// evaluated against a Context as many times as needed. Compilation does
// the expensive work once: name resolution, field-path interning, type
// checking, dependency-cycle detection, priority-aware topological
// scheduling, constant folding and dead-rule elimination. Evaluation walks
// the resulting plan once per call; EvaluateIndexed needs no allocation
// beyond a small per-evaluation scratch buffer, while Evaluate also splits
// each dotted field path it looks up in its Context.
//
// Typical use is as follows:
//
//  1. Build a RuleSet with a Builder: declare rules and terminals.
//  2. Call Compile to validate and schedule the rules.
//  3. Build a Context (or an IndexedContext, for repeated evaluation of the
//     same field set) describing one evaluation's input data.
//  4. Call RuleSet.Evaluate (or EvaluateIndexed, or EvaluateDetailed for a
//     diagnostic report).
//
// Rule Ownership and Modification
//
// A RuleSet returned by Compile is immutable. There is no API for mutating
// a rule after compilation; to change a rule, rebuild and recompile the
// whole RuleSet. This removes an entire class of concurrency hazard:
// a *RuleSet may be evaluated concurrently, by any number of goroutines,
// without locking, because nothing about evaluation mutates the plan.
//
// Context and IndexedContext values are not safe for concurrent writes,
// but each evaluation typically builds its own Context, so this is rarely
// a constraint in practice.
package ooroo
