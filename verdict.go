package ooroo

import "fmt"

// Verdict names the terminal rule that decided an evaluation, and the
// boolean result of evaluating it. Terminals are always true when
// reported this way: Evaluate returns the first terminal, in priority
// order, whose rule evaluated true, so Verdict.Result is always true;
// the field exists for symmetry with EvaluationReport's verdict slot,
// which can hold no terminal at all.
type Verdict struct {
	Terminal string
	Result   bool
}

// String renders the verdict as "terminal = result".
func (v Verdict) String() string {
	return fmt.Sprintf("%s = %t", v.Terminal, v.Result)
}
