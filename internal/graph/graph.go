// Package graph implements the dependency analysis shared by rule set
// compilation: cycle detection and priority-aware topological scheduling.
// It knows nothing about rule conditions or field access - only about rule
// names, their direct dependencies on other rule names, and the priority
// of each declared terminal - so it can be exercised and tested
// independently of the rest of the compiler.
//
// The algorithms here are a direct port of the topological_sort/find_cycle
// pair in the reference implementation's compile module: Kahn's algorithm
// for scheduling, extended to break ties by (minimum priority of any
// terminal that depends on this rule, declaration order), and a DFS
// three-coloring walk for cycle detection that reconstructs the full cycle
// path rather than just reporting that one exists.
package graph

import "sort"

// Span is a byte offset range into DSL source text, carried alongside a
// dependency edge so a cycle found later can point back at the reference
// that created it. A caller with no source text (a programmatically built
// rule set) leaves it zero.
type Span struct {
	Start, End int
}

// Node is one rule, as seen by the dependency graph: its name, the order it
// was declared in, and the names of the rules its own condition refers to.
// DepSpans, when populated, holds one Span per entry of Deps, the position
// of that particular reference in source.
type Node struct {
	Name      string
	DeclOrder int
	Deps      []string
	DepSpans  []Span
}

// Terminal is one declared terminal: the rule it names, its priority, and
// the order terminals were declared in (used only to break ties between
// terminals that share a priority).
type Terminal struct {
	RuleName  string
	Priority  int
	DeclOrder int
}

// CycleError reports a dependency cycle as the ordered path of rule names
// that form it, with the starting rule repeated at both ends.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string { return "cyclic dependency" }

// FindCycle walks the dependency graph described by nodes and returns the
// first cycle it finds, or nil if the graph is acyclic. Unlike Schedule,
// this does not require valid terminals and considers every declared node,
// including ones that would later be pruned as unreachable - a cycle among
// dead rules is still a compile error.
//
// The returned spans align with the cycle edges: spans[i] is the position
// of the reference from path[i] to path[i+1]. It is shorter than path by
// one entry, and any edge whose Node never recorded a DepSpans entry
// contributes a zero Span.
func FindCycle(nodes []Node) (path []string, spans []Span) {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}

	spanOf := func(from, to string) Span {
		deps := byName[from].Deps
		for i, d := range deps {
			if d == to {
				if i < len(byName[from].DepSpans) {
					return byName[from].DepSpans[i]
				}
				return Span{}
			}
		}
		return Span{}
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(nodes))
	var stack []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		state[name] = inStack
		stack = append(stack, name)
		for _, dep := range byName[name].Deps {
			switch state[dep] {
			case inStack:
				// Found the cycle: the path from dep's first
				// occurrence in stack, back around to dep again.
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
						break
					}
				}
				cycle := append([]string{}, stack[start:]...)
				cycle = append(cycle, dep)
				return cycle
			case unvisited:
				if c := dfs(dep); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	// Iterate in a stable order so error messages are deterministic.
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		if state[name] == unvisited {
			if c := dfs(name); c != nil {
				edgeSpans := make([]Span, 0, len(c)-1)
				for i := 0; i < len(c)-1; i++ {
					edgeSpans = append(edgeSpans, spanOf(c[i], c[i+1]))
				}
				return c, edgeSpans
			}
		}
	}
	return nil, nil
}

// Reachable returns the set of rule names reachable from the given
// terminal rule names, following dependency edges forward (a terminal
// depends on X which depends on Y: all three are reachable). It also
// returns, for every reachable rule, the lowest priority among the
// terminals that depend on it (a terminal depends on itself, trivially).
func Reachable(nodes []Node, terminalNames []string, priorityOf map[string]int) (reachable map[string]bool, minPriority map[string]int) {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}

	reachable = make(map[string]bool)
	minPriority = make(map[string]int)

	var visit func(name string, priority int)
	visit = func(name string, priority int) {
		if p, ok := minPriority[name]; ok && p <= priority {
			return
		}
		reachable[name] = true
		minPriority[name] = priority
		for _, dep := range byName[name].Deps {
			visit(dep, priority)
		}
	}

	for _, t := range terminalNames {
		visit(t, priorityOf[t])
	}
	return reachable, minPriority
}

// Schedule computes the final evaluation order for the reachable subgraph:
// dependencies always appear before their dependents (Kahn's algorithm),
// and among rules whose dependencies are all already scheduled, the one
// with the lowest (minPriority, DeclOrder) key goes next. minPriority maps
// a rule name to the lowest terminal priority that depends on it, as
// returned by Reachable; a rule absent from minPriority is not scheduled.
//
// Schedule assumes the graph is acyclic and reachable is self-consistent
// (every dependency of a reachable rule is itself reachable) - both
// guaranteed by calling FindCycle and Reachable first.
func Schedule(nodes []Node, reachable map[string]bool, minPriority map[string]int) []string {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}

	inDegree := make(map[string]int)
	dependents := make(map[string][]string)
	for name := range reachable {
		inDegree[name] = 0
	}
	for name := range reachable {
		for _, dep := range byName[name].Deps {
			if !reachable[dep] {
				continue
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	ready := make([]string, 0, len(reachable))
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(reachable))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			ri, rj := ready[i], ready[j]
			pi, pj := minPriority[ri], minPriority[rj]
			if pi != pj {
				return pi < pj
			}
			return byName[ri].DeclOrder < byName[rj].DeclOrder
		})
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}
	return order
}
