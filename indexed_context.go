package ooroo

// IndexedContext holds one evaluation's field values pre-resolved to slot
// indices, avoiding a string lookup per field access during Evaluate. Build
// one with RuleSet.ContextBuilder, which already knows which field paths
// this particular rule set's rules reference.
type IndexedContext struct {
	values  []Value
	present []bool
}

// Get returns the value stored at slot, and whether one was ever set.
func (c *IndexedContext) Get(slot int) (Value, bool) {
	if slot < 0 || slot >= len(c.present) || !c.present[slot] {
		return Value{}, false
	}
	return c.values[slot], true
}

// ContextBuilder builds an IndexedContext against a fixed field registry.
// Setting a path the registry never interned is silently ignored: a rule
// set that does not reference "y" has no slot for it, so there is nothing
// unsafe about supplying it anyway - this matches the reference
// implementation's ContextBuilder, which does the same for exactly the
// same reason (ergonomics when the caller reuses one data-gathering step
// across several differently-shaped rule sets).
type ContextBuilder struct {
	pathIndex map[string]int
	values    []Value
	present   []bool
}

func newContextBuilder(pathIndex map[string]int, slotCount int) *ContextBuilder {
	return &ContextBuilder{
		pathIndex: pathIndex,
		values:    make([]Value, slotCount),
		present:   make([]bool, slotCount),
	}
}

// Set assigns path to v, returning b for chaining. A path unknown to the
// underlying rule set is a no-op.
func (b *ContextBuilder) Set(path string, v Value) *ContextBuilder {
	if slot, ok := b.pathIndex[path]; ok {
		b.values[slot] = v
		b.present[slot] = true
	}
	return b
}

// Build finalizes the IndexedContext. The builder remains usable
// afterward; each Build call returns an independent snapshot.
func (b *ContextBuilder) Build() *IndexedContext {
	values := make([]Value, len(b.values))
	present := make([]bool, len(b.present))
	copy(values, b.values)
	copy(present, b.present)
	return &IndexedContext{values: values, present: present}
}
