package ooroo

import "testing"

func indexedFixture(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewBuilder().
		Rule("adult", Field("user.age").Ge(IntValue(18))).
		Rule("verified", Field("user.email_verified").Eq(BoolValue(true))).
		Terminal("adult", 0).
		Terminal("verified", 1).
		Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rs
}

func TestIndexedContext_buildAndGetBySlot(t *testing.T) {
	rs := indexedFixture(t)
	slot, ok := rs.SlotOf("user.age")
	if !ok {
		t.Fatalf("expected \"user.age\" to be a known slot")
	}

	idx := rs.ContextBuilder().Set("user.age", IntValue(21)).Build()
	v, ok := idx.Get(slot)
	if !ok {
		t.Fatalf("expected slot %d to resolve", slot)
	}
	if v.Int() != 21 {
		t.Errorf("Int() = %d, want 21", v.Int())
	}
}

func TestIndexedContext_unsetSlotIsAbsent(t *testing.T) {
	rs := indexedFixture(t)
	slot, ok := rs.SlotOf("user.email_verified")
	if !ok {
		t.Fatalf("expected \"user.email_verified\" to be a known slot")
	}

	idx := rs.ContextBuilder().Set("user.age", IntValue(21)).Build()
	if _, ok := idx.Get(slot); ok {
		t.Errorf("expected an unset slot to be absent")
	}
}

func TestIndexedContext_getOutOfRangeSlotIsAbsent(t *testing.T) {
	rs := indexedFixture(t)
	idx := rs.ContextBuilder().Build()
	if _, ok := idx.Get(-1); ok {
		t.Errorf("expected slot -1 to be absent")
	}
	if _, ok := idx.Get(9999); ok {
		t.Errorf("expected slot 9999 to be absent")
	}
}

func TestIndexedContext_settingUnknownPathIsSilentlyIgnored(t *testing.T) {
	rs := indexedFixture(t)
	b := rs.ContextBuilder().Set("user.age", IntValue(21)).Set("user.nickname", StringValue("ignored"))

	if _, known := rs.SlotOf("user.nickname"); known {
		t.Errorf("expected \"user.nickname\" to be unknown to the rule set")
	}

	idx := b.Build()
	slot, _ := rs.SlotOf("user.age")
	v, ok := idx.Get(slot)
	if !ok {
		t.Fatalf("expected slot %d to resolve", slot)
	}
	if v.Int() != 21 {
		t.Errorf("Int() = %d, want 21", v.Int())
	}
}

func TestIndexedContext_buildProducesIndependentSnapshots(t *testing.T) {
	rs := indexedFixture(t)
	slot, _ := rs.SlotOf("user.age")
	b := rs.ContextBuilder().Set("user.age", IntValue(21))

	first := b.Build()
	b.Set("user.age", IntValue(99))
	second := b.Build()

	v1, _ := first.Get(slot)
	v2, _ := second.Get(slot)
	if v1.Int() != 21 {
		t.Errorf("first snapshot = %d, want 21", v1.Int())
	}
	if v2.Int() != 99 {
		t.Errorf("second snapshot = %d, want 99", v2.Int())
	}
}

func TestIndexedContext_missingFieldEvaluatesFalseNotPanic(t *testing.T) {
	rs := indexedFixture(t)
	idx := rs.ContextBuilder().Build()

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("EvaluateIndexed panicked: %v", r)
		}
	}()
	if _, ok := rs.EvaluateIndexed(idx); ok {
		t.Errorf("expected no match against an empty indexed context")
	}
}
