package ooroo

import (
	"sync"
	"testing"
)

// TestConcurrentEvaluation exercises a single compiled RuleSet from many
// goroutines at once with no synchronization of their own, the way the
// reference implementation's multithreaded example shares one compiled
// plan across a worker pool: RuleSet holds no mutable state after
// Builder.Compile returns, so concurrent Evaluate/EvaluateIndexed calls
// never race.
func TestConcurrentEvaluation(t *testing.T) {
	rs, err := NewBuilder().
		Rule("is_adult", Field("user.age").Ge(IntValue(18))).
		Rule("is_banned", Field("user.banned").Eq(BoolValue(true))).
		Rule("eligible", RuleRefExpr("is_adult").And(Not(RuleRefExpr("is_banned")))).
		Terminal("is_banned", 0).
		Terminal("eligible", 1).
		Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 32
	const iterationsPerWorker = 200

	var wg sync.WaitGroup
	errs := make(chan string, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterationsPerWorker; i++ {
				age := int64(16 + (id+i)%10)
				banned := (id+i)%7 == 0

				ctx := NewContext().
					Set("user.age", IntValue(age)).
					Set("user.banned", BoolValue(banned))

				v, ok := rs.Evaluate(ctx)
				switch {
				case banned && !(ok && v.Terminal == "is_banned"):
					errs <- "expected is_banned verdict"
				case !banned && age >= 18 && !(ok && v.Terminal == "eligible"):
					errs <- "expected eligible verdict"
				case !banned && age < 18 && ok:
					errs <- "expected no verdict for underage non-banned user"
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("%s", e)
	}
}

// TestConcurrentIndexedEvaluation exercises EvaluateIndexed the same way,
// with each goroutine building its own IndexedContext from the shared
// RuleSet's ContextBuilder.
func TestConcurrentIndexedEvaluation(t *testing.T) {
	rs := multiRuleAPI(t)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := rs.ContextBuilder().
				Set("user.age", IntValue(25)).
				Set("user.email_verified", BoolValue(true)).
				Set("user.banned", BoolValue(false)).
				Build()
			_, ok := rs.EvaluateIndexed(idx)
			results <- ok
		}()
	}

	wg.Wait()
	close(results)
	for ok := range results {
		if !ok {
			t.Errorf("expected a match for every goroutine's independent snapshot")
		}
	}
}
