package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_singleFieldRule(t *testing.T) {
	f, err := Parse(`rule is_adult: age >= 18`)
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	r := f.Rules[0]
	assert.Equal(t, "is_adult", r.Name)
	require.NotNil(t, r.Expr)
	assert.Equal(t, ECmp, r.Expr.Kind)
	assert.Equal(t, OpGe, r.Expr.Op)
	assert.Equal(t, "age", r.Expr.Left.Ident)
	assert.Equal(t, int64(18), r.Expr.Right.I)
}

func TestParse_terminalRule(t *testing.T) {
	f, err := Parse(`rule approve (priority 1): is_adult`)
	require.NoError(t, err)
	r := f.Rules[0]
	assert.True(t, r.IsTerminal)
	assert.Equal(t, 1, r.Priority)
	assert.Equal(t, EIdent, r.Expr.Kind)
	assert.Equal(t, "is_adult", r.Expr.Ident)
}

func TestParse_andBindsTighterThanOr(t *testing.T) {
	f, err := Parse(`rule r: a OR b AND c`)
	require.NoError(t, err)
	e := f.Rules[0].Expr
	require.Equal(t, EOr, e.Kind)
	assert.Equal(t, EIdent, e.Left.Kind)
	assert.Equal(t, EAnd, e.Right.Kind)
}

func TestParse_parenthesesOverridePrecedence(t *testing.T) {
	f, err := Parse(`rule r: (a OR b) AND c`)
	require.NoError(t, err)
	e := f.Rules[0].Expr
	require.Equal(t, EAnd, e.Kind)
	assert.Equal(t, EOr, e.Left.Kind)
}

func TestParse_notExpression(t *testing.T) {
	f, err := Parse(`rule r: NOT a`)
	require.NoError(t, err)
	e := f.Rules[0].Expr
	require.Equal(t, ENot, e.Kind)
	assert.Equal(t, "a", e.Left.Ident)
}

func TestParse_lowercaseKeywords(t *testing.T) {
	f, err := Parse(`rule r: not a and b or c`)
	require.NoError(t, err)
	assert.NotNil(t, f.Rules[0].Expr)
}

func TestParse_allComparisonOps(t *testing.T) {
	for _, tc := range []struct {
		src string
		op  CompareOp
	}{
		{"rule r: a == 1", OpEq},
		{"rule r: a != 1", OpNe},
		{"rule r: a < 1", OpLt},
		{"rule r: a <= 1", OpLe},
		{"rule r: a > 1", OpGt},
		{"rule r: a >= 1", OpGe},
	} {
		f, err := Parse(tc.src)
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.op, f.Rules[0].Expr.Op, tc.src)
	}
}

func TestParse_stringLiteralValue(t *testing.T) {
	f, err := Parse(`rule r: status == "active"`)
	require.NoError(t, err)
	assert.Equal(t, "active", f.Rules[0].Expr.Right.S)
}

func TestParse_booleanLiteralValue(t *testing.T) {
	f, err := Parse(`rule r: enabled == true`)
	require.NoError(t, err)
	assert.Equal(t, true, f.Rules[0].Expr.Right.B)
}

func TestParse_negativeAndFloatLiterals(t *testing.T) {
	f, err := Parse(`rule r: balance >= -3.5`)
	require.NoError(t, err)
	rhs := f.Rules[0].Expr.Right
	assert.Equal(t, LitFloat, rhs.LitKind)
	assert.InDelta(t, -3.5, rhs.F, 0.0001)
}

func TestParse_commentsIgnored(t *testing.T) {
	f, err := Parse("# a comment\nrule r: a == 1 # trailing\n")
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
}

func TestParse_multipleRules(t *testing.T) {
	f, err := Parse(`
rule is_adult: age >= 18
rule has_license: has_license == true
rule approve (priority 1): is_adult AND has_license
`)
	require.NoError(t, err)
	require.Len(t, f.Rules, 3)
	assert.Equal(t, "is_adult", f.Rules[0].Name)
	assert.Equal(t, "approve", f.Rules[2].Name)
	assert.True(t, f.Rules[2].IsTerminal)
}

func TestParse_ruleWithoutConditionHasNilExpr(t *testing.T) {
	f, err := Parse("rule r:\nrule r2: a == 1")
	require.NoError(t, err)
	assert.Nil(t, f.Rules[0].Expr)
	assert.NotNil(t, f.Rules[1].Expr)
}

func TestParse_complexExpression(t *testing.T) {
	f, err := Parse(`rule r: (a == 1 OR b == 2) AND NOT c AND d >= 3`)
	require.NoError(t, err)
	require.NotNil(t, f.Rules[0].Expr)
}

func TestParse_undefinedOperatorIsAnError(t *testing.T) {
	_, err := Parse(`rule r: a ~~ 1`)
	assert.Error(t, err)
}

func TestParse_missingColonIsAnError(t *testing.T) {
	_, err := Parse(`rule r a == 1`)
	assert.Error(t, err)
}
