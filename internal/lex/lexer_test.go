package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLex_ruleWithComparison(t *testing.T) {
	toks, err := Lex(`rule r1: user.age >= 18`)
	require.NoError(t, err)
	assert.Equal(t, []Kind{Rule, Ident, Colon, Ident, Ge, Int, EOF}, kinds(toks))
}

func TestLex_dottedFieldPathIsOneIdent(t *testing.T) {
	toks, err := Lex(`user.profile.age`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "user.profile.age", toks[0].Text)
}

func TestLex_compareOpLongestMatchFirst(t *testing.T) {
	toks, err := Lex(`a >= b > c <= d < e == f != g`)
	require.NoError(t, err)
	assert.Equal(t, []Kind{Ident, Ge, Ident, Gt, Ident, Le, Ident, Lt, Ident, Eq, Ident, Ne, Ident, EOF}, kinds(toks))
}

func TestLex_commentsAreIgnored(t *testing.T) {
	toks, err := Lex("rule r1: x == 1 # trailing comment\n")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Rule, Ident, Colon, Ident, Eq, Int, EOF}, kinds(toks))
}

func TestLex_stringEscapes(t *testing.T) {
	toks, err := Lex(`"hello \"world\"\nline\ttab \q"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "hello \"world\"\nline\ttab \\q", toks[0].Text)
}

func TestLex_negativeNumberIsSingleToken(t *testing.T) {
	toks, err := Lex(`x == -42`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Int, toks[2].Kind)
	assert.Equal(t, "-42", toks[2].Text)
}

func TestLex_floatLiteral(t *testing.T) {
	toks, err := Lex(`x == -3.5`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Float, toks[2].Kind)
	assert.Equal(t, "-3.5", toks[2].Text)
}

func TestLex_priorityAnnotation(t *testing.T) {
	toks, err := Lex(`rule r1 (priority 5): x`)
	require.NoError(t, err)
	assert.Equal(t, []Kind{Rule, Ident, LParen, Priority, Int, RParen, Colon, Ident, EOF}, kinds(toks))
}

func TestLex_unterminatedStringIsAnError(t *testing.T) {
	_, err := Lex(`"unterminated`)
	assert.Error(t, err)
}

func TestLex_unexpectedCharacterIsAnError(t *testing.T) {
	_, err := Lex(`x == @`)
	assert.Error(t, err)
}
