package parser

import (
	"testing"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declarationTerms(t *testing.T, value string) []ast.Node {
	t.Helper()
	rule := firstRule(t, parse(t, ".a { b: "+value+"; }"))
	return valueTerms(t, rule.Value)
}

func TestExpression_Operations(t *testing.T) {
	t.Run("precedence", func(t *testing.T) {
		terms := declarationTerms(t, "1 + 2 * 3")
		require.Len(t, terms, 1)

		sum := terms[0].(*ast.Operation)
		assert.Equal(t, "+", sum.Op)
		assert.True(t, sum.IsSpaced)
		assert.Equal(t, 1.0, sum.Operands[0].(*ast.Dimension).Value)

		product := sum.Operands[1].(*ast.Operation)
		assert.Equal(t, "*", product.Op)
		assert.Equal(t, 2.0, product.Operands[0].(*ast.Dimension).Value)
		assert.Equal(t, 3.0, product.Operands[1].(*ast.Dimension).Value)
	})

	t.Run("parentheses", func(t *testing.T) {
		terms := declarationTerms(t, "(1 + 2) * 3")
		require.Len(t, terms, 1)

		product := terms[0].(*ast.Operation)
		assert.Equal(t, "*", product.Op)
		sub := product.Operands[0].(*ast.Expression)
		assert.True(t, sub.Parens)
		require.Len(t, sub.Values, 1)
		assert.Equal(t, "+", sub.Values[0].(*ast.Operation).Op)
	})

	t.Run("left associative", func(t *testing.T) {
		terms := declarationTerms(t, "10 - 2 - 3")
		outer := terms[0].(*ast.Operation)
		assert.Equal(t, "-", outer.Op)
		assert.Equal(t, 3.0, outer.Operands[1].(*ast.Dimension).Value)
		inner := outer.Operands[0].(*ast.Operation)
		assert.Equal(t, 10.0, inner.Operands[0].(*ast.Dimension).Value)
	})

	t.Run("unspaced minus", func(t *testing.T) {
		terms := declarationTerms(t, "1-2")
		require.Len(t, terms, 1)
		op := terms[0].(*ast.Operation)
		assert.Equal(t, "-", op.Op)
		assert.False(t, op.IsSpaced)
	})

	t.Run("spaced then signed is two terms", func(t *testing.T) {
		terms := declarationTerms(t, "1 -2")
		require.Len(t, terms, 2)
		assert.Equal(t, 1.0, terms[0].(*ast.Dimension).Value)
		assert.Equal(t, -2.0, terms[1].(*ast.Dimension).Value)
	})

	t.Run("division", func(t *testing.T) {
		terms := declarationTerms(t, "12px/1.5 serif")
		require.Len(t, terms, 2)
		op := terms[0].(*ast.Operation)
		assert.Equal(t, "/", op.Op)
		assert.Equal(t, "px", op.Operands[0].(*ast.Dimension).Unit)
		assert.Equal(t, "serif", terms[1].(*ast.Keyword).Value)
	})

	t.Run("variables", func(t *testing.T) {
		terms := declarationTerms(t, "@a * @b")
		op := terms[0].(*ast.Operation)
		assert.Equal(t, "@a", op.Operands[0].(*ast.Variable).Name)
		assert.Equal(t, "@b", op.Operands[1].(*ast.Variable).Name)
	})
}

func TestExpression_Negative(t *testing.T) {
	terms := declarationTerms(t, "-@x")
	require.Len(t, terms, 1)
	neg := terms[0].(*ast.Negative)
	assert.Equal(t, "@x", neg.Value.(*ast.Variable).Name)

	terms = declarationTerms(t, "-(1 + 2)")
	require.Len(t, terms, 1)
	neg = terms[0].(*ast.Negative)
	assert.True(t, neg.Value.(*ast.Expression).Parens)
}

func TestExpression_SlashSeparator(t *testing.T) {
	terms := declarationTerms(t, "a / b")
	require.Len(t, terms, 3)
	assert.Equal(t, "a", terms[0].(*ast.Keyword).Value)
	assert.Equal(t, "/", terms[1].(*ast.Anonymous).Value)
	assert.Equal(t, "b", terms[2].(*ast.Keyword).Value)
}

func TestExpression_SpaceSeparated(t *testing.T) {
	terms := declarationTerms(t, "1px solid #000")
	require.Len(t, terms, 3)
	assert.IsType(t, &ast.Dimension{}, terms[0])
	assert.IsType(t, &ast.Keyword{}, terms[1])
	assert.IsType(t, &ast.Color{}, terms[2])
}

func TestConditions(t *testing.T) {
	guard := func(t *testing.T, input string) *ast.Condition {
		t.Helper()
		root := parse(t, input)
		require.Len(t, root.Rules, 1)
		def := root.Rules[0].(*ast.MixinDefinition)
		require.NotNil(t, def.Condition)
		return def.Condition.(*ast.Condition)
	}

	t.Run("comparison", func(t *testing.T) {
		c := guard(t, ".m(@a) when (@a > 0) { }")
		assert.Equal(t, ">", c.Op)
		assert.Equal(t, "@a", c.LValue.(*ast.Variable).Name)
		assert.Equal(t, 0.0, c.RValue.(*ast.Dimension).Value)
		assert.False(t, c.Negate)
	})

	t.Run("operators", func(t *testing.T) {
		for _, op := range []string{">=", "=<", "<", "=", ">"} {
			c := guard(t, ".m(@a) when (@a "+op+" 1) { }")
			assert.Equal(t, op, c.Op)
		}
	})

	t.Run("truthy", func(t *testing.T) {
		c := guard(t, ".m(@a) when not (@a) { }")
		assert.Equal(t, "=", c.Op)
		assert.True(t, c.Negate)
		assert.Equal(t, "true", c.RValue.(*ast.Keyword).Value)
	})

	t.Run("or", func(t *testing.T) {
		c := guard(t, ".m(@a; @b) when (@a), (@b) { }")
		assert.Equal(t, "or", c.Op)
		assert.Equal(t, "@b", c.RValue.(*ast.Condition).LValue.(*ast.Variable).Name)
	})

	t.Run("and", func(t *testing.T) {
		c := guard(t, ".m(@a; @b) when (@a) and (@b = dark) { }")
		assert.Equal(t, "and", c.Op)
		right := c.RValue.(*ast.Condition)
		assert.Equal(t, "=", right.Op)
		assert.Equal(t, "dark", right.RValue.(*ast.Keyword).Value)
	})

	t.Run("function", func(t *testing.T) {
		c := guard(t, ".m(@c) when (iscolor(@c)) { }")
		assert.Equal(t, "iscolor", c.LValue.(*ast.Call).Name)
	})

	t.Run("quoted", func(t *testing.T) {
		c := guard(t, `.m(@s) when (@s = "x") { }`)
		assert.Equal(t, "x", c.RValue.(*ast.Quoted).Value)
	})
}
