package diff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx-org/exprgraph/algebra"
	"github.com/gx-org/exprgraph/diff"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

func evalAt(t *testing.T, e *expr.Expr, x *expr.Expr, at float64) float64 {
	t.Helper()
	got, err := algebra.EvalF64(e, map[*expr.Expr]float64{x: at})
	require.NoError(t, err, "evaluating %s", e)
	return got
}

func TestForwardSinTimesX(t *testing.T) {
	x := expr.Sym("x")
	e := expr.Mul.Call(expr.Sin.Call(x), x)
	d, err := diff.StandardRules().Forward(e, x)
	require.NoError(t, err)
	want := math.Cos(0.3)*0.3 + math.Sin(0.3)
	assert.InDelta(t, want, evalAt(t, d, x, 0.3), 1e-12)
}

func TestSecondDerivativeOfSin(t *testing.T) {
	x := expr.Sym("x")
	for _, mode := range []diff.Mode{diff.ModeForward, diff.ModeReverse} {
		d, err := diff.StandardRules().Diff(expr.Sin.Call(x), x, 2, mode)
		require.NoError(t, err, mode)
		assert.InDelta(t, -math.Sin(1.0), evalAt(t, d, x, 1.0), 1e-12, "mode %s", mode)
	}
}

func TestExactAtomResults(t *testing.T) {
	rules := diff.StandardRules()
	x := expr.Sym("x")

	// d(x)/dx is exactly the unit atom, with no wrapper nodes.
	d, err := rules.Forward(x, x)
	require.NoError(t, err)
	assert.Same(t, expr.One, d)

	d, err = rules.Reverse(x, x)
	require.NoError(t, err)
	assert.Same(t, expr.One, d)

	// d(5)/dx is exactly the zero atom.
	d, err = rules.Forward(expr.Int(5), x)
	require.NoError(t, err)
	assert.Same(t, expr.Zero, d)

	// A whole subtree without x still differentiates to the zero atom.
	d, err = rules.Forward(expr.Mul.Call(expr.Sin.Call(expr.Sym("y")), expr.Int(3)), x)
	require.NoError(t, err)
	assert.Same(t, expr.Zero, d)
}

func TestReverseUnusedVariable(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	d, err := diff.StandardRules().Reverse(expr.Sin.Call(y), x)
	require.NoError(t, err)
	assert.Same(t, expr.Zero, d)
}

func TestVariableExponentFails(t *testing.T) {
	x := expr.Sym("x")
	rules := diff.StandardRules()
	powXX := expr.Pow.Call(x, x)

	_, err := rules.Forward(powXX, x)
	assert.True(t, exprerr.IsMalformedDerivative(err), "forward: %v", err)

	_, err = rules.Reverse(powXX, x)
	assert.True(t, exprerr.IsMalformedDerivative(err), "reverse: %v", err)

	// A constant base does not make a variable exponent acceptable.
	_, err = rules.Forward(expr.Pow.Call(expr.Int(2), x), x)
	assert.True(t, exprerr.IsMalformedDerivative(err), "constant base: %v", err)
}

func TestConstantExponentPower(t *testing.T) {
	x := expr.Sym("x")
	e := expr.Pow.Call(x, expr.Int(3))
	for _, mode := range []diff.Mode{diff.ModeForward, diff.ModeReverse} {
		d, err := diff.StandardRules().Diff(e, x, 1, mode)
		require.NoError(t, err, mode)
		assert.InDelta(t, 3*1.7*1.7, evalAt(t, d, x, 1.7), 1e-9, "mode %s", mode)
	}
}

func TestMissingRule(t *testing.T) {
	x := expr.Sym("x")
	tan := expr.Func("tan")
	rules := diff.StandardRules()

	_, err := rules.Forward(tan.Call(x), x)
	assert.True(t, exprerr.IsUnsupported(err), "forward: %v", err)

	_, err = rules.Reverse(tan.Call(x), x)
	assert.True(t, exprerr.IsUnsupported(err), "reverse: %v", err)

	// A constant argument needs no rule: the derivative is zero.
	d, err := rules.Forward(tan.Call(expr.Int(2)), x)
	require.NoError(t, err)
	assert.Same(t, expr.Zero, d)
	d, err = rules.Reverse(expr.Add.Call(x, tan.Call(expr.Int(2))), x)
	require.NoError(t, err)
	assert.Same(t, expr.One, d)
}

func TestRegisterCustomRule(t *testing.T) {
	x := expr.Sym("x")
	tan := expr.Func("tan")
	rules := diff.StandardRules().Register(tan, 0, func(args []*expr.Expr) (*expr.Expr, error) {
		// d(tan(u)) = 1 + tan(u)^2.
		return expr.Add.Call(expr.One, expr.Pow.Call(tan.Call(args[0]), expr.Int(2))), nil
	})
	d, err := rules.Forward(tan.Call(x), x)
	require.NoError(t, err)
	want := 1 + math.Tan(0.4)*math.Tan(0.4)
	assert.InDelta(t, want, evalAt(t, d, x, 0.4), 1e-12)
}

func TestDiffZeroTimes(t *testing.T) {
	x := expr.Sym("x")
	e := expr.Sin.Call(x)
	d, err := diff.StandardRules().Diff(e, x, 0, diff.ModeForward)
	require.NoError(t, err)
	assert.Same(t, e, d)
}

func TestSharedSubexpression(t *testing.T) {
	// d(sin(x)*sin(x)) = 2*sin(x)*cos(x); the shared node is walked once.
	x := expr.Sym("x")
	sinx := expr.Sin.Call(x)
	e := expr.Mul.Call(sinx, sinx)
	for _, mode := range []diff.Mode{diff.ModeForward, diff.ModeReverse} {
		d, err := diff.StandardRules().Diff(e, x, 1, mode)
		require.NoError(t, err, mode)
		want := 2 * math.Sin(0.9) * math.Cos(0.9)
		assert.InDelta(t, want, evalAt(t, d, x, 0.9), 1e-12, "mode %s", mode)
	}
}

// randExpr builds a random expression over {+, *, ^, sin, cos} with
// x as the only free variable and constant integer exponents.
func randExpr(rng *rand.Rand, x *expr.Expr, depth int) *expr.Expr {
	if depth == 0 {
		if rng.Intn(3) == 0 {
			return expr.Int(int64(rng.Intn(4) + 1))
		}
		return x
	}
	switch rng.Intn(5) {
	case 0:
		n := rng.Intn(2) + 2
		args := make([]*expr.Expr, n)
		for i := range args {
			args[i] = randExpr(rng, x, depth-1)
		}
		return expr.Add.Call(args...)
	case 1:
		n := rng.Intn(2) + 2
		args := make([]*expr.Expr, n)
		for i := range args {
			args[i] = randExpr(rng, x, depth-1)
		}
		return expr.Mul.Call(args...)
	case 2:
		return expr.Pow.Call(randExpr(rng, x, depth-1), expr.Int(int64(rng.Intn(3)+1)))
	case 3:
		return expr.Sin.Call(randExpr(rng, x, depth-1))
	}
	return expr.Cos.Call(randExpr(rng, x, depth-1))
}

func TestForwardReverseAgreement(t *testing.T) {
	rules := diff.StandardRules()
	x := expr.Sym("x")
	rng := rand.New(rand.NewSource(7))
	const relTol = 1e-9

	for i := range 200 {
		e := randExpr(rng, x, rng.Intn(4)+1)
		fwd, err := rules.Forward(e, x)
		require.NoError(t, err, "case %d: %s", i, e)
		rev, err := rules.Reverse(e, x)
		require.NoError(t, err, "case %d: %s", i, e)

		at := 0.3 + rng.Float64()
		fwdVal := evalAt(t, fwd, x, at)
		revVal := evalAt(t, rev, x, at)
		scale := math.Max(math.Max(math.Abs(fwdVal), math.Abs(revVal)), 1)
		assert.LessOrEqual(t, math.Abs(fwdVal-revVal)/scale, relTol,
			"case %d at x=%v: forward %v != reverse %v for %s", i, at, fwdVal, revVal, e)
	}
}
