package expr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gx-org/exprgraph/expr"
)

func names(nodes []*expr.Expr) []string {
	ss := make([]string, len(nodes))
	for i, n := range nodes {
		ss[i] = n.String()
	}
	return ss
}

func TestLinearizeOrder(t *testing.T) {
	f := expr.Func("f")
	x, y := expr.Sym("x"), expr.Sym("y")
	// f(f(x, y), f(f(x))): shared head f appears once, before everything
	// that uses it.
	e := f.Call(f.Call(x, y), f.Call(f.Call(x)))
	got := names(expr.Linearize(e))
	want := []string{"f", "x", "y", "f(x, y)", "f(x)", "f(f(x))", "f(f(x, y), f(f(x)))"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected linearization order:\n%s", diff)
	}
}

func TestLinearizeTopological(t *testing.T) {
	x := expr.Sym("x")
	sinx := expr.Sin.Call(x)
	e := expr.Add.Call(expr.Mul.Call(sinx, x), expr.Pow.Call(sinx, expr.Int(2)))
	nodes := expr.Linearize(e)

	index := make(map[*expr.Expr]int, len(nodes))
	for i, n := range nodes {
		if prev, in := index[n]; in {
			t.Fatalf("node %s occurs at both %d and %d", n, prev, i)
		}
		index[n] = i
	}
	for i, n := range nodes {
		for _, c := range n.Children() {
			ci, in := index[c]
			if !in {
				t.Fatalf("child %s of %s missing from the linearization", c, n)
			}
			if ci >= i {
				t.Errorf("child %s at %d does not precede parent %s at %d", c, ci, n, i)
			}
		}
	}
	if nodes[len(nodes)-1] != e {
		t.Errorf("root is not last: got %s", nodes[len(nodes)-1])
	}
}

func TestLinearizeDeterministic(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	e := expr.Add.Call(expr.Mul.Call(x, y), expr.Sin.Call(expr.Mul.Call(x, y)))
	first := names(expr.Linearize(e))
	for range 10 {
		if diff := cmp.Diff(first, names(expr.Linearize(e))); diff != "" {
			t.Fatalf("two linearizations of the same DAG differ:\n%s", diff)
		}
	}
}

func TestLinearizeSharing(t *testing.T) {
	x := expr.Sym("x")
	sinx := expr.Sin.Call(x)
	e := expr.Mul.Call(sinx, sinx)
	nodes := expr.Linearize(e)
	// Mul, sin, x, sin(x), Mul(sin(x), sin(x)): the shared sin(x) once.
	if len(nodes) != 5 {
		t.Errorf("got %d nodes but want 5: %v", len(nodes), names(nodes))
	}
}

func TestLinearizeDeepExpression(t *testing.T) {
	// Deep nesting must not exhaust the call stack: the traversal uses an
	// explicit work stack.
	e := expr.Sym("x")
	for range 200000 {
		e = expr.Sin.Call(e)
	}
	nodes := expr.Linearize(e)
	// sin, x, and one application per nesting level.
	if len(nodes) != 200002 {
		t.Errorf("got %d nodes but want 200002", len(nodes))
	}
}

func TestLinearizeAtomRoot(t *testing.T) {
	x := expr.Sym("x")
	nodes := expr.Linearize(x)
	if len(nodes) != 1 || nodes[0] != x {
		t.Errorf("Linearize(x) = %v", names(nodes))
	}
}
