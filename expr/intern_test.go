package expr

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestConcurrentInterning(t *testing.T) {
	const goroutines = 16
	const rounds = 200

	var wg sync.WaitGroup
	results := make([][]*Expr, goroutines)
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := make([]*Expr, 0, rounds*2)
			for i := range rounds {
				a := mustAtom(Integer, int64(i+1000))
				res = append(res, a, Add.Call(a, One))
			}
			results[g] = res
		}()
	}
	wg.Wait()

	for g := 1; g < goroutines; g++ {
		for i, node := range results[g] {
			if node != results[0][i] {
				t.Fatalf("goroutine %d interned a distinct node at %d: %p != %p", g, i, node, results[0][i])
			}
		}
	}
}

func TestWeakEntriesReclaimed(t *testing.T) {
	const n = 500
	baseAtoms, _ := internSize()

	// Intern atoms without keeping any reference to them.
	for i := range n {
		mustAtom(Integer, fmt.Sprintf("dead-%d", i))
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		liveAtoms, _ := internSize()
		if liveAtoms < baseAtoms+n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("no interned atom was reclaimed: %d live entries", liveAtoms)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReclaimedKeyCanBeReinterned(t *testing.T) {
	make1 := func() *Expr {
		return mustAtom(Integer, "transient")
	}
	first := make1()
	first = nil
	_ = first
	runtime.GC()
	runtime.GC()

	// Whether or not the first atom was reclaimed, interning the key again
	// must yield a usable canonical atom.
	second := make1()
	if second == nil || second.Value() != "transient" {
		t.Fatalf("reinterning after reclamation failed: %v", second)
	}
	if third := make1(); third != second {
		t.Errorf("reinterned atom is not canonical: %p != %p", third, second)
	}
}
