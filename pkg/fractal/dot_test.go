package fractal

import (
	"strings"
	"testing"
)

func TestClosureReferencePattern(t *testing.T) {
	// FlipH, Rotate90 and Rotate270 generate the full dihedral group of the
	// square grid: 8 elements.
	gens := Reference().Symmetries()
	elements := Closure(gens[:])

	if len(elements) != 8 {
		t.Fatalf("closure size = %d, want 8", len(elements))
	}
	if elements[0] != Identity() {
		t.Errorf("closure does not start with identity: %v", elements[0])
	}

	seen := map[Symmetry]bool{}
	for _, s := range elements {
		if seen[s] {
			t.Errorf("duplicate element %v", s)
		}
		seen[s] = true
		if !s.IsBijection() {
			t.Errorf("non-bijective element %v", s)
		}
	}
}

func TestClosureIdentityOnly(t *testing.T) {
	elements := Closure([]Symmetry{Identity()})
	if len(elements) != 1 || elements[0] != Identity() {
		t.Fatalf("Closure([identity]) = %v, want [identity]", elements)
	}
}

func TestClosureSkipsNonBijections(t *testing.T) {
	broken := Symmetry{Mapping: [4]Cell{{0, 0}, {0, 0}, {1, 0}, {1, 1}}}
	elements := Closure([]Symmetry{broken, Rotate90()})

	// Only the rotation contributes: the cyclic group of order 4.
	if len(elements) != 4 {
		t.Fatalf("closure size = %d, want 4", len(elements))
	}
}

func TestCayleyDOT(t *testing.T) {
	dot := CayleyDOT(Reference())

	if !strings.HasPrefix(dot, "digraph Cayley {") {
		t.Fatalf("missing digraph header:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("missing closing brace")
	}
	// 8 closure elements, one node each.
	for i := 0; i < 8; i++ {
		if !strings.Contains(dot, "n"+string(rune('0'+i))+" [label=") {
			t.Errorf("missing node n%d", i)
		}
	}
	// Reference pattern has three distinct generators: flipH, rotate270,
	// rotate90 (identity is a generator too but contributes self-loops).
	for _, label := range []string{"identity", "flipH", "rotate90", "rotate270"} {
		if !strings.Contains(dot, `label="`+label+`"`) {
			t.Errorf("missing generator label %q", label)
		}
	}
}

func TestCayleyDOTDedupesGenerators(t *testing.T) {
	p := Pattern{}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			p[r][c] = Pixel{Color: Color{A: 1}, Sym: Identity()}
		}
	}
	dot := CayleyDOT(p)

	// Four identical generators collapse to one: a single self-loop edge.
	if got := strings.Count(dot, "->"); got != 1 {
		t.Errorf("edge count = %d, want 1:\n%s", got, dot)
	}
}
