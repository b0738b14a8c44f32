package bodystore

import "testing"

func TestNewMismatchedLengths(t *testing.T) {
	_, err := New([]string{"a", "b"}, []float64{1}, []Vec2{{}}, []Vec2{{}})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestNewDuplicateIDs(t *testing.T) {
	_, err := New(
		[]string{"a", "a"},
		[]float64{1, 1},
		[]Vec2{{}, {}},
		[]Vec2{{}, {}},
	)
	if err == nil {
		t.Fatal("expected error for duplicate ids")
	}
}

func TestAccessors(t *testing.T) {
	s, err := New(
		[]string{"a", "b"},
		[]float64{1, 2},
		[]Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}},
		[]Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.ID(0) != "a" || s.ID(1) != "b" {
		t.Fatalf("unexpected ids")
	}

	s.SetPos(0, Vec2{X: 10, Y: 20})
	if got := s.Pos(0); got != (Vec2{X: 10, Y: 20}) {
		t.Fatalf("SetPos/Pos mismatch: %+v", got)
	}

	s.AddVel(1, Vec2{X: 1, Y: 1})
	if got := s.Vel(1); got != (Vec2{X: 2, Y: 2}) {
		t.Fatalf("AddVel mismatch: %+v", got)
	}
}

func TestBounds(t *testing.T) {
	s, _ := New(
		[]string{"a", "b", "c"},
		[]float64{1, 1, 1},
		[]Vec2{{X: -5, Y: 2}, {X: 3, Y: -4}, {X: 0, Y: 0}},
		[]Vec2{{}, {}, {}},
	)
	ox, oy, sx, sy := s.Bounds()
	if ox != -5 || oy != -4 || sx != 8 || sy != 6 {
		t.Fatalf("Bounds() = (%v,%v,%v,%v), want (-5,-4,8,6)", ox, oy, sx, sy)
	}
}

func TestTotalMomentum(t *testing.T) {
	s, _ := New(
		[]string{"a", "b"},
		[]float64{2, 3},
		[]Vec2{{}, {}},
		[]Vec2{{X: 1, Y: 0}, {X: 0, Y: 1}},
	)
	p := s.TotalMomentum()
	if p.X != 2 || p.Y != 3 {
		t.Fatalf("TotalMomentum() = %+v, want {2 3}", p)
	}
}

func TestClone(t *testing.T) {
	s, _ := New([]string{"a"}, []float64{1}, []Vec2{{X: 1, Y: 1}}, []Vec2{{X: 1, Y: 1}})
	c := s.Clone()
	c.SetPos(0, Vec2{X: 99, Y: 99})
	if s.Pos(0) == c.Pos(0) {
		t.Fatal("Clone should be independent of the original")
	}
}

func TestValidateFinite(t *testing.T) {
	s, _ := New([]string{"a"}, []float64{-1}, []Vec2{{X: 0, Y: 0}}, []Vec2{{X: 0, Y: 0}})
	if s.ValidateFinite() {
		t.Fatal("expected ValidateFinite to fail on negative mass")
	}
}
