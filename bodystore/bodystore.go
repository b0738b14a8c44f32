// Package bodystore holds the structure-of-arrays body state shared between
// the simulation engine and the renderer.
package bodystore

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec2 is a 2D double-precision vector, used for position and velocity.
type Vec2 struct {
	X, Y float64
}

// Store is the structure-of-arrays storage of N bodies: parallel ordered
// sequences of id, mass, position, velocity. N is fixed after construction.
type Store struct {
	ids  []string
	mass []float64
	pos  []Vec2
	vel  []Vec2
}

// New builds a Store from four move-in sequences, asserting they are the
// same length. The caller must not retain references to the input slices.
func New(ids []string, mass []float64, pos []Vec2, vel []Vec2) (*Store, error) {
	n := len(ids)
	if len(mass) != n || len(pos) != n || len(vel) != n {
		return nil, fmt.Errorf("bodystore: mismatched lengths: ids=%d mass=%d pos=%d vel=%d",
			n, len(mass), len(pos), len(vel))
	}
	s := &Store{ids: ids, mass: mass, pos: pos, vel: vel}
	if ok, _ := s.ValidateUniqueIDs(); !ok {
		return nil, fmt.Errorf("bodystore: duplicate body id detected")
	}
	return s, nil
}

// Len returns N, the fixed body count.
func (s *Store) Len() int { return len(s.ids) }

// ID returns the immutable string id of body i.
func (s *Store) ID(i int) string { return s.ids[i] }

// Mass returns the mass of body i.
func (s *Store) Mass(i int) float64 { return s.mass[i] }

// SetMass sets the mass of body i.
func (s *Store) SetMass(i int, m float64) { s.mass[i] = m }

// Pos returns the position of body i.
func (s *Store) Pos(i int) Vec2 { return s.pos[i] }

// SetPos sets the position of body i.
func (s *Store) SetPos(i int, p Vec2) { s.pos[i] = p }

// Vel returns the velocity of body i.
func (s *Store) Vel(i int) Vec2 { return s.vel[i] }

// SetVel sets the velocity of body i.
func (s *Store) SetVel(i int, v Vec2) { s.vel[i] = v }

// AddVel adds d to the velocity of body i.
func (s *Store) AddVel(i int, d Vec2) {
	s.vel[i].X += d.X
	s.vel[i].Y += d.Y
}

// AddPos adds d to the position of body i.
func (s *Store) AddPos(i int, d Vec2) {
	s.pos[i].X += d.X
	s.pos[i].Y += d.Y
}

// ValidateUniqueIDs soft-validates that every id is unique, emitting a
// diagnostic for each duplicate found and returning false on any violation.
// Hard failure (fatal exit) is the loader's responsibility, not the store's.
func (s *Store) ValidateUniqueIDs() (bool, []string) {
	seen := make(map[string]int, len(s.ids))
	ok := true
	var dupes []string
	for i, id := range s.ids {
		if first, exists := seen[id]; exists {
			slog.Warn("duplicate body id", "id", id, "first_index", first, "dup_index", i)
			dupes = append(dupes, id)
			ok = false
			continue
		}
		seen[id] = i
	}
	return ok, dupes
}

// ValidateFinite soft-validates that every mass is non-negative and every
// position/velocity component is finite.
func (s *Store) ValidateFinite() bool {
	ok := true
	for i := range s.ids {
		if s.mass[i] < 0 || math.IsNaN(s.mass[i]) || math.IsInf(s.mass[i], 0) {
			slog.Warn("negative or non-finite mass", "id", s.ids[i], "mass", s.mass[i])
			ok = false
		}
		if !finite2(s.pos[i]) {
			slog.Warn("non-finite position", "id", s.ids[i], "pos", s.pos[i])
			ok = false
		}
		if !finite2(s.vel[i]) {
			slog.Warn("non-finite velocity", "id", s.ids[i], "vel", s.vel[i])
			ok = false
		}
	}
	return ok
}

func finite2(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// TotalMomentum returns Σ mᵢ·vᵢ over all bodies.
func (s *Store) TotalMomentum() Vec2 {
	n := len(s.ids)
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range s.ids {
		px[i] = s.mass[i] * s.vel[i].X
		py[i] = s.mass[i] * s.vel[i].Y
	}
	return Vec2{X: floats.Sum(px), Y: floats.Sum(py)}
}

// Bounds computes the axis-aligned bounding rectangle over all body
// positions: origin (minX, minY) and size (maxX-minX, maxY-minY).
func (s *Store) Bounds() (originX, originY, sizeX, sizeY float64) {
	n := len(s.pos)
	if n == 0 {
		return 0, 0, 0, 0
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range s.pos {
		xs[i] = p.X
		ys[i] = p.Y
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	return minX, minY, maxX - minX, maxY - minY
}

// Clone returns a deep copy of the store, independent of the original.
func (s *Store) Clone() *Store {
	c := &Store{
		ids:  append([]string(nil), s.ids...),
		mass: append([]float64(nil), s.mass...),
		pos:  append([]Vec2(nil), s.pos...),
		vel:  append([]Vec2(nil), s.vel...),
	}
	return c
}
