// Package bodyio reads and writes the body snapshot CSV format.
package bodyio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/PhivPap/n-body-2d/bodystore"
)

// row is the flat CSV record shape. Field order fixes the header exactly to
// "id,mass,x,y,vel_x,vel_y".
type row struct {
	ID    string  `csv:"id"`
	Mass  float64 `csv:"mass"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VelX  float64 `csv:"vel_x"`
	VelY  float64 `csv:"vel_y"`
}

// Load reads a body CSV file into a Store. Invalid rows (duplicate id,
// non-finite position/velocity, negative or non-finite mass) are fatal.
func Load(path string) (*bodystore.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening universe infile: %w", err)
	}
	defer f.Close()

	var rows []row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing universe infile: %w", err)
	}

	n := len(rows)
	ids := make([]string, n)
	mass := make([]float64, n)
	pos := make([]bodystore.Vec2, n)
	vel := make([]bodystore.Vec2, n)

	for i, r := range rows {
		ids[i] = r.ID
		mass[i] = r.Mass
		pos[i] = bodystore.Vec2{X: r.X, Y: r.Y}
		vel[i] = bodystore.Vec2{X: r.VelX, Y: r.VelY}
	}

	store, err := bodystore.New(ids, mass, pos, vel)
	if err != nil {
		return nil, fmt.Errorf("universe infile: %w", err)
	}
	if !store.ValidateFinite() {
		return nil, fmt.Errorf("universe infile: one or more bodies has a negative or non-finite mass or non-finite position/velocity, see warnings above")
	}
	return store, nil
}

// Save writes a Store to a body CSV file, round-tripping with Load using the
// host default double formatting that gocsv emits for float64 fields.
func Save(path string, store *bodystore.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating universe outfile: %w", err)
	}
	defer f.Close()

	rows := make([]row, store.Len())
	for i := 0; i < store.Len(); i++ {
		pos := store.Pos(i)
		vel := store.Vel(i)
		rows[i] = row{
			ID:   store.ID(i),
			Mass: store.Mass(i),
			X:    pos.X,
			Y:    pos.Y,
			VelX: vel.X,
			VelY: vel.Y,
		}
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing universe outfile: %w", err)
	}
	return nil
}
