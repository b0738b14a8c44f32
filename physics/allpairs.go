package physics

import (
	"math"

	"github.com/PhivPap/n-body-2d/bodystore"
)

// AllPairsAccel computes the gravitational acceleration on every body in
// [start, end) due to every other body in store, the full O(N²) kernel
// with no action-reaction halving. It is used by the Barnes-Hut
// approximation test as a ground truth and is not the kernel the
// all-pairs Engine runs (that one is AllPairsSymmetricVelocityUpdate:
// single-threaded, so it can afford to halve the work). eps2 is the
// squared Plummer softening length. accelX/accelY are output slices
// sized to store.Len(); only indices in [start, end) are written.
func AllPairsAccel(store *bodystore.Store, eps2 float64, start, end int, accelX, accelY []float64) {
	n := store.Len()
	for i := start; i < end; i++ {
		pi := store.Pos(i)
		var fx, fy float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			pj := store.Pos(j)
			rx := pj.X - pi.X
			ry := pj.Y - pi.Y
			dist2 := rx*rx + ry*ry + eps2
			invDist := 1.0 / math.Sqrt(dist2)
			invDist3 := invDist * invDist * invDist
			f := G * store.Mass(j) * invDist3
			fx += f * rx
			fy += f * ry
		}
		accelX[i] = fx
		accelY[i] = fy
	}
}

// AllPairsSymmetricVelocityUpdate advances every body's velocity by one
// timestep using the single-threaded, action-reaction-symmetric loop:
// for each ordered pair (i,j) with j > i, the pairwise force is computed
// once and applied to both bodies with opposite sign, halving the work
// relative to AllPairsAccel. Position advance is a separate pass
// (AdvancePositions), matching the mandatory forces-then-positions
// ordering shared with the Barnes-Hut kernel.
func AllPairsSymmetricVelocityUpdate(store *bodystore.Store, eps2, dt float64) {
	n := store.Len()
	for i := 0; i < n; i++ {
		pi := store.Pos(i)
		mi := store.Mass(i)
		var accX, accY float64
		for j := i + 1; j < n; j++ {
			pj := store.Pos(j)
			mj := store.Mass(j)
			rx := pj.X - pi.X
			ry := pj.Y - pi.Y
			dist2 := rx*rx + ry*ry + eps2
			invDist := 1.0 / math.Sqrt(dist2)
			invDist3 := invDist * invDist * invDist

			amp := G * mi * mj * invDist3
			fx := amp * rx
			fy := amp * ry

			store.AddVel(j, bodystore.Vec2{X: -fx / mj * dt, Y: -fy / mj * dt})
			accX += fx / mi
			accY += fy / mi
		}
		store.AddVel(i, bodystore.Vec2{X: accX * dt, Y: accY * dt})
	}
}

// AdvancePositions applies p_i += v_i·dt to every body, the second phase
// of semi-implicit Euler shared by both kernels.
func AdvancePositions(store *bodystore.Store, dt float64) {
	n := store.Len()
	for i := 0; i < n; i++ {
		v := store.Vel(i)
		store.AddPos(i, bodystore.Vec2{X: v.X * dt, Y: v.Y * dt})
	}
}
