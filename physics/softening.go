// Package physics computes gravitational accelerations over a
// bodystore.Store, either by direct all-pairs summation or by Barnes-Hut
// traversal of a quadtree.Quadtree.
package physics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/PhivPap/n-body-2d/bodystore"
)

// G is the gravitational constant, SI units.
const G = 6.67430e-11

// Theta is the Barnes-Hut opening angle threshold.
const Theta = 0.7

// MaxSamples bounds the pair count examined when estimating the average
// pairwise distance for softening: once n² exceeds it, MaxSamples pair
// distances are sampled rather than computed exactly over all C(n,2) pairs.
const MaxSamples = 1_000_000

// SofteningLength returns ε, the Plummer softening length, computed as
// factor times the average pairwise distance between bodies in store. For
// n < 2 (an empty or single-body store) there is no pair to average and ε
// is 0.
func SofteningLength(store *bodystore.Store, factor float64) float64 {
	avg := averagePairwiseDistance(store)
	return factor * avg
}

// averagePairwiseDistance computes the exact mean over all C(n,2) pairs
// when n² is within MaxSamples, or a uniform random sample of MaxSamples
// pairs otherwise.
func averagePairwiseDistance(store *bodystore.Store) float64 {
	n := store.Len()
	if n < 2 {
		return 0
	}
	if int64(n)*int64(n) <= MaxSamples {
		dists := make([]float64, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			pi := store.Pos(i)
			for j := i + 1; j < n; j++ {
				pj := store.Pos(j)
				dists = append(dists, dist(pi, pj))
			}
		}
		return stat.Mean(dists, nil)
	}

	rng := rand.New(rand.NewSource(1))
	dists := make([]float64, MaxSamples)
	for k := 0; k < MaxSamples; k++ {
		i := rng.Intn(n)
		j := rng.Intn(n - 1)
		if j >= i {
			j++
		}
		dists[k] = dist(store.Pos(i), store.Pos(j))
	}
	return stat.Mean(dists, nil)
}

func dist(a, b bodystore.Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Hypot(dx, dy)
}
