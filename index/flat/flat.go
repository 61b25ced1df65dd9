// Package flat provides the default brute-force spatial index.
//
// Storage is a flat row-major coordinate block that grows amortized O(1)
// per insert; removal swaps with the last row, so it is O(1) as well.
// Radius queries scan every live row and compare reduced distances against
// the precomputed reduced threshold, which keeps the p=2 hot path free of
// square roots. Below the dataset sizes at which DBSCAN maintenance itself
// dominates, the scan beats rebuilding a tree per update.
package flat

import (
	"encoding/binary"
	"iter"
	"math"

	"github.com/hupe1980/incdbscan/distance"
	"github.com/hupe1980/incdbscan/index"
)

// Compile-time check to ensure Flat satisfies the index contract.
var _ index.Index = (*Flat)(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// Epsilon is the fixed query radius. It must be > 0.
	Epsilon float64

	// P is the Minkowski distance parameter. It must be >= 1; +Inf selects
	// the Chebyshev distance.
	P float64
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Epsilon: 1.0,
	P:       2.0,
}

// Flat represents a brute-force spatial index over live points.
type Flat struct {
	metric     distance.Metric
	eps        float64
	reducedEps float64

	dims   int       // fixed after first insert, 0 before
	coords []float64 // row-major: coords[i*dims:(i+1)*dims] belongs to ids[i]
	ids    []uint64
	rowOf  map[uint64]int    // id -> row
	idOf   map[string]uint64 // packed coordinates -> id
}

// New creates a new instance of the flat index.
func New(optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if math.IsNaN(opts.Epsilon) || opts.Epsilon <= 0 {
		return nil, &index.ErrInvalidEpsilon{Epsilon: opts.Epsilon}
	}

	metric, err := distance.New(opts.P)
	if err != nil {
		return nil, err
	}

	return &Flat{
		metric:     metric,
		eps:        opts.Epsilon,
		reducedEps: metric.ReducedThreshold(opts.Epsilon),
		rowOf:      make(map[uint64]int),
		idOf:       make(map[string]uint64),
	}, nil
}

// Insert adds a point under the given id. The first insert fixes the
// index dimensionality; later inserts of a different width fail.
func (f *Flat) Insert(id uint64, coords []float64) error {
	if f.dims == 0 && len(f.ids) == 0 {
		f.dims = len(coords)
	}
	if len(coords) != f.dims {
		return &index.ErrDimensionMismatch{Expected: f.dims, Actual: len(coords)}
	}

	row := len(f.ids)
	f.coords = append(f.coords, coords...)
	f.ids = append(f.ids, id)
	f.rowOf[id] = row
	f.idOf[packCoords(coords)] = id

	return nil
}

// Remove deletes the point with the given id by swapping it with the last
// row. It reports whether the id was present.
func (f *Flat) Remove(id uint64) bool {
	row, ok := f.rowOf[id]
	if !ok {
		return false
	}

	delete(f.idOf, packCoords(f.row(row)))
	delete(f.rowOf, id)

	last := len(f.ids) - 1
	if row != last {
		copy(f.row(row), f.row(last))
		movedID := f.ids[last]
		f.ids[row] = movedID
		f.rowOf[movedID] = row
	}
	f.ids = f.ids[:last]
	f.coords = f.coords[:last*f.dims]

	return true
}

// RadiusSearch returns every live point within the configured radius of the
// query, including the query's own coordinates if they are stored.
func (f *Flat) RadiusSearch(query []float64) ([]index.Result, error) {
	if len(f.ids) == 0 {
		return nil, nil
	}
	if len(query) != f.dims {
		return nil, &index.ErrDimensionMismatch{Expected: f.dims, Actual: len(query)}
	}

	var results []index.Result
	for i, id := range f.ids {
		r := f.metric.Reduced(query, f.row(i))
		if r <= f.reducedEps {
			results = append(results, index.Result{ID: id, Distance: f.metric.FromReduced(r)})
		}
	}

	return results, nil
}

// Lookup resolves exact coordinates (bit-pattern equality) to the id they
// were inserted under.
func (f *Flat) Lookup(coords []float64) (uint64, bool) {
	id, ok := f.idOf[packCoords(coords)]
	return id, ok
}

// All iterates over all live (id, coordinates) pairs in storage order.
// The yielded slice aliases internal storage and must not be retained.
func (f *Flat) All() iter.Seq2[uint64, []float64] {
	return func(yield func(uint64, []float64) bool) {
		for i, id := range f.ids {
			if !yield(id, f.row(i)) {
				return
			}
		}
	}
}

// Len returns the number of live points.
func (f *Flat) Len() int { return len(f.ids) }

// Dimension returns the fixed dimensionality, or 0 before the first insert.
func (f *Flat) Dimension() int { return f.dims }

// Epsilon returns the configured query radius.
func (f *Flat) Epsilon() float64 { return f.eps }

func (f *Flat) row(i int) []float64 {
	return f.coords[i*f.dims : (i+1)*f.dims]
}

// packCoords packs coordinates into a map key by their raw bit patterns.
// Equality is therefore bit-exact: -0.0 and +0.0 are distinct keys.
func packCoords(coords []float64) string {
	buf := make([]byte, 8*len(coords))
	for i, c := range coords {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(c))
	}
	return string(buf)
}
