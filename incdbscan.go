package incdbscan

import (
	"math"
	"time"

	"github.com/hupe1980/incdbscan/distance"
	"github.com/hupe1980/incdbscan/index/flat"
	"github.com/hupe1980/incdbscan/labels"
)

// NoiseLabel is the value GetClusterLabels reports for noise points.
// Cluster labels are >= 0; NaN marks coordinates not present in the store.
const NoiseLabel = float64(labels.Noise)

// IncrementalDBSCAN is the engine facade. It owns the object store, the
// neighbor graph, the spatial index, and the label registry, and forwards
// every point of a batch through the insertion or deletion state machine.
//
// An instance is not safe for concurrent use; see the package documentation.
type IncrementalDBSCAN struct {
	opts    options
	objects *objects
	dim     int
}

// New creates an engine.
//
//	db, err := incdbscan.New(
//	    incdbscan.WithEpsilon(1.5),
//	    incdbscan.WithMinPoints(3),
//	)
func New(optFns ...Option) (*IncrementalDBSCAN, error) {
	opts := applyOptions(optFns)

	if math.IsNaN(opts.epsilon) || math.IsInf(opts.epsilon, 0) || opts.epsilon <= 0 {
		return nil, &ErrInvalidParameter{Name: "epsilon", Value: opts.epsilon}
	}
	if opts.minPoints < 1 {
		return nil, &ErrInvalidParameter{Name: "min_points", Value: float64(opts.minPoints)}
	}
	if _, err := distance.New(opts.p); err != nil {
		return nil, &ErrInvalidParameter{Name: "p", Value: opts.p, cause: err}
	}

	spatial, err := flat.New(func(o *flat.Options) {
		o.Epsilon = opts.epsilon
		o.P = opts.p
	})
	if err != nil {
		return nil, err
	}

	return &IncrementalDBSCAN{
		opts:    opts,
		objects: newObjects(spatial, opts.minPoints),
	}, nil
}

// Insert adds a batch of points, one at a time in input order. The first
// row of the first batch fixes the engine's dimensionality.
//
// A failed row leaves the engine exactly as it was before that row; rows
// before it in the batch stay applied, and the error reports the offending
// row.
func (db *IncrementalDBSCAN) Insert(points [][]float64) error {
	start := time.Now()
	err := db.insertAll(points)
	db.opts.metrics.RecordInsert(len(points), time.Since(start), err)
	db.opts.logger.LogBatchInsert(len(points), err)
	return err
}

func (db *IncrementalDBSCAN) insertAll(points [][]float64) error {
	for i, coords := range points {
		if err := db.validateRow(i, coords, true); err != nil {
			return err
		}
		if db.dim == 0 {
			db.dim = len(coords)
		}

		id, err := db.objects.insert(coords)
		if err != nil {
			return err
		}
		db.opts.logger.LogInsert(id, len(coords))
	}
	return nil
}

// Delete removes a batch of points, one at a time in input order. The
// result has one entry per row: true where the coordinate was present and
// one duplicate was removed, false where it was absent. Absent points are
// not errors.
func (db *IncrementalDBSCAN) Delete(points [][]float64) ([]bool, error) {
	start := time.Now()
	results, err := db.deleteAll(points)

	found := 0
	for _, ok := range results {
		if ok {
			found++
		}
	}
	db.opts.metrics.RecordDelete(len(points), found, time.Since(start), err)
	db.opts.logger.LogBatchDelete(len(points), found, err)

	return results, err
}

func (db *IncrementalDBSCAN) deleteAll(points [][]float64) ([]bool, error) {
	results := make([]bool, 0, len(points))
	for i, coords := range points {
		if err := db.validateRow(i, coords, false); err != nil {
			return results, err
		}

		ok := db.objects.deleteByCoords(coords)
		results = append(results, ok)
		db.opts.logger.LogDelete(ok)
	}
	return results, nil
}

// GetClusterLabels resolves each row to its current cluster label: >= 0
// for a cluster id, -1 for noise, NaN for coordinates not present in the
// store (never inserted, or deleted). The float64 representation exists to
// carry NaN uniformly.
func (db *IncrementalDBSCAN) GetClusterLabels(points [][]float64) ([]float64, error) {
	start := time.Now()
	result, err := db.labelsFor(points)
	db.opts.metrics.RecordLabelQuery(len(points), time.Since(start), err)
	db.opts.logger.LogLabelQuery(len(points), err)
	return result, err
}

func (db *IncrementalDBSCAN) labelsFor(points [][]float64) ([]float64, error) {
	result := make([]float64, 0, len(points))
	for i, coords := range points {
		if err := db.validateRow(i, coords, false); err != nil {
			return nil, err
		}

		id, ok := db.objects.spatial.Lookup(coords)
		if !ok {
			result = append(result, math.NaN())
			continue
		}
		label, _ := db.objects.labels.Get(id)
		result = append(result, float64(label))
	}
	return result, nil
}

// Len returns the number of live distinct coordinates.
func (db *IncrementalDBSCAN) Len() int {
	return db.objects.spatial.Len()
}

// Dimension returns the engine's fixed dimensionality, or 0 before the
// first insert.
func (db *IncrementalDBSCAN) Dimension() int {
	return db.dim
}

// Epsilon returns the configured neighborhood radius.
func (db *IncrementalDBSCAN) Epsilon() float64 { return db.opts.epsilon }

// MinPoints returns the configured core-point threshold.
func (db *IncrementalDBSCAN) MinPoints() int { return db.opts.minPoints }

// validateRow checks a row against the engine's dimensionality and, for
// inserts, rejects non-finite coordinates. Deletes and label queries on an
// engine that has no dimensionality yet accept any width: nothing can be
// present, and there is no dimension to mismatch.
func (db *IncrementalDBSCAN) validateRow(row int, coords []float64, forInsert bool) error {
	if db.dim != 0 && len(coords) != db.dim {
		return &ErrShapeMismatch{Expected: db.dim, Actual: len(coords), Row: row}
	}
	if forInsert {
		if len(coords) == 0 {
			return &ErrShapeMismatch{Expected: db.dim, Actual: 0, Row: row}
		}
		for j, c := range coords {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return &ErrInvalidPoint{Row: row, Dim: j, Value: c}
			}
		}
	}
	return nil
}
