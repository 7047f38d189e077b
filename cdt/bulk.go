package cdt

import (
	"fmt"
	"math/rand"

	"github.com/fenwick-geo/meshfront/types"
)

// bulkConfig holds the tunables for BulkInit, in the style of the teacher's
// seeded-shuffle build options.
type bulkConfig struct {
	seed      int64
	shuffle   bool
	postCheck bool
}

// BulkOption configures a BulkInit call.
type BulkOption func(*bulkConfig)

// WithBulkSeed sets the deterministic seed used to shuffle insertion order
// (see WithBulkShuffle). Default 42, matching the teacher's fixed-seed
// default for reproducible builds.
func WithBulkSeed(seed int64) BulkOption {
	return func(c *bulkConfig) { c.seed = seed }
}

// WithBulkShuffle toggles randomizing insertion order before the incremental
// pass. Incremental Delaunay insertion's expected-case cost is sensitive to
// input order (a sorted or adversarial order can walk/legalize far more than
// a random one); shuffling first, as the teacher's RandomSeed/BuildOptions
// does, amortizes that risk. Default on.
func WithBulkShuffle(enable bool) BulkOption {
	return func(c *bulkConfig) { c.shuffle = enable }
}

// WithBulkPostCheck runs CheckLocalDelaunay after the whole batch completes
// rather than (expensively) after every point, matching the cost profile a
// bulk load is meant to have.
func WithBulkPostCheck(enable bool) BulkOption {
	return func(c *bulkConfig) { c.postCheck = enable }
}

// BulkInit implements bulk_init(points) of §4.8. A true batch Delaunay
// facility (import vertices and triangles directly, then derive edges and
// edge-to-cell pointers from the cell boundaries) has no counterpart in this
// module's dependency set, so this always takes the incremental fallback:
// insert every point one at a time through the normal AddNode path, which
// already maintains every invariant point-by-point. The only thing this
// adds over a manual loop is the teacher's seeded-shuffle insertion-order
// control and a single end-of-batch invariant check instead of one per
// point.
func (t *Triangulation) BulkInit(points []types.Point, opts ...BulkOption) error {
	if t.dim != -1 {
		return fmt.Errorf("cdt: bulk_init requires an empty triangulation")
	}

	cfg := bulkConfig{seed: 42, shuffle: true}
	for _, o := range opts {
		o(&cfg)
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	if cfg.shuffle {
		rand.New(rand.NewSource(cfg.seed)).Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	wasPostCheck := t.cfg.postCheck
	t.cfg.postCheck = false
	for _, i := range order {
		if _, err := t.AddNode(points[i]); err != nil {
			t.cfg.postCheck = wasPostCheck
			return fmt.Errorf("cdt: bulk_init: inserting point %d: %w", i, err)
		}
	}
	t.cfg.postCheck = wasPostCheck

	if cfg.postCheck {
		if probs := t.CheckLocalDelaunay(); len(probs) > 0 {
			return fmt.Errorf("%w: %d locally-illegal edges after bulk_init", ErrGridException, len(probs))
		}
	}
	return nil
}
