package cdt

// config holds the tunables for a Triangulation, set via functional
// Options, in the style of the teacher's mesh/options.go.
type config struct {
	postCheck    bool
	hintCellSize float64
}

// defaultHintCellSize is the cell size of the point-location hint grid
// when WithHintCellSize is not given. The grid is created once in New and
// is not resized as nodes arrive.
const defaultHintCellSize = 1.0

// Option configures a Triangulation at construction time.
type Option func(*config)

// WithPostCheck enables GridException-raising invariant checks after every
// mutating call. Expensive; intended for tests, not production meshing
// loops (spec §7 "GridException — ... only when post_check is enabled").
func WithPostCheck(enable bool) Option {
	return func(c *config) {
		c.postCheck = enable
	}
}

// WithHintCellSize sets the cell size of the spatial index Locate uses to
// pick a nearby starting cell (see pickHint in locate.go). Pick something
// close to the triangulation's typical edge length: too small and most
// queries miss their own cell, too large and every cell holds most of the
// mesh. Defaults to defaultHintCellSize.
func WithHintCellSize(size float64) Option {
	return func(c *config) {
		c.hintCellSize = size
	}
}
