package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/polyorder/model"
)

// ErrInvalidThreshold is returned when RowConfig.ThresholdRatio is negative
// or not a finite number.
var ErrInvalidThreshold = errors.New("invalid row threshold ratio")

// Row is a group of polygons judged to lie at the same vertical position
type Row struct {
	// Index is the row's position on the page (0-based, top to bottom)
	Index int

	// Polygons in this row. RowDetector leaves them in ascending center Y
	// order; OrderRows sorts them along the reading direction.
	Polygons []*model.Polygon

	// BBox is the union of the member polygons' bounding boxes
	BBox model.BBox
}

// Len returns the number of polygons in the row
func (r Row) Len() int {
	return len(r.Polygons)
}

// RowLayout is the detected row structure of a polygon set
type RowLayout struct {
	// Rows in creation order, which is ascending vertical position
	Rows []Row

	// AverageHeight is the mean polygon height over the whole input
	AverageHeight float64

	// AverageWidth is the mean polygon width over the whole input
	AverageWidth float64

	// Threshold is the largest center-Y gap that keeps a polygon in the
	// current row
	Threshold float64

	// Config is the configuration used for detection
	Config RowConfig
}

// RowCount returns the number of detected rows
func (l *RowLayout) RowCount() int {
	return len(l.Rows)
}

// GetRow returns the row at index, or nil if out of range
func (l *RowLayout) GetRow(index int) *Row {
	if index < 0 || index >= len(l.Rows) {
		return nil
	}
	return &l.Rows[index]
}

// RowConfig holds configuration for row detection
type RowConfig struct {
	// ThresholdRatio scales the average polygon height into the row split
	// threshold (default: 0.5, i.e. half the average height)
	ThresholdRatio float64
}

// DefaultRowConfig returns the standard half-average-height configuration
func DefaultRowConfig() RowConfig {
	return RowConfig{
		ThresholdRatio: 0.5,
	}
}

func (c RowConfig) validate() error {
	r := c.ThresholdRatio
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, r)
	}
	return nil
}

// RowDetector clusters polygons into horizontal rows
type RowDetector struct {
	config RowConfig
}

// NewRowDetector creates a new row detector with default configuration
func NewRowDetector() *RowDetector {
	return &RowDetector{
		config: DefaultRowConfig(),
	}
}

// NewRowDetectorWithConfig creates a row detector with custom configuration
func NewRowDetectorWithConfig(config RowConfig) *RowDetector {
	return &RowDetector{
		config: config,
	}
}

// ClusterIntoRows groups polygons into rows using the default configuration.
func ClusterIntoRows(polygons []*model.Polygon) ([]Row, error) {
	rl, err := NewRowDetector().Detect(polygons)
	if err != nil {
		return nil, err
	}
	return rl.Rows, nil
}

// Detect clusters polygons into rows.
//
// Polygons are stably sorted by ascending center Y and walked once. A polygon
// whose center Y differs from the previously placed polygon's by more than
// the threshold (strictly greater) closes the current row and starts a new
// one. The threshold is the mean height over all polygons times
// ThresholdRatio.
func (d *RowDetector) Detect(polygons []*model.Polygon) (*RowLayout, error) {
	if err := d.config.validate(); err != nil {
		return nil, err
	}

	items, err := measure(polygons)
	if err != nil {
		return nil, err
	}

	avgHeight, avgWidth := averageSize(items)
	threshold := avgHeight * d.config.ThresholdRatio

	groups := clusterSorted(sortByCenterY(items), threshold)

	rows := make([]Row, len(groups))
	for i, g := range groups {
		rows[i] = newRow(i, g)
	}

	return &RowLayout{
		Rows:          rows,
		AverageHeight: avgHeight,
		AverageWidth:  avgWidth,
		Threshold:     threshold,
		Config:        d.config,
	}, nil
}

// sortByCenterY returns a copy of items stably sorted by ascending center Y
func sortByCenterY(items []measured) []measured {
	sorted := make([]measured, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].centerY() < sorted[j].centerY()
	})
	return sorted
}

// rowFold is the state carried through the clustering walk
type rowFold struct {
	closed  [][]measured
	current []measured
	last    measured
}

func (f rowFold) step(m measured, threshold float64) rowFold {
	if math.Abs(m.centerY()-f.last.centerY()) > threshold {
		f.closed = append(f.closed, f.current)
		f.current = nil
	}
	f.current = append(f.current, m)
	f.last = m
	return f
}

// clusterSorted expects a non-empty slice sorted by center Y. The first
// element is compared with itself, so it always lands in row 0.
func clusterSorted(sorted []measured, threshold float64) [][]measured {
	f := rowFold{last: sorted[0]}
	for _, m := range sorted {
		f = f.step(m, threshold)
	}
	return append(f.closed, f.current)
}

func newRow(index int, items []measured) Row {
	bbox := items[0].metrics.BBox
	for _, m := range items[1:] {
		bbox = bbox.Union(m.metrics.BBox)
	}
	return Row{
		Index:    index,
		Polygons: polygonsOf(items),
		BBox:     bbox,
	}
}
