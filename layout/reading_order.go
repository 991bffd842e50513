package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/polyorder/model"
)

// ReadingDirection indicates the order in which polygons of one row are read
type ReadingDirection int

const (
	// RightToLeft reads the rightmost polygon of a row first. It is the
	// zero value and the default.
	RightToLeft ReadingDirection = iota
	// LeftToRight reads the leftmost polygon of a row first
	LeftToRight
)

// String returns a string representation of the reading direction
func (d ReadingDirection) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	default:
		return "rtl"
	}
}

// ParseReadingDirection parses "rtl" or "ltr" (case-insensitive, long forms
// "right-to-left" and "left-to-right" accepted). An empty string yields the
// default RightToLeft.
func ParseReadingDirection(s string) (ReadingDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rtl", "right-to-left":
		return RightToLeft, nil
	case "ltr", "left-to-right":
		return LeftToRight, nil
	default:
		return RightToLeft, fmt.Errorf("unknown reading direction %q", s)
	}
}

// ReadingOrderConfig holds configuration for reading order detection
type ReadingOrderConfig struct {
	// Direction is the in-row reading direction
	Direction ReadingDirection

	// RowConfig is the configuration for row clustering
	RowConfig RowConfig
}

// DefaultReadingOrderConfig returns right-to-left reading with half the
// average polygon height as row threshold
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		Direction: RightToLeft,
		RowConfig: DefaultRowConfig(),
	}
}

// ReadingOrderResult holds the result of reading order analysis
type ReadingOrderResult struct {
	// Polygons in reading order
	Polygons []*model.Polygon

	// Rows top to bottom, each sorted along Direction
	Rows []Row

	// Direction used for in-row ordering
	Direction ReadingDirection

	// AverageHeight and AverageWidth over all input polygons
	AverageHeight float64
	AverageWidth  float64

	// Threshold is the row split threshold that was applied
	Threshold float64

	// Degenerate counts polygons that enclose no area (points, lines,
	// collinear outlines). They are ordered like any other polygon.
	Degenerate int
}

// RowCount returns the number of rows
func (r *ReadingOrderResult) RowCount() int {
	return len(r.Rows)
}

// Classes returns the class indices in reading order
func (r *ReadingOrderResult) Classes() []int {
	classes := make([]int, len(r.Polygons))
	for i, p := range r.Polygons {
		classes[i] = p.Class
	}
	return classes
}

// ReadingOrderDetector determines the reading order of polygon detections
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a new reading order detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderDetectorWithConfig creates a reading order detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: config,
	}
}

// Detect clusters polygons into rows, orders each row along the configured
// direction and concatenates rows top to bottom. The input slice and the
// polygons it points to are not modified.
func (d *ReadingOrderDetector) Detect(polygons []*model.Polygon) (*ReadingOrderResult, error) {
	rowLayout, err := NewRowDetectorWithConfig(d.config.RowConfig).Detect(polygons)
	if err != nil {
		return nil, err
	}

	rows := OrderRows(rowLayout.Rows, d.config.Direction)

	degenerate := 0
	for _, p := range polygons {
		if p.IsDegenerate() {
			degenerate++
		}
	}

	return &ReadingOrderResult{
		Polygons:      Flatten(rows),
		Rows:          rows,
		Direction:     d.config.Direction,
		AverageHeight: rowLayout.AverageHeight,
		AverageWidth:  rowLayout.AverageWidth,
		Threshold:     rowLayout.Threshold,
		Degenerate:    degenerate,
	}, nil
}

// SortReadingOrder returns polygons in reading order: rows top to bottom,
// right to left within each row. It fails with ErrEmptyInput when given no
// polygons.
func SortReadingOrder(polygons []*model.Polygon) ([]*model.Polygon, error) {
	result, err := NewReadingOrderDetector().Detect(polygons)
	if err != nil {
		return nil, err
	}
	return result.Polygons, nil
}

// OrderRows returns new rows whose polygons are stably sorted by center X,
// descending for RightToLeft and ascending for LeftToRight. Rows keep their
// relative order and the input rows are left untouched.
func OrderRows(rows []Row, direction ReadingDirection) []Row {
	ordered := make([]Row, len(rows))
	for i, row := range rows {
		items := make([]measured, len(row.Polygons))
		for j, p := range row.Polygons {
			items[j] = measured{polygon: p, metrics: ComputeMetrics(p)}
		}

		sort.SliceStable(items, func(a, b int) bool {
			if direction == LeftToRight {
				return items[a].centerX() < items[b].centerX()
			}
			return items[a].centerX() > items[b].centerX()
		})

		ordered[i] = Row{
			Index:    row.Index,
			Polygons: polygonsOf(items),
			BBox:     row.BBox,
		}
	}
	return ordered
}

// Flatten concatenates the polygons of all rows in row order
func Flatten(rows []Row) []*model.Polygon {
	n := 0
	for _, row := range rows {
		n += len(row.Polygons)
	}

	out := make([]*model.Polygon, 0, n)
	for _, row := range rows {
		out = append(out, row.Polygons...)
	}
	return out
}
