package layout

import (
	"errors"
	"fmt"

	"github.com/tsawler/polyorder/model"
)

var (
	// ErrEmptyInput is returned when an operation that needs at least one
	// polygon (average size, row clustering, reading order) gets none.
	ErrEmptyInput = errors.New("no polygons to order")

	// ErrNilPolygon is returned when the input contains a nil polygon.
	ErrNilPolygon = errors.New("nil polygon")
)

// Metrics holds the derived bounding measurements of one polygon
type Metrics struct {
	// BBox is the axis-aligned box over the polygon's vertices
	BBox model.BBox

	// Center is the midpoint of BBox
	Center model.Point
}

// Width returns the bounding box width (0 for a single vertex)
func (m Metrics) Width() float64 {
	return m.BBox.Width()
}

// Height returns the bounding box height (0 for a single vertex)
func (m Metrics) Height() float64 {
	return m.BBox.Height()
}

// ComputeMetrics computes the bounding box and center of a polygon.
// A single-vertex polygon yields a point box with zero width and height;
// that is a valid result, not an error.
func ComputeMetrics(p *model.Polygon) Metrics {
	bbox := p.BBox()
	return Metrics{BBox: bbox, Center: bbox.Center()}
}

// AverageSize returns the arithmetic mean of polygon heights and widths over
// the whole set. It fails with ErrEmptyInput for an empty set.
func AverageSize(polygons []*model.Polygon) (avgHeight, avgWidth float64, err error) {
	items, err := measure(polygons)
	if err != nil {
		return 0, 0, err
	}
	avgHeight, avgWidth = averageSize(items)
	return avgHeight, avgWidth, nil
}

// measured pairs a polygon with its metrics so they are computed once
type measured struct {
	polygon *model.Polygon
	metrics Metrics
}

func (m measured) centerX() float64 { return m.metrics.Center.X }
func (m measured) centerY() float64 { return m.metrics.Center.Y }

// measure validates the input and computes metrics for each polygon,
// preserving input order.
func measure(polygons []*model.Polygon) ([]measured, error) {
	if len(polygons) == 0 {
		return nil, ErrEmptyInput
	}

	items := make([]measured, len(polygons))
	for i, p := range polygons {
		if p == nil {
			return nil, fmt.Errorf("polygon %d: %w", i, ErrNilPolygon)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, err)
		}
		items[i] = measured{polygon: p, metrics: ComputeMetrics(p)}
	}
	return items, nil
}

// averageSize expects a non-empty slice
func averageSize(items []measured) (avgHeight, avgWidth float64) {
	var sumHeight, sumWidth float64
	for _, m := range items {
		sumHeight += m.metrics.Height()
		sumWidth += m.metrics.Width()
	}
	n := float64(len(items))
	return sumHeight / n, sumWidth / n
}

func polygonsOf(items []measured) []*model.Polygon {
	out := make([]*model.Polygon, len(items))
	for i, m := range items {
		out[i] = m.polygon
	}
	return out
}
