package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrNoPoints is returned for a polygon without any vertex.
	ErrNoPoints = errors.New("polygon has no points")

	// ErrNonFinite is returned when a vertex coordinate is NaN or infinite.
	ErrNonFinite = errors.New("polygon has a non-finite coordinate")

	// ErrNegativeClass is returned when the class index is below zero.
	ErrNegativeClass = errors.New("polygon class index is negative")
)

// Polygon is a single detection: a class index and its outline.
//
// Polygons are treated as immutable by the layout package, which only
// reorders pointers to them. Points may have any length >= 1; polygons with
// fewer than three points or a zero-area outline are degenerate but valid.
type Polygon struct {
	// Class is the detector's class index. It is not checked against a
	// class list.
	Class int

	// Points is the ordered outline in a coordinate space shared by all
	// polygons of one page (normalized [0,1] or pixels).
	Points []Point
}

// NewPolygon creates a polygon from a class index and its vertices.
func NewPolygon(class int, points ...Point) *Polygon {
	return &Polygon{Class: class, Points: points}
}

// NewPolygonFromCoordinates builds a polygon from a flat x1 y1 x2 y2 ...
// coordinate list, as found in coordinate-text files.
func NewPolygonFromCoordinates(class int, coords []float64) (*Polygon, error) {
	if len(coords)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates (%d)", len(coords))
	}
	points := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		points = append(points, Point{X: coords[i], Y: coords[i+1]})
	}
	return &Polygon{Class: class, Points: points}, nil
}

// BBox returns the axis-aligned bounding box of the polygon's vertices.
func (p *Polygon) BBox() BBox {
	return NewBBoxFromPoints(p.Points...)
}

// Coordinates returns the vertices as a flat x1 y1 x2 y2 ... list.
func (p *Polygon) Coordinates() []float64 {
	coords := make([]float64, 0, 2*len(p.Points))
	for _, pt := range p.Points {
		coords = append(coords, pt.X, pt.Y)
	}
	return coords
}

// Ring returns the outline as a closed orb.Ring, repeating the first vertex
// at the end when the outline is not already closed.
func (p *Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Points)+1)
	for _, pt := range p.Points {
		ring = append(ring, pt.orb())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the planar area enclosed by the outline, zero for fewer than
// three vertices.
func (p *Polygon) Area() float64 {
	if len(p.Points) < 3 {
		return 0
	}
	return math.Abs(planar.Area(p.Ring()))
}

// IsDegenerate reports whether the polygon encloses no area: fewer than
// three vertices, a flat bounding box, or collinear vertices.
func (p *Polygon) IsDegenerate() bool {
	return len(p.Points) < 3 || p.BBox().IsEmpty() || p.Area() == 0
}

// Validate checks the polygon against the input contract: a non-negative
// class and at least one finite vertex.
func (p *Polygon) Validate() error {
	if p.Class < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeClass, p.Class)
	}
	if len(p.Points) == 0 {
		return ErrNoPoints
	}
	for i, pt := range p.Points {
		if !pt.IsFinite() {
			return fmt.Errorf("%w: point %d (%v, %v)", ErrNonFinite, i, pt.X, pt.Y)
		}
	}
	return nil
}
