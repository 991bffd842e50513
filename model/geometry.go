package model

import (
	"math"

	"github.com/paulmach/orb"
)

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// BBox represents an axis-aligned bounding box in image coordinates,
// where Y grows downward: Top is the minimum Y and Bottom the maximum.
type BBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// NewBBoxFromPoints creates the smallest bounding box enclosing all points.
// It returns the zero BBox when no points are given.
func NewBBoxFromPoints(points ...Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.orb()
	}
	b := mp.Bound()

	return BBox{
		Left:   b.Min.X(),
		Top:    b.Min.Y(),
		Right:  b.Max.X(),
		Bottom: b.Max.Y(),
	}
}

// Width returns Right - Left
func (b BBox) Width() float64 {
	return b.Right - b.Left
}

// Height returns Bottom - Top
func (b BBox) Height() float64 {
	return b.Bottom - b.Top
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.Left + b.Right) / 2,
		Y: (b.Top + b.Bottom) / 2,
	}
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		Left:   math.Min(b.Left, other.Left),
		Top:    math.Min(b.Top, other.Top),
		Right:  math.Max(b.Right, other.Right),
		Bottom: math.Max(b.Bottom, other.Bottom),
	}
}

// IsEmpty returns true if the bounding box has zero area.
// Boxes of single-point or straight-line polygons are empty but still valid.
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}
