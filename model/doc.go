// Package model defines the geometric types shared by all polyorder packages.
//
// # Polygons
//
// A [Polygon] is one detection: a class index plus an ordered list of
// vertices. Polygons are produced by the readers (see the yolo and
// predictions packages) and consumed by the layout package, which orders
// pointers to them without touching their vertices:
//
//	p := model.NewPolygon(3, model.Point{X: 0, Y: 0}, model.Point{X: 1, Y: 1})
//	if err := p.Validate(); err != nil {
//	    // handle error
//	}
//	if p.IsDegenerate() {
//	    // single point, line or collinear outline; still ordered
//	}
//
// # Geometry
//
//   - [Point] - 2D point
//   - [BBox] - axis-aligned box in image coordinates (Top is the minimum Y)
//
// Bounding boxes are computed with github.com/paulmach/orb. [Polygon.Ring]
// exposes the outline as an orb.Ring, and [Polygon.Area] measures it with
// orb/planar.
package model
