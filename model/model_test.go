package model

import (
	"errors"
	"math"
	"testing"
)

// ============================================================================
// Point Tests
// ============================================================================

func TestPointIsFinite(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{0, 0}, true},
		{"NaN x", Point{math.NaN(), 0}, false},
		{"NaN y", Point{0, math.NaN()}, false},
		{"+Inf", Point{math.Inf(1), 0}, false},
		{"-Inf", Point{0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   BBox
	}{
		{"none", nil, BBox{}},
		{"single point", []Point{{2, 3}}, BBox{Left: 2, Top: 3, Right: 2, Bottom: 3}},
		{"square", []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, BBox{0, 0, 1, 1}},
		{"unordered", []Point{{5, 9}, {-1, 4}, {3, -2}}, BBox{Left: -1, Top: -2, Right: 5, Bottom: 9}},
		{"horizontal line", []Point{{0, 1}, {4, 1}}, BBox{Left: 0, Top: 1, Right: 4, Bottom: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromPoints(tt.points...)
			if got != tt.want {
				t.Errorf("NewBBoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxDimensions(t *testing.T) {
	bbox := BBox{Left: 10, Top: 20, Right: 110, Bottom: 70}

	if bbox.Width() != 100 {
		t.Errorf("Width() = %v, want 100", bbox.Width())
	}
	if bbox.Height() != 50 {
		t.Errorf("Height() = %v, want 50", bbox.Height())
	}

	center := bbox.Center()
	if center.X != 60 || center.Y != 45 {
		t.Errorf("Center() = %+v, want {60, 45}", center)
	}
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{Left: 0, Top: 0, Right: 10, Bottom: 10}
	c := BBox{Left: 20, Top: 20, Right: 30, Bottom: 30}

	want := BBox{Left: 0, Top: 0, Right: 30, Bottom: 30}
	if got := a.Union(c); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestBBoxIsEmpty(t *testing.T) {
	if !(BBox{Left: 1, Top: 1, Right: 1, Bottom: 1}).IsEmpty() {
		t.Error("point box should be empty")
	}
	if !(BBox{Left: 0, Top: 1, Right: 4, Bottom: 1}).IsEmpty() {
		t.Error("line box should be empty")
	}
	if (BBox{Left: 0, Top: 0, Right: 1, Bottom: 1}).IsEmpty() {
		t.Error("unit box should not be empty")
	}
}

// ============================================================================
// Polygon Tests
// ============================================================================

func TestNewPolygonFromCoordinates(t *testing.T) {
	p, err := NewPolygonFromCoordinates(4, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	if err != nil {
		t.Fatalf("NewPolygonFromCoordinates() error = %v", err)
	}
	if p.Class != 4 {
		t.Errorf("Class = %d, want 4", p.Class)
	}
	if len(p.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(p.Points))
	}
	if p.Points[2] != (Point{0.5, 0.6}) {
		t.Errorf("Points[2] = %+v, want {0.5, 0.6}", p.Points[2])
	}

	if _, err := NewPolygonFromCoordinates(1, []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for odd coordinate count")
	}
}

func TestPolygonCoordinates(t *testing.T) {
	p := NewPolygon(0, Point{1, 2}, Point{3, 4})
	got := p.Coordinates()
	want := []float64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Coordinates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coordinates()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPolygonBBox(t *testing.T) {
	p := NewPolygon(0, Point{5, 0}, Point{6, 0}, Point{6, 1}, Point{5, 1})

	want := BBox{Left: 5, Top: 0, Right: 6, Bottom: 1}
	if got := p.BBox(); got != want {
		t.Errorf("BBox() = %+v, want %+v", got, want)
	}
	if got := p.BBox().Center(); got != (Point{5.5, 0.5}) {
		t.Errorf("BBox().Center() = %+v, want {5.5, 0.5}", got)
	}
}

func TestPolygonRing(t *testing.T) {
	p := NewPolygon(0, Point{0, 0}, Point{1, 0}, Point{1, 1})
	ring := p.Ring()
	if len(ring) != 4 {
		t.Fatalf("len(Ring()) = %d, want 4", len(ring))
	}
	if !ring.Closed() {
		t.Error("Ring() should be closed")
	}

	closed := NewPolygon(0, Point{0, 0}, Point{1, 0}, Point{0, 0})
	if got := len(closed.Ring()); got != 3 {
		t.Errorf("len(Ring()) of closed outline = %d, want 3", got)
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name    string
		polygon *Polygon
		want    float64
	}{
		{"unit square clockwise", NewPolygon(0, Point{0, 0}, Point{1, 0}, Point{1, 1}, Point{0, 1}), 1},
		{"unit square counter-clockwise", NewPolygon(0, Point{0, 0}, Point{0, 1}, Point{1, 1}, Point{1, 0}), 1},
		{"right triangle", NewPolygon(0, Point{0, 0}, Point{4, 0}, Point{0, 2}), 4},
		{"collinear", NewPolygon(0, Point{0, 0}, Point{1, 1}, Point{2, 2}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.polygon.Area(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonIsDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		polygon *Polygon
		want    bool
	}{
		{"single point", NewPolygon(0, Point{1, 1}), true},
		{"two points", NewPolygon(0, Point{0, 0}, Point{1, 1}), true},
		{"horizontal line", NewPolygon(0, Point{0, 1}, Point{1, 1}, Point{2, 1}), true},
		{"collinear diagonal", NewPolygon(0, Point{0, 0}, Point{1, 1}, Point{2, 2}), true},
		{"triangle", NewPolygon(0, Point{0, 0}, Point{1, 0}, Point{0, 1}), false},
		{"square", NewPolygon(0, Point{0, 0}, Point{1, 0}, Point{1, 1}, Point{0, 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.polygon.IsDegenerate(); got != tt.want {
				t.Errorf("IsDegenerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonValidate(t *testing.T) {
	tests := []struct {
		name    string
		polygon *Polygon
		wantErr error
	}{
		{"valid", NewPolygon(0, Point{0, 0}, Point{1, 1}), nil},
		{"single point", NewPolygon(2, Point{3, 3}), nil},
		{"no points", NewPolygon(1), ErrNoPoints},
		{"negative class", NewPolygon(-1, Point{0, 0}), ErrNegativeClass},
		{"NaN", NewPolygon(0, Point{math.NaN(), 0}), ErrNonFinite},
		{"Inf", NewPolygon(0, Point{0, 0}, Point{0, math.Inf(1)}), ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.polygon.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
