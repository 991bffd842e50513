// Package polyorder provides a fluent API for putting detected polygons
// (glyphs, characters, words) into reading order.
//
// Basic usage:
//
//	ordered, err := polyorder.Open("page.txt").Polygons()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	result, err := polyorder.Open("page.json").
//	    LeftToRight().
//	    ThresholdRatio(0.4).
//	    Result()
//
// Rows are formed top to bottom from vertical center proximity; polygons
// inside a row are ordered right to left unless LeftToRight is requested.
// For lower-level control, use the layout package directly.
package polyorder

import (
	"io"

	"github.com/tsawler/polyorder/model"
)

// Open returns a Sorter reading polygons from filename. The format is taken
// from the extension, falling back to the file content. Nothing is read
// until a terminal operation such as Polygons() runs.
//
// Example:
//
//	ordered, err := polyorder.Open("page.txt").Polygons()
func Open(filename string) *Sorter {
	return &Sorter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns a Sorter reading polygons from r. The format is
// detected from the content unless set with Format.
// Note: r is consumed by the first terminal operation.
func FromReader(r io.Reader) *Sorter {
	return &Sorter{
		source:  r,
		options: defaultOptions(),
	}
}

// FromPolygons returns a Sorter over polygons that are already in memory.
// Terminal operations return the same polygon pointers, reordered.
//
// Example:
//
//	ordered, err := polyorder.FromPolygons(polys).LeftToRight().Polygons()
func FromPolygons(polygons []*model.Polygon) *Sorter {
	return &Sorter{
		polygons: polygons,
		loaded:   true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	ordered := polyorder.Must(polyorder.Open("page.txt").Polygons())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
