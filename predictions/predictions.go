// Package predictions reads and writes polygon detections in the
// predictions JSON layout produced by segmentation model servers:
//
//	{
//	    "predictions": [
//	        {"class_id": 3, "points": [{"x": 10, "y": 12}, {"x": 30, "y": 12}]}
//	    ]
//	}
//
// Fields other than class_id and points are accepted and ignored.
package predictions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/polyorder/model"
)

// ErrMissingPredictions is returned when the document has no "predictions" key.
var ErrMissingPredictions = errors.New(`missing "predictions" array`)

// Point is one vertex of a prediction outline
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Prediction is one detected polygon
type Prediction struct {
	ClassID int     `json:"class_id"`
	Points  []Point `json:"points"`
}

// Document is the top-level predictions object
type Document struct {
	Predictions []Prediction `json:"predictions"`
}

// Polygon converts the prediction to a model polygon.
func (p Prediction) Polygon() *model.Polygon {
	points := make([]model.Point, len(p.Points))
	for i, pt := range p.Points {
		points[i] = model.Point{X: pt.X, Y: pt.Y}
	}
	return model.NewPolygon(p.ClassID, points...)
}

// Polygons converts every prediction, preserving document order.
func (d Document) Polygons() []*model.Polygon {
	polygons := make([]*model.Polygon, len(d.Predictions))
	for i, p := range d.Predictions {
		polygons[i] = p.Polygon()
	}
	return polygons
}

// FromPolygons builds a document listing polygons in the given order.
func FromPolygons(polygons []*model.Polygon) Document {
	doc := Document{Predictions: make([]Prediction, len(polygons))}
	for i, p := range polygons {
		points := make([]Point, len(p.Points))
		for j, pt := range p.Points {
			points[j] = Point{X: pt.X, Y: pt.Y}
		}
		doc.Predictions[i] = Prediction{ClassID: p.Class, Points: points}
	}
	return doc
}

// Decode reads one predictions document from r.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode predictions: %w", err)
	}
	if doc.Predictions == nil {
		return Document{}, ErrMissingPredictions
	}
	return doc, nil
}

// Read decodes a predictions document and returns its polygons.
func Read(r io.Reader) ([]*model.Polygon, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return doc.Polygons(), nil
}

// ReadFile reads the predictions file at path.
func ReadFile(path string) ([]*model.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes polygons as an indented predictions document.
func Write(w io.Writer, polygons []*model.Polygon) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(FromPolygons(polygons))
}

// WriteFile writes polygons to path, replacing any existing file.
func WriteFile(path string, polygons []*model.Polygon) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, polygons); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
