// Package yolo reads and writes polygon detections in coordinate-text form.
//
// Each non-blank line holds one polygon: an integer class index followed by
// the flat vertex list, all separated by whitespace:
//
//	3 0.120000 0.080000 0.180000 0.080000 0.180000 0.140000
//
// Coordinates are usually normalized to [0,1] by the image size (see
// [Normalize]), but any unit works as long as a file is consistent.
package yolo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/polyorder/model"
)

// ErrMalformedLine is wrapped by every parse error; the message carries the
// 1-based line number.
var ErrMalformedLine = errors.New("malformed line")

// ErrInvalidImageSize is returned by Normalize for a non-positive size.
var ErrInvalidImageSize = errors.New("image width and height must be positive")

// maxLineSize bounds a single polygon line (about 40k vertices)
const maxLineSize = 1 << 20

// Read parses coordinate text. A leading UTF-8 BOM and blank lines are
// skipped. An input without polygons yields an empty slice and no error.
func Read(r io.Reader) ([]*model.Polygon, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var polygons []*model.Polygon
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		p, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedLine, err)
		}
		polygons = append(polygons, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read coordinates: %w", err)
	}

	return polygons, nil
}

// ReadFile parses the coordinate-text file at path.
func ReadFile(path string) ([]*model.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func parseFields(fields []string) (*model.Polygon, error) {
	class, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid class %q", fields[0])
	}
	if len(fields) == 1 {
		return nil, errors.New("no coordinates")
	}

	coords := make([]float64, len(fields)-1)
	for i, s := range fields[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", s)
		}
		coords[i] = v
	}

	return model.NewPolygonFromCoordinates(class, coords)
}

// WriteConfig controls number formatting when writing coordinate text
type WriteConfig struct {
	// Precision is the number of decimals per coordinate, or -1 for the
	// shortest representation that round-trips (default: -1)
	Precision int
}

// DefaultWriteConfig returns the round-trip formatting configuration
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{Precision: -1}
}

// NormalizedWriteConfig returns fixed six-decimal formatting, the usual
// layout for normalized label files
func NormalizedWriteConfig() WriteConfig {
	return WriteConfig{Precision: 6}
}

// Write writes polygons one per line using DefaultWriteConfig.
func Write(w io.Writer, polygons []*model.Polygon) error {
	return WriteWithConfig(w, polygons, DefaultWriteConfig())
}

// WriteNormalized writes polygons with fixed six-decimal coordinates.
func WriteNormalized(w io.Writer, polygons []*model.Polygon) error {
	return WriteWithConfig(w, polygons, NormalizedWriteConfig())
}

// WriteWithConfig writes polygons one per line in the given order.
func WriteWithConfig(w io.Writer, polygons []*model.Polygon, config WriteConfig) error {
	bw := bufio.NewWriter(w)
	var sb strings.Builder
	for _, p := range polygons {
		sb.Reset()
		sb.WriteString(strconv.Itoa(p.Class))
		for _, c := range p.Coordinates() {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(c, 'f', config.Precision, 64))
		}
		sb.WriteByte('\n')
		if _, err := bw.WriteString(sb.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes polygons to path, replacing any existing file.
func WriteFile(path string, polygons []*model.Polygon, config WriteConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWithConfig(f, polygons, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Normalize converts absolute pixel coordinates into image-relative ones,
// rounded to six decimals. The input polygons are not modified.
func Normalize(polygons []*model.Polygon, width, height float64) ([]*model.Polygon, error) {
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidImageSize, width, height)
	}

	out := make([]*model.Polygon, len(polygons))
	for i, p := range polygons {
		points := make([]model.Point, len(p.Points))
		for j, pt := range p.Points {
			points[j] = model.Point{
				X: round6(pt.X / width),
				Y: round6(pt.Y / height),
			}
		}
		out[i] = model.NewPolygon(p.Class, points...)
	}
	return out, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
