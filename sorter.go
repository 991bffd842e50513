package polyorder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tsawler/polyorder/format"
	"github.com/tsawler/polyorder/layout"
	"github.com/tsawler/polyorder/model"
	"github.com/tsawler/polyorder/predictions"
	"github.com/tsawler/polyorder/yolo"
)

// ErrUnsupportedFormat is returned when the input or output format cannot be
// determined or is not handled.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Sorter provides a fluent interface for ordering polygons.
// Each configuration method returns a new Sorter instance, making it
// safe for concurrent use and allowing method chaining. Terminal
// operations may also run concurrently on one Sorter: the input is read
// once and shared.
type Sorter struct {
	// mu guards the loaded state below
	mu sync.Mutex

	// Source (one of filename, source or polygons)
	filename string
	source   io.Reader
	polygons []*model.Polygon

	// Format the polygons were read in
	format format.Format
	loaded bool

	// Configuration
	options SortOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Sorter with a deep copy of options.
func (s *Sorter) clone() *Sorter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Sorter{
		filename: s.filename,
		source:   s.source,
		polygons: s.polygons,
		format:   s.format,
		loaded:   s.loaded,
		options:  s.options.clone(),
		err:      s.err,
	}
}

// ============================================================================
// Configuration Methods (return new Sorter instance)
// ============================================================================

// RightToLeft orders polygons inside each row by descending center X.
// This is the default.
func (s *Sorter) RightToLeft() *Sorter {
	return s.Direction(layout.RightToLeft)
}

// LeftToRight orders polygons inside each row by ascending center X.
//
// Example:
//
//	ordered, err := polyorder.Open("latin.txt").LeftToRight().Polygons()
func (s *Sorter) LeftToRight() *Sorter {
	return s.Direction(layout.LeftToRight)
}

// Direction sets the within-row direction.
func (s *Sorter) Direction(d layout.ReadingDirection) *Sorter {
	newSorter := s.clone()
	newSorter.options.direction = d
	return newSorter
}

// ThresholdRatio sets the fraction of the average polygon height that two
// consecutive center Y values may differ by and still share a row.
// The ratio must be finite and non-negative; an invalid ratio is reported
// by the terminal operation.
func (s *Sorter) ThresholdRatio(ratio float64) *Sorter {
	newSorter := s.clone()
	newSorter.options.thresholdRatio = ratio
	return newSorter
}

// Format forces the input format instead of detecting it.
func (s *Sorter) Format(f format.Format) *Sorter {
	newSorter := s.clone()
	newSorter.options.inputFormat = f
	return newSorter
}

// OnlyClasses keeps polygons of the given classes and drops the rest before
// ordering. Multiple calls are cumulative.
//
// Example:
//
//	ordered, err := polyorder.Open("page.txt").OnlyClasses(0, 1, 2).Polygons()
func (s *Sorter) OnlyClasses(classes ...int) *Sorter {
	newSorter := s.clone()
	newSorter.options.classes = append(newSorter.options.classes, classes...)
	return newSorter
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Result loads the polygons and returns the full reading-order result: the
// ordered sequence, the rows it was built from and the threshold used.
func (s *Sorter) Result() (*layout.ReadingOrderResult, error) {
	if s.err != nil {
		return nil, s.err
	}

	polygons, err := s.load()
	if err != nil {
		return nil, err
	}

	detector := layout.NewReadingOrderDetectorWithConfig(s.options.readingOrderConfig())
	return detector.Detect(s.filter(polygons))
}

// Polygons returns the polygons in reading order.
func (s *Sorter) Polygons() ([]*model.Polygon, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	return result.Polygons, nil
}

// Rows returns the ordered rows, top to bottom.
//
// Example:
//
//	rows, err := polyorder.Open("page.txt").Rows()
//	for _, row := range rows {
//	    fmt.Printf("row %d: %d polygons\n", row.Index, row.Len())
//	}
func (s *Sorter) Rows() ([]layout.Row, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// Classes returns the class index of each polygon in reading order.
func (s *Sorter) Classes() ([]int, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	return result.Classes(), nil
}

// Write orders the polygons and encodes them to w in format f. Unknown
// writes in the format the input was read in.
func (s *Sorter) Write(w io.Writer, f format.Format) error {
	ordered, err := s.Polygons()
	if err != nil {
		return err
	}

	if f == format.Unknown {
		f = s.InputFormat()
	}
	return encode(w, ordered, f)
}

// WriteFile orders the polygons and writes them to path. The output format
// follows the extension of path, then the input format.
func (s *Sorter) WriteFile(path string) error {
	ordered, err := s.Polygons()
	if err != nil {
		return err
	}
	return SaveFile(path, ordered, s.InputFormat())
}

// SaveFile writes polygons to path in the order given. The format follows
// the extension of path; fallback is used when the extension is unknown.
func SaveFile(path string, polygons []*model.Polygon, fallback format.Format) error {
	f := format.Detect(path)
	if f == format.Unknown {
		f = fallback
	}

	switch f {
	case format.YOLO:
		return yolo.WriteFile(path, polygons, yolo.DefaultWriteConfig())
	case format.JSON:
		return predictions.WriteFile(path, polygons)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// InputFormat returns the format the polygons were read in. It is Unknown
// until a terminal operation has run, and for in-memory sources.
func (s *Sorter) InputFormat() format.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// load reads the polygons from the configured source once.
func (s *Sorter) load() ([]*model.Polygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.polygons, nil
	}

	var (
		r    io.Reader
		f    = s.options.inputFormat
		name = s.filename
	)
	switch {
	case s.filename != "":
		data, err := os.ReadFile(s.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(s.filename), err)
		}
		if f == format.Unknown {
			f = format.DetectFile(s.filename, data)
		}
		r = bytes.NewReader(data)

	case s.source != nil:
		r = s.source
		name = "input"
		if f == format.Unknown {
			var err error
			f, r, err = format.DetectFromReader(s.source)
			if err != nil {
				return nil, fmt.Errorf("failed to read input: %w", err)
			}
		}

	default:
		return nil, fmt.Errorf("no input specified")
	}

	polygons, err := decode(r, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	s.polygons = polygons
	s.format = f
	s.loaded = true
	return polygons, nil
}

// filter applies the class selection. The input slice is not modified.
func (s *Sorter) filter(polygons []*model.Polygon) []*model.Polygon {
	if s.options.classes == nil {
		return polygons
	}

	keep := make(map[int]bool, len(s.options.classes))
	for _, c := range s.options.classes {
		keep[c] = true
	}

	var out []*model.Polygon
	for _, p := range polygons {
		if p != nil && keep[p.Class] {
			out = append(out, p)
		}
	}
	return out
}

func decode(r io.Reader, f format.Format) ([]*model.Polygon, error) {
	switch f {
	case format.YOLO:
		return yolo.Read(r)
	case format.JSON:
		return predictions.Read(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func encode(w io.Writer, polygons []*model.Polygon, f format.Format) error {
	switch f {
	case format.YOLO:
		return yolo.Write(w, polygons)
	case format.JSON:
		return predictions.Write(w, polygons)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
