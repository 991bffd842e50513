package polyorder

import (
	"github.com/tsawler/polyorder/format"
	"github.com/tsawler/polyorder/layout"
)

// SortOptions holds configuration for ordering.
type SortOptions struct {
	direction      layout.ReadingDirection
	thresholdRatio float64

	// Forced input format; Unknown means detect
	inputFormat format.Format

	// Keep only these classes (nil keeps all)
	classes []int
}

// defaultOptions returns the default sort options.
func defaultOptions() SortOptions {
	return SortOptions{
		direction:      layout.RightToLeft,
		thresholdRatio: layout.DefaultRowConfig().ThresholdRatio,
		inputFormat:    format.Unknown,
		classes:        nil,
	}
}

// clone creates a deep copy of SortOptions.
func (o SortOptions) clone() SortOptions {
	newOpts := o
	if o.classes != nil {
		newOpts.classes = make([]int, len(o.classes))
		copy(newOpts.classes, o.classes)
	}
	return newOpts
}

// readingOrderConfig translates the options for the layout package.
func (o SortOptions) readingOrderConfig() layout.ReadingOrderConfig {
	return layout.ReadingOrderConfig{
		Direction: o.direction,
		RowConfig: layout.RowConfig{ThresholdRatio: o.thresholdRatio},
	}
}
