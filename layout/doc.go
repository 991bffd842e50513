// Package layout orders polygon detections into reading order.
//
// Polygons are clustered into horizontal rows by the vertical position of
// their bounding box centers, each row is sorted along the reading direction,
// and the rows are concatenated top to bottom.
//
// # Reading Order
//
// The simplest entry point orders polygons right to left within rows:
//
//	ordered, err := layout.SortReadingOrder(polygons)
//	if errors.Is(err, layout.ErrEmptyInput) {
//	    // nothing to order
//	}
//
// The [ReadingOrderDetector] exposes the rows and the statistics used:
//
//	detector := layout.NewReadingOrderDetector()
//	result, err := detector.Detect(polygons)
//	for _, row := range result.Rows {
//	    fmt.Println(row.Index, len(row.Polygons))
//	}
//
// # Row Clustering
//
// The [RowDetector] sorts polygons by ascending center Y (stable, so ties keep
// their input order) and walks them once. Whenever the center Y of a polygon
// is more than the threshold away from the previously placed polygon, a new
// row starts. The threshold is half the mean polygon height over the whole
// input; a gap exactly equal to the threshold keeps the polygon in the
// current row.
//
// Because the threshold comes from the global mean, pages mixing very small
// and very large detections may split or merge rows unexpectedly. The walk is
// greedy, so results for chains of polygons near the threshold depend on the
// traversal order.
//
// # Configuration
//
//	config := layout.DefaultReadingOrderConfig()
//	config.Direction = layout.LeftToRight
//	config.RowConfig.ThresholdRatio = 0.4
//	detector := layout.NewReadingOrderDetectorWithConfig(config)
//
// # Degenerate Polygons
//
// Single-vertex and zero-area polygons are accepted. Their heights and widths
// are zero and count as such in the averages; a set of only such polygons has
// a zero threshold, so only identical center Y values share a row.
//
// All functions are pure: they never modify their input and can be called
// concurrently.
package layout
