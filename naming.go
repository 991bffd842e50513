package polyorder

import (
	"path/filepath"
	"strings"

	"github.com/tsawler/polyorder/format"
)

// OutputName returns the default output path for a sorted copy of input:
// "page.txt" becomes "page_output.txt" and "page.json" becomes
// "page-sorted.json". The directory of input is kept.
func OutputName(input string, f format.Format) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)

	switch f {
	case format.JSON:
		return base + "-sorted.json"
	case format.YOLO:
		return base + "_output.txt"
	default:
		if ext == "" {
			ext = ".out"
		}
		return base + "_output" + ext
	}
}
