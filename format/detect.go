// Package format detects which encoding a detection file uses.
package format

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported detection encoding.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// YOLO indicates coordinate text: one "class x1 y1 x2 y2 ..." line per polygon.
	YOLO
	// JSON indicates a predictions document with class_id and points.
	JSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case YOLO:
		return "YOLO"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case YOLO:
		return ".txt"
	case JSON:
		return ".json"
	default:
		return ""
	}
}

// Parse maps a user-supplied format name ("yolo", "txt", "json") to a Format.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yolo", "txt", "text":
		return YOLO
	case "json":
		return JSON
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return YOLO
	case ".json":
		return JSON
	default:
		return Unknown
	}
}

// DetectFromMagic inspects the first byte after whitespace and any UTF-8 BOM.
// A '{' means JSON; a digit or sign starts a coordinate-text line.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	if start >= len(data) {
		return Unknown
	}

	switch c := data[start]; {
	case c == '{':
		return JSON
	case c >= '0' && c <= '9', c == '-', c == '+':
		return YOLO
	default:
		return Unknown
	}
}

// DetectFromReader peeks at r without consuming it and detects the format
// from content. The returned reader must be used in place of r.
func DetectFromReader(r io.Reader) (Format, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	magic, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Unknown, br, err
	}
	return DetectFromMagic(magic), br, nil
}

// DetectFile combines extension and content detection: the extension wins
// when it is known, otherwise the content decides.
func DetectFile(filename string, data []byte) Format {
	if f := Detect(filename); f != Unknown {
		return f
	}
	return DetectFromMagic(data)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
