// Package classes reads the class-name list that maps detection class
// indices to human-readable labels.
//
// The list holds one entry per line in the form
//
//	0: "alef"
//	1: "bet"
//
// Surrounding whitespace and double quotes are trimmed from the name, and a
// trailing comma is ignored so that a dictionary literal pasted one entry per
// line also parses. Blank lines, lines starting with '#' and lone braces are
// skipped. Names are normalized to Unicode NFC.
package classes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedEntry is wrapped by every parse error.
var ErrMalformedEntry = errors.New("malformed class entry")

// List maps class indices to names.
type List struct {
	names map[int]string
}

// New builds a list from an index-to-name map. Names are NFC-normalized.
func New(names map[int]string) *List {
	l := &List{names: make(map[int]string, len(names))}
	for idx, name := range names {
		l.names[idx] = norm.NFC.String(name)
	}
	return l
}

// Read parses a class list.
func Read(r io.Reader) (*List, error) {
	l := &List{names: make(map[int]string)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line == "{" || line == "}" || strings.HasPrefix(line, "#") {
			continue
		}

		idx, name, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedEntry, err)
		}
		if _, dup := l.names[idx]; dup {
			return nil, fmt.Errorf("line %d: %w: duplicate index %d", lineNo, ErrMalformedEntry, idx)
		}
		l.names[idx] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}

	return l, nil
}

// ReadFile parses the class list at path.
func ReadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func parseEntry(line string) (int, string, error) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return 0, "", errors.New(`expected "index: name"`)
	}

	idx, err := strconv.Atoi(strings.Trim(strings.TrimSpace(key), `"`))
	if err != nil {
		return 0, "", fmt.Errorf("invalid index %q", strings.TrimSpace(key))
	}
	if idx < 0 {
		return 0, "", fmt.Errorf("negative index %d", idx)
	}

	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, ",")
	name := strings.Trim(strings.TrimSpace(value), `"`)
	return idx, norm.NFC.String(name), nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Lookup returns the name for class and whether it is listed.
func (l *List) Lookup(class int) (string, bool) {
	if l == nil {
		return "", false
	}
	name, ok := l.names[class]
	return name, ok
}

// Name returns the name for class, or "class <n>" when it is not listed.
// A nil list is valid and names every class by its index.
func (l *List) Name(class int) string {
	if name, ok := l.Lookup(class); ok {
		return name
	}
	return "class " + strconv.Itoa(class)
}

// Names maps each class in classes to its name, preserving order.
func (l *List) Names(classes []int) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = l.Name(c)
	}
	return out
}

// Indices returns the listed class indices in ascending order.
func (l *List) Indices() []int {
	if l == nil {
		return nil
	}
	out := make([]int, 0, len(l.names))
	for idx := range l.names {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
