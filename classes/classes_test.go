package classes

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	input := "\ufeff# glyph classes\n" +
		"0: \"alef\"\n" +
		"\n" +
		"  1 :   bet  \n" +
		"{\n" +
		"12: \"gimel\",\n" +
		"}\n"

	list, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if list.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", list.Len())
	}

	tests := []struct {
		class int
		want  string
	}{
		{0, "alef"},
		{1, "bet"},
		{12, "gimel"},
		{7, "class 7"},
	}
	for _, tt := range tests {
		if got := list.Name(tt.class); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.class, got, tt.want)
		}
	}

	if got := list.Indices(); !reflect.DeepEqual(got, []int{0, 1, 12}) {
		t.Errorf("Indices() = %v, want [0 1 12]", got)
	}
}

func TestRead_NormalizesNFC(t *testing.T) {
	// "e" followed by a combining acute accent
	list, err := Read(strings.NewReader("3: \"e\u0301\"\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got, _ := list.Lookup(3); got != "\u00e9" {
		t.Errorf("Lookup(3) = %q, want precomposed %q", got, "\u00e9")
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"no colon", "0 alef\n", "line 1"},
		{"bad index", "a: \"alef\"\n", "invalid index"},
		{"negative index", "-1: \"x\"\n", "negative index"},
		{"duplicate", "0: a\n\n0: b\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedEntry) {
				t.Fatalf("Read() error = %v, want ErrMalformedEntry", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNilList(t *testing.T) {
	var list *List

	if list.Len() != 0 {
		t.Errorf("Len() = %d, want 0", list.Len())
	}
	if got := list.Name(4); got != "class 4" {
		t.Errorf("Name(4) = %q, want %q", got, "class 4")
	}
	if _, ok := list.Lookup(4); ok {
		t.Error("Lookup on nil list reported a name")
	}
}

func TestNames(t *testing.T) {
	list := New(map[int]string{0: "a", 2: "c"})

	got := list.Names([]int{2, 1, 0, 2})
	want := []string{"c", "class 1", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	if err := os.WriteFile(path, []byte("0: \"one\"\n1: \"two\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if list.Name(1) != "two" {
		t.Errorf("Name(1) = %q, want %q", list.Name(1), "two")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "none.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}
