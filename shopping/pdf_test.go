package shopping

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

func listOf(items ...LineItem) *List {
	l := newList()
	for _, item := range items {
		l.add(item)
	}
	return l
}

// lineCapacity mirrors the renderer's cursor walk: how many rows fit
// on a page, given where the cursor starts.
func lineCapacity(startY float64) int {
	_, pageH := gofpdf.New("P", "pt", "A4", "").GetPageSize()
	n := 0
	for y := startY; y <= pageH-bottomMargin; y += lineStep {
		n++
	}
	return n
}

func TestRenderEmptyList(t *testing.T) {
	rd := &Renderer{}
	pdf, err := rd.build(newList(), DefaultTitle)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := pdf.PageCount(); got != 1 {
		t.Errorf("got %d pages, want 1", got)
	}

	out, err := rd.Render(newList(), DefaultTitle)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF header")
	}
}

// The default configuration, with no font file on disk, must render the
// Cyrillic title without touching the filesystem.
func TestRenderDefaultConfigCyrillicTitle(t *testing.T) {
	rd := &Renderer{}
	out, err := rd.Render(newList(), DefaultTitle)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want, err := charmap.Windows1251.NewEncoder().String(DefaultTitle)
	if err != nil {
		t.Fatalf("encode title: %v", err)
	}
	if !bytes.Contains(out, []byte(want)) {
		t.Errorf("rendered document does not contain the transcoded title")
	}
}

func TestRenderSingleLine(t *testing.T) {
	rd := &Renderer{}
	out, err := rd.Render(listOf(LineItem{Name: "Flour", Unit: "g", Amount: 200}), DefaultTitle)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Compression is off, the text operators are visible in the stream.
	if !bytes.Contains(out, []byte("Flour - 200 g")) {
		t.Errorf("rendered document does not contain the ingredient row")
	}
}

func TestRenderReproducible(t *testing.T) {
	rd := &Renderer{}
	list := listOf(
		LineItem{Name: "Sugar", Unit: "g", Amount: 150},
		LineItem{Name: "Milk", Unit: "ml", Amount: 300},
	)

	first, err := rd.Render(list, DefaultTitle)
	if err != nil {
		t.Fatal(err)
	}
	second, err := rd.Render(list, DefaultTitle)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two renders of the same list differ")
	}
}

func TestRenderPagination(t *testing.T) {
	firstPage := lineCapacity(topMargin + titleGap)
	restPage := lineCapacity(topMargin)

	tests := []struct {
		name      string
		lines     int
		wantPages int
	}{
		{"fits exactly", firstPage, 1},
		{"one over", firstPage + 1, 2},
		{"two full pages", firstPage + restPage, 2},
		{"three pages", firstPage + restPage + 1, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list := newList()
			for i := 0; i < tc.lines; i++ {
				list.add(LineItem{Name: fmt.Sprintf("Item%03d", i), Unit: "g", Amount: 1})
			}

			rd := &Renderer{}
			pdf, err := rd.build(list, DefaultTitle)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := pdf.PageCount(); got != tc.wantPages {
				t.Errorf("%d lines: got %d pages, want %d", tc.lines, got, tc.wantPages)
			}

			out, err := rd.Render(list, DefaultTitle)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for i := 0; i < tc.lines; i++ {
				row := []byte(fmt.Sprintf("Item%03d - 1 g", i))
				if n := bytes.Count(out, row); n != 1 {
					t.Fatalf("row %q appears %d times, want 1", row, n)
				}
			}
		})
	}
}

func TestRenderInvariantViolation(t *testing.T) {
	list := newList()
	list.add(LineItem{Name: "Ghost", Unit: "g", Amount: 0})

	rd := &Renderer{}
	_, err := rd.Render(list, DefaultTitle)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("got err %v, want ErrInvariantViolation", err)
	}
}
