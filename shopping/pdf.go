package shopping

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	// DefaultTitle is the heading on the first page of the document.
	DefaultTitle = "Мой список покупок"

	// Filename is the suggested attachment name for the document.
	Filename = "shoppingcart.pdf"
)

// Layout constants, in points on an A4 portrait page.
const (
	topMargin    = 20.0
	bottomMargin = 20.0
	titleGap     = 20.0
	lineStep     = 10.0
	lineX        = 10.0
	fontSize     = 11.0
)

// Renderer serializes a consolidated list into a paginated PDF. When
// FontPath names a TTF file it is embedded for full UTF-8 output;
// otherwise the built-in Helvetica is used with text transcoded to
// Windows-1251, which still covers the Cyrillic title.
type Renderer struct {
	FontPath string
}

// Render never fails on valid input; an empty list produces a single
// page containing only the title.
func (rd *Renderer) Render(list *List, title string) ([]byte, error) {
	pdf, err := rd.build(list, title)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (rd *Renderer) build(list *List, title string) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	// Fixed so identical input renders identical bytes.
	pdf.SetCreationDate(time.Unix(0, 0))

	family := "Helvetica"
	translate := func(s string) string { return s }
	if rd.FontPath != "" {
		family = "ShoppingList"
		pdf.AddUTF8Font(family, "", rd.FontPath)
	} else {
		// Core fonts are single-byte, so transcode to Windows-1251 to
		// keep the Cyrillic title. No on-disk codepage map is needed.
		enc := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())
		translate = func(s string) string {
			out, err := enc.String(s)
			if err != nil {
				return s
			}
			return out
		}
	}
	pdf.SetFont(family, "", fontSize)

	pageW, pageH := pdf.GetPageSize()
	pdf.AddPage()

	y := topMargin
	pdf.Text(pageW/2-20, y, translate(title))
	y += titleGap

	for _, line := range list.Lines() {
		if line.Total <= 0 {
			return nil, fmt.Errorf("%s: total %d: %w", line.Name, line.Total, ErrInvariantViolation)
		}
		if y > pageH-bottomMargin {
			pdf.AddPage()
			y = topMargin
		}
		pdf.Text(lineX, y, translate(fmt.Sprintf("%s - %d %s", line.Name, line.Total, line.Unit)))
		y += lineStep
	}

	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}
