package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/sent-hil/plos-articles/article"
)

const fontFamily = "Helvetica"

// pdfCanvas draws on an fpdf document using the core Helvetica font.
// Core fonts are single-byte cp1252, so text is translated on the way in
// and carried as one rune per cp1252 byte until it is drawn.
type pdfCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func newPDFCanvas(pdf *fpdf.Fpdf) *pdfCanvas {
	return &pdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *pdfCanvas) AddPage() {
	p.pdf.AddPage()
}

func (p *pdfCanvas) SetFont(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

func (p *pdfCanvas) SplitText(text string, width float64) []string {
	encoded := p.translate(strings.ReplaceAll(text, "\n", " "))

	runes := make([]rune, len(encoded))
	for i := 0; i < len(encoded); i++ {
		runes[i] = rune(encoded[i])
	}

	lines := p.pdf.SplitText(string(runes), width)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (p *pdfCanvas) Text(x, y float64, line string) {
	raw := make([]byte, 0, len(line))
	for _, r := range line {
		raw = append(raw, byte(r))
	}
	p.pdf.Text(x, y, string(raw))
}

// WritePDF renders articles as an A4 PDF report into w.
func WritePDF(w io.Writer, articles []article.Article, opts Options) error {
	const op = "report.WritePDF"

	layout := DefaultLayout()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(layout.MarginLeft, layout.MarginTop, layout.MarginLeft)
	pdf.SetAutoPageBreak(false, layout.MarginBottom)
	pdf.SetCreator("plos-articles", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if !opts.Generated.IsZero() {
		pdf.SetCreationDate(opts.Generated)
	}

	pdf.SetHeaderFunc(func() {
		label := fmt.Sprintf("Page %d", pdf.PageNo())
		pdf.SetFont(fontFamily, "", 8)
		pdf.Text(layout.PageWidth-layout.MarginLeft-pdf.GetStringWidth(label), layout.MarginTop/2, label)
	})

	pages := Render(newPDFCanvas(pdf), layout, articles, opts)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%s: %d pages: %w", op, pages, err)
	}
	return nil
}
