// Package report exports a list of articles as a PDF or Markdown document.
package report

import (
	"fmt"
	"time"

	"github.com/sent-hil/plos-articles/article"
)

// Canvas is the drawing surface the report is laid out on. Text only
// receives lines previously returned by SplitText.
type Canvas interface {
	AddPage()
	SetFont(style string, size float64)
	SplitText(text string, width float64) []string
	Text(x, y float64, line string)
}

// Layout is the page geometry, in millimetres, with y growing downwards.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginBottom float64
	LineHeight   float64
	ArticleGap   float64
	FontSize     float64
}

// DefaultLayout is A4 portrait with 12pt text on 7mm lines.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		MarginLeft:   10,
		MarginTop:    10,
		MarginBottom: 10,
		LineHeight:   7,
		ArticleGap:   5,
		FontSize:     12,
	}
}

// BottomLimit is the top of the bottom margin; no ink goes below it.
func (l Layout) BottomLimit() float64 {
	return l.PageHeight - l.MarginBottom
}

func (l Layout) wrapWidth() float64 {
	return l.PageWidth - 2*l.MarginLeft
}

// Options describe the report header.
type Options struct {
	Title     string
	Generated time.Time
	FontSize  float64
}

const (
	ptToMM = 25.4 / 72

	// leading is the line pitch as a multiple of the font size. At 12pt it
	// stays under the 7mm default line height.
	leading = 1.65

	// descender is how far Helvetica glyphs reach below the baseline, in em.
	descender = 0.21
)

// descent is the depth below the baseline of text set at size points, in mm.
func descent(size float64) float64 {
	return size * ptToMM * descender
}

type cursor struct {
	canvas Canvas
	layout Layout
	size   float64
	y      float64
	pages  int
}

func (c *cursor) newPage() {
	c.canvas.AddPage()
	c.pages++
	c.y = c.layout.MarginTop
}

func (c *cursor) setFont(style string, size float64) {
	c.canvas.SetFont(style, size)
	c.size = size
}

// step is the distance between baselines for the current font, never less
// than the layout's line height.
func (c *cursor) step() float64 {
	return max(c.layout.LineHeight, c.size*ptToMM*leading)
}

// fits reports whether a line with its baseline at y keeps its descenders
// above the bottom margin.
func (c *cursor) fits(y float64) bool {
	return y+descent(c.size) <= c.layout.BottomLimit()
}

// lines draws already wrapped lines, breaking the page before any line
// that would reach into the bottom margin.
func (c *cursor) lines(lines []string) {
	for _, line := range lines {
		if !c.fits(c.y) {
			c.newPage()
		}
		c.canvas.Text(c.layout.MarginLeft, c.y, line)
		c.y += c.step()
	}
}

// keepTogether starts a new page when a block of n lines does not fit the
// rest of the current one but would fit an empty page.
func (c *cursor) keepTogether(n int) {
	if c.y == c.layout.MarginTop {
		return
	}
	height := float64(n-1) * c.step()
	if !c.fits(c.y+height) && c.fits(c.layout.MarginTop+height) {
		c.newPage()
	}
}

func (c *cursor) wrap(text string) []string {
	return c.canvas.SplitText(text, c.layout.wrapWidth())
}

// Render lays articles out on canvas and returns the number of pages used.
func Render(canvas Canvas, layout Layout, articles []article.Article, opts Options) int {
	if opts.FontSize > 0 {
		layout.FontSize = opts.FontSize
	}

	c := &cursor{canvas: canvas, layout: layout}
	c.setFont("", layout.FontSize)
	c.newPage()

	if opts.Title != "" {
		c.setFont("B", layout.FontSize+4)
		c.lines(c.wrap(opts.Title))
		c.setFont("", max(layout.FontSize-2, 1))
		summary := fmt.Sprintf("%d articles", len(articles))
		if !opts.Generated.IsZero() {
			summary = fmt.Sprintf("Generated %s - %s", opts.Generated.Format("02-01-2006 15:04"), summary)
		}
		c.lines(c.wrap(summary))
		c.setFont("", layout.FontSize)
		c.y += layout.ArticleGap
	}

	if len(articles) == 0 {
		c.lines(c.wrap("No articles to report."))
		return c.pages
	}

	for i, a := range articles {
		var block []string
		for _, field := range articleFields(i, a) {
			block = append(block, c.wrap(field)...)
		}

		c.keepTogether(len(block))
		c.lines(block)
		c.y += layout.ArticleGap
	}

	return c.pages
}

func articleFields(i int, a article.Article) []string {
	title := a.PlainTitle()
	if title == "" {
		title = article.NotAvailable
	}
	id := a.ID
	if id == "" {
		id = article.NotAvailable
	}

	return []string{
		fmt.Sprintf("Article %d", i+1),
		"Title: " + title,
		"Date: " + a.Date(),
		"Authors: " + a.AuthorList(),
		"DOI: " + id,
	}
}
