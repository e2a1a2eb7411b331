package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sent-hil/plos-articles/article"
)

type drawn struct {
	page int
	x, y float64
	size float64
	text string
}

// recordingCanvas wraps text at roughly 2mm per character and records every draw.
type recordingCanvas struct {
	page  int
	size  float64
	texts []drawn
}

func (r *recordingCanvas) AddPage()                     { r.page++ }
func (r *recordingCanvas) SetFont(_ string, s float64) { r.size = s }
func (r *recordingCanvas) Text(x, y float64, s string) {
	r.texts = append(r.texts, drawn{r.page, x, y, r.size, s})
}

func (r *recordingCanvas) SplitText(text string, width float64) []string {
	max := int(width / 2)
	runes := []rune(text)
	var lines []string
	for len(runes) > max {
		lines = append(lines, string(runes[:max]))
		runes = runes[max:]
	}
	return append(lines, string(runes))
}

func makeArticles(n int) []article.Article {
	articles := make([]article.Article, n)
	for i := range articles {
		articles[i] = article.Article{
			ID:              fmt.Sprintf("10.1371/journal.pone.%07d", i),
			Title:           fmt.Sprintf("Article number %d", i),
			PublicationDate: "2022-06-01",
			Authors:         []string{"Ana Souza", "Li Wei"},
		}
	}
	return articles
}

func TestRenderNeverDrawsBelowBottomMargin(t *testing.T) {
	layout := DefaultLayout()

	for _, n := range []int{0, 1, 7, 8, 40, 150} {
		t.Run(fmt.Sprintf("%d articles", n), func(t *testing.T) {
			canvas := &recordingCanvas{}
			pages := Render(canvas, layout, makeArticles(n), Options{Title: "Report", Generated: time.Now()})

			assert.Equal(t, canvas.page, pages)
			require.NotEmpty(t, canvas.texts)
			for _, d := range canvas.texts {
				assert.LessOrEqual(t, d.y+descent(d.size), layout.BottomLimit(), "%q on page %d", d.text, d.page)
				assert.GreaterOrEqual(t, d.y, layout.MarginTop, "%q on page %d", d.text, d.page)
				assert.Equal(t, layout.MarginLeft, d.x)
			}
		})
	}
}

func TestRenderPaginates(t *testing.T) {
	canvas := &recordingCanvas{}
	pages := Render(canvas, DefaultLayout(), makeArticles(150), Options{})

	// 150 blocks of 5 lines and a gap cannot fit on one page
	assert.Greater(t, pages, 1)

	// every page starts at the top margin
	lastPage := 0
	for _, d := range canvas.texts {
		if d.page != lastPage {
			assert.Equal(t, DefaultLayout().MarginTop, d.y, "first line of page %d", d.page)
			lastPage = d.page
		}
	}
	assert.Equal(t, pages, lastPage)
}

func TestRenderKeepsArticlesOnOnePage(t *testing.T) {
	canvas := &recordingCanvas{}
	Render(canvas, DefaultLayout(), makeArticles(60), Options{})

	pageOf := map[string]int{}
	for i, d := range canvas.texts {
		if !strings.HasPrefix(d.text, "Article ") {
			continue
		}
		for _, rest := range canvas.texts[i : i+5] {
			assert.Equal(t, d.page, rest.page, "%s split across pages", d.text)
		}
		pageOf[d.text] = d.page
	}
	assert.Len(t, pageOf, 60)
}

func TestRenderWrapsLongLines(t *testing.T) {
	long := article.Article{
		ID:    "10.1371/journal.pone.0000001",
		Title: strings.Repeat("very long title ", 40),
	}

	canvas := &recordingCanvas{}
	Render(canvas, DefaultLayout(), []article.Article{long}, Options{})

	width := int(DefaultLayout().wrapWidth() / 2)
	titleLines := 0
	for _, d := range canvas.texts {
		assert.LessOrEqual(t, len([]rune(d.text)), width)
		if strings.Contains(d.text, "very long") {
			titleLines++
		}
	}
	assert.Greater(t, titleLines, 1)
}

func TestRenderFields(t *testing.T) {
	canvas := &recordingCanvas{}
	Render(canvas, DefaultLayout(), []article.Article{
		{ID: "10.1371/journal.pmed.0000009", Title: "<b>Bold</b> claims", PublicationDate: "2018-09-03T00:00:00Z", Authors: []string{"X", "Y"}},
		{},
	}, Options{})

	var texts []string
	for _, d := range canvas.texts {
		texts = append(texts, d.text)
	}
	assert.Equal(t, []string{
		"Article 1",
		"Title: Bold claims",
		"Date: 03-09-2018",
		"Authors: X, Y",
		"DOI: 10.1371/journal.pmed.0000009",
		"Article 2",
		"Title: N/A",
		"Date: N/A",
		"Authors: N/A",
		"DOI: N/A",
	}, texts)

	// 7mm lines, 5mm gap after each article
	assert.Equal(t, 10.0, canvas.texts[0].y)
	assert.Equal(t, 38.0, canvas.texts[4].y)
	assert.Equal(t, 50.0, canvas.texts[5].y)
}

func TestRenderEmpty(t *testing.T) {
	canvas := &recordingCanvas{}
	pages := Render(canvas, DefaultLayout(), nil, Options{})

	assert.Equal(t, 1, pages)
	require.Len(t, canvas.texts, 1)
	assert.Equal(t, "No articles to report.", canvas.texts[0].text)
}

func TestRenderLargeFontDoesNotOverlap(t *testing.T) {
	layout := DefaultLayout()

	for _, size := range []float64{12, 20, 24, 36} {
		t.Run(fmt.Sprintf("%gpt", size), func(t *testing.T) {
			canvas := &recordingCanvas{}
			Render(canvas, layout, makeArticles(30), Options{Title: "Report", FontSize: size})

			for i := 1; i < len(canvas.texts); i++ {
				prev, cur := canvas.texts[i-1], canvas.texts[i]
				assert.LessOrEqual(t, cur.y+descent(cur.size), layout.BottomLimit(), "%q on page %d", cur.text, cur.page)
				if cur.page != prev.page {
					continue
				}
				// the next baseline sits at least a full line of the new text below the last one
				assert.GreaterOrEqual(t, cur.y-prev.y, cur.size*ptToMM+descent(prev.size), "%q after %q", cur.text, prev.text)
			}
		})
	}
}

func TestRenderBreaksBeforeDescendersReachMargin(t *testing.T) {
	layout := DefaultLayout()
	// baselines at 14 + 7k land exactly on the 287mm bottom limit at k = 39
	layout.MarginTop = 14

	long := article.Article{ID: "10.1371/journal.pone.0000001", Title: strings.Repeat("a", 95*50)}

	canvas := &recordingCanvas{}
	pages := Render(canvas, layout, []article.Article{long}, Options{})

	assert.Equal(t, 2, pages)
	for _, d := range canvas.texts {
		assert.NotEqual(t, layout.BottomLimit(), d.y, "baseline on the bottom limit on page %d", d.page)
		assert.LessOrEqual(t, d.y+descent(d.size), layout.BottomLimit())
	}
}
