package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sent-hil/plos-articles/article"
)

func TestWritePDF(t *testing.T) {
	articles := makeArticles(30)
	articles[0].Title = "Évolution of <i>Homo sapiens</i> – a review"
	articles[1].Authors = []string{"Zoë Müller", "Paweł Nowak"}

	var buf bytes.Buffer
	err := WritePDF(&buf, articles, Options{
		Title:     "PLOS Articles Report",
		Generated: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		FontSize:  12,
	})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestWritePDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, []article.Article{}, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
