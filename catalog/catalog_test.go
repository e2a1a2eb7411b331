package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sent-hil/plos-articles/article"
	"github.com/sent-hil/plos-articles/config"
)

type fakeSource struct {
	mu       sync.Mutex
	articles []article.Article
	err      error
	fetches  int
	searches []string
}

func (f *fakeSource) Fetch(ctx context.Context) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[:1], nil
}

// gatedSource holds its first Fetch until release is closed. That fetch
// returns the list as it was when the call started.
type gatedSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSource(articles []article.Article) *gatedSource {
	return &gatedSource{
		fakeSource: &fakeSource{articles: articles},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (g *gatedSource) Fetch(ctx context.Context) ([]article.Article, error) {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return g.fakeSource.Fetch(ctx)
	}

	g.mu.Lock()
	articles := g.articles
	g.mu.Unlock()
	close(g.started)

	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	g.fetches++
	g.mu.Unlock()
	return articles, nil
}

func testArticles() []article.Article {
	return []article.Article{
		{ID: "10.1371/journal.pone.0000001", Title: "Bird migration", Authors: []string{"Jane Doe"}},
		{ID: "10.1371/journal.pone.0000002", Title: "Soil microbes", Authors: []string{"Raj Patel"}},
	}
}

func newCatalog(source Source, mode string) *Catalog {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), source, mode)
}

func TestInitialStateIsLoading(t *testing.T) {
	c := newCatalog(&fakeSource{}, config.SearchModeLocal)
	assert.Equal(t, StateLoading, c.Snapshot().State)
}

func TestLoad(t *testing.T) {
	source := &fakeSource{articles: testArticles()}
	c := newCatalog(source, config.SearchModeLocal)

	snap, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, snap.State)
	assert.Len(t, snap.Articles, 2)
	assert.Equal(t, snap, c.Snapshot())
}

func TestLoadEmpty(t *testing.T) {
	c := newCatalog(&fakeSource{articles: []article.Article{}}, config.SearchModeLocal)

	snap, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, snap.State)
}

func TestLoadError(t *testing.T) {
	boom := errors.New("boom")
	c := newCatalog(&fakeSource{err: boom}, config.SearchModeLocal)

	snap, err := c.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, snap.State)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Empty(t, snap.Articles)
}

func TestLocalSearch(t *testing.T) {
	source := &fakeSource{articles: testArticles()}
	c := newCatalog(source, config.SearchModeLocal)

	snap, err := c.Search(context.Background(), "patel")
	require.NoError(t, err)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "10.1371/journal.pone.0000002", snap.Articles[0].ID)
	assert.Equal(t, "patel", snap.Query)

	snap, err = c.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 2)

	snap, err = c.Search(context.Background(), "volcano")
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, snap.State)

	// the full list is fetched once and filtered afterwards
	assert.Equal(t, 1, source.fetches)
	assert.Empty(t, source.searches)
}

func TestRemoteSearch(t *testing.T) {
	source := &fakeSource{articles: testArticles()}
	c := newCatalog(source, config.SearchModeRemote)

	snap, err := c.Search(context.Background(), "  birds ")
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 1)
	assert.Equal(t, []string{"birds"}, source.searches)
	assert.Equal(t, 0, source.fetches)

	snap, err = c.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 2)
	assert.Equal(t, 1, source.fetches)
}

func TestRefreshRefetches(t *testing.T) {
	source := &fakeSource{articles: testArticles()}
	c := newCatalog(source, config.SearchModeLocal)

	_, err := c.Search(context.Background(), "")
	require.NoError(t, err)

	source.mu.Lock()
	source.articles = testArticles()[:1]
	source.mu.Unlock()

	snap, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 1)
	assert.Equal(t, 2, source.fetches)
}

func TestSharedFetchSurvivesCallerCancel(t *testing.T) {
	source := newGatedSource(testArticles())
	c := newCatalog(source, config.SearchModeLocal)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Search(ctxA, "")
		errA <- err
	}()

	<-source.started
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)
	assert.Equal(t, StateLoading, c.Snapshot().State, "a caller leaving must not mark the list as failed")

	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := c.Search(context.Background(), "")
		done <- result{snap, err}
	}()

	time.Sleep(20 * time.Millisecond)
	close(source.release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, StateLoaded, res.snap.State)
	assert.Len(t, res.snap.Articles, 2)
	assert.Equal(t, 1, source.fetches)
}

func TestRefreshIgnoresStaleFetch(t *testing.T) {
	source := newGatedSource(testArticles())
	c := newCatalog(source, config.SearchModeLocal)

	loaded := make(chan struct{})
	go func() {
		c.Load(context.Background())
		close(loaded)
	}()
	<-source.started

	source.mu.Lock()
	source.articles = testArticles()[:1]
	source.mu.Unlock()

	snap, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 1)

	close(source.release)
	<-loaded

	snap, err = c.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 1, "the list fetched before the refresh must not replace the cache")
	assert.Equal(t, 2, source.fetches)
}

func TestStateNames(t *testing.T) {
	tests := map[State]string{
		StateLoading: "loading",
		StateLoaded:  "loaded",
		StateError:   "error",
		StateEmpty:   "empty",
		State(42):    "unknown",
	}
	for state, name := range tests {
		text, err := state.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))
	}
}
