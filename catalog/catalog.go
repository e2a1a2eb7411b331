// Package catalog holds the currently loaded list of articles and the
// state the table is rendered from.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sent-hil/plos-articles/article"
	"github.com/sent-hil/plos-articles/config"
	"github.com/sent-hil/plos-articles/internal/lib/logger/sl"
	"github.com/sent-hil/plos-articles/metrics"
)

type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Source is the upstream the catalog reads from.
type Source interface {
	Fetch(ctx context.Context) ([]article.Article, error)
	Search(ctx context.Context, query string) ([]article.Article, error)
}

// Snapshot is an immutable view of the catalog.
type Snapshot struct {
	Articles []article.Article
	Query    string
	State    State
	Err      error
}

// Catalog keeps the full list from the last fetch and the current list
// from the last search. Both are replaced wholesale, never mutated.
type Catalog struct {
	source Source
	mode   string
	log    *slog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	all     []article.Article
	loaded  bool
	gen     uint64
	current Snapshot
}

func New(log *slog.Logger, source Source, searchMode string) *Catalog {
	return &Catalog{
		source:  source,
		mode:    searchMode,
		log:     log.With(slog.String("component", "catalog")),
		current: Snapshot{State: StateLoading},
	}
}

// Load fetches the full list, replacing whatever was loaded before.
func (c *Catalog) Load(ctx context.Context) (Snapshot, error) {
	const op = "catalog.Load"

	articles, err := c.fetchAll(ctx)
	if err != nil {
		return c.fail(ctx, "", fmt.Errorf("%s: %w", op, err)), err
	}
	return c.publish("", articles), nil
}

// Refresh drops the cached list and loads it again. A fetch still in
// flight from before the refresh is neither joined nor allowed to cache
// its result.
func (c *Catalog) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.all = nil
	c.loaded = false
	c.gen++
	c.mu.Unlock()

	return c.Load(ctx)
}

// Search makes the articles matching query the current list. In local mode
// the full list is filtered in process; in remote mode the query is sent
// to the API. A blank query yields the full list in both modes.
func (c *Catalog) Search(ctx context.Context, query string) (Snapshot, error) {
	const op = "catalog.Search"

	query = strings.TrimSpace(query)

	if c.mode == config.SearchModeRemote && query != "" {
		articles, _, err := c.shared(ctx, "search:"+query, func(ctx context.Context) ([]article.Article, error) {
			return c.source.Search(ctx, query)
		})
		if err != nil {
			return c.fail(ctx, query, fmt.Errorf("%s: %w", op, err)), err
		}
		return c.publish(query, articles), nil
	}

	all, err := c.ensureLoaded(ctx)
	if err != nil {
		return c.fail(ctx, query, fmt.Errorf("%s: %w", op, err)), err
	}
	return c.publish(query, article.Filter(all, query)), nil
}

// Snapshot returns the current list and state.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Catalog) ensureLoaded(ctx context.Context) ([]article.Article, error) {
	c.mu.RLock()
	all, loaded := c.all, c.loaded
	c.mu.RUnlock()

	if loaded {
		return all, nil
	}
	return c.fetchAll(ctx)
}

func (c *Catalog) fetchAll(ctx context.Context) ([]article.Article, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	articles, shared, err := c.shared(ctx, "fetch:"+strconv.FormatUint(gen, 10), func(ctx context.Context) ([]article.Article, error) {
		articles, err := c.source.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.all = articles
			c.loaded = true
		}
		c.mu.Unlock()

		return articles, nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("full list fetched", slog.Bool("shared", shared))
	return articles, nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller going away does not fail
// the others; each caller still stops waiting when its own ctx is done.
// The upstream client's timeout bounds the detached call.
func (c *Catalog) shared(ctx context.Context, key string, fn func(context.Context) ([]article.Article, error)) ([]article.Article, bool, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.([]article.Article), res.Shared, nil
	}
}

func (c *Catalog) publish(query string, articles []article.Article) Snapshot {
	state := StateLoaded
	if len(articles) == 0 {
		state = StateEmpty
	}

	snap := Snapshot{Articles: articles, Query: query, State: state}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	metrics.SetArticlesLoaded(len(articles))
	c.log.Info("articles ready", slog.String("query", query), slog.Int("count", len(articles)), slog.String("state", state.String()))

	return snap
}

// fail records err as the current state, unless the failure is only the
// caller giving up: then the current snapshot is left alone.
func (c *Catalog) fail(ctx context.Context, query string, err error) Snapshot {
	if ctx.Err() != nil {
		c.log.Debug("caller gone before articles were ready", slog.String("query", query), sl.Err(err))
		return c.Snapshot()
	}

	snap := Snapshot{Query: query, State: StateError, Err: err}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	metrics.SetArticlesLoaded(0)
	c.log.Error("failed to load articles", slog.String("query", query), sl.Err(err))

	return snap
}
