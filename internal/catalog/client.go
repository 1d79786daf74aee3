package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/logger"
)

const (
	DefaultFreshness          = 5 * time.Minute
	DefaultTimeout            = 8 * time.Second
	DefaultCompareConcurrency = 4
	DefaultCompareMax         = 4

	maxPayloadBytes = 8 << 20
)

// Catalog API paths.
const (
	PathMachines   = "/v1/machines"
	PathBrands     = "/v1/brands"
	PathStatistics = "/v1/statistics"
)

// ErrTooManyIDs is returned by Compare when more ids than allowed are given.
var ErrTooManyIDs = errors.New("too many products to compare")

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // per network call, shared calls included
	Freshness  time.Duration
	Cache      Cache // defaults to a private MemoryCache
	Logger     logger.Logger

	CompareConcurrency int
	CompareMax         int

	Now func() time.Time
}

// Stats are cumulative counters since the client was built.
type Stats struct {
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
	Stale      int64  `json:"stale"`
	Shared     int64  `json:"shared"`
	Fetches    int64  `json:"fetches"`
	Failures   int64  `json:"failures"`
	Generation uint64 `json:"generation"`
}

// Client reads the remote catalog through a response cache.
//
// Identical concurrent requests share one network call. A fresh cached
// response is served without any call. All state is owned by the instance.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	timeout    time.Duration
	freshness  time.Duration
	cache      Cache
	log        logger.Logger
	now        func() time.Time

	compareConcurrency int
	compareMax         int

	// mu guards group and generation. Cache writes hold it for reading so
	// that ClearCache cannot interleave with a write from a previous generation.
	mu         sync.RWMutex
	group      *singleflight.Group
	generation uint64

	waiters atomic.Int64

	hits, misses, stale, shared, fetches, failures atomic.Int64
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog url %q", opts.BaseURL)
	}

	c := &Client{
		base:               base,
		httpClient:         opts.HTTPClient,
		timeout:            opts.Timeout,
		freshness:          opts.Freshness,
		cache:              opts.Cache,
		log:                opts.Logger,
		now:                opts.Now,
		compareConcurrency: opts.CompareConcurrency,
		compareMax:         opts.CompareMax,
		group:              &singleflight.Group{},
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.freshness <= 0 {
		c.freshness = DefaultFreshness
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.compareConcurrency <= 0 {
		c.compareConcurrency = DefaultCompareConcurrency
	}
	if c.compareMax <= 0 {
		c.compareMax = DefaultCompareMax
	}
	return c, nil
}

// Search runs q against the filter endpoint.
func (c *Client) Search(ctx context.Context, q domain.CanonicalQuery) (*domain.SearchResultPage, error) {
	q.Normalize()
	if q.IsEmpty() {
		return nil, domain.ErrEmptyQuery
	}

	payload, err := c.get(ctx, request{path: PathMachines, params: q.Values(), check: decodes[domain.SearchResultPage]})
	if err != nil {
		return nil, err
	}

	var page domain.SearchResultPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, decodeError(PathMachines, err)
	}
	if page.Limit == 0 {
		page.Limit = q.Limit
	}
	if page.Offset == 0 {
		page.Offset = q.Offset
	}
	for i := range page.Products {
		c.sanitize(&page.Products[i])
	}
	page.Settle()
	return &page, nil
}

// ProductDetails fetches one product by numeric id.
func (c *Client) ProductDetails(ctx context.Context, id int64) (*domain.Product, error) {
	path := PathMachines + "/" + strconv.FormatInt(id, 10)
	if id <= 0 {
		return nil, &domain.CatalogError{Op: "GET " + path, Err: domain.ErrNotFound}
	}

	payload, err := c.get(ctx, request{path: path, notFound: true, check: decodes[domain.Product]})
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, decodeError(path, err)
	}
	if p.ID == 0 {
		p.ID = id
	}
	c.sanitize(&p)
	return &p, nil
}

// FetchBrands returns the catalog brand list in upstream order, trimmed and
// without duplicates.
func (c *Client) FetchBrands(ctx context.Context) ([]string, error) {
	payload, err := c.get(ctx, request{path: PathBrands, check: decodes[brandList]})
	if err != nil {
		return nil, err
	}

	var body brandList
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, decodeError(PathBrands, err)
	}

	seen := make(map[string]bool, len(body.Brands))
	out := make([]string, 0, len(body.Brands))
	for _, b := range body.Brands {
		b = strings.TrimSpace(b)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out, nil
}

// Brands is FetchBrands for navigation: it never fails and returns an empty
// list when the catalog cannot be reached.
func (c *Client) Brands(ctx context.Context) []string {
	brands, err := c.FetchBrands(ctx)
	if err != nil {
		c.log.Warn("brand list unavailable", logger.Error(err))
		return []string{}
	}
	return brands
}

// Statistics returns the aggregate document as-is.
func (c *Client) Statistics(ctx context.Context) (json.RawMessage, error) {
	payload, err := c.get(ctx, request{path: PathStatistics, check: validJSON})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

// Compare fetches the details of several products concurrently.
// Ids are de-duplicated; results follow the order of first appearance.
// The first failure cancels the remaining lookups.
func (c *Client) Compare(ctx context.Context, ids []int64) ([]domain.Product, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) > c.compareMax {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyIDs, len(unique), c.compareMax)
	}

	out := make([]domain.Product, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.compareConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			p, err := c.ProductDetails(gctx, id)
			if err != nil {
				return err
			}
			out[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCache drops every cached response and forgets in-flight requests.
// Requests already on the wire complete for their callers but are not cached.
func (c *Client) ClearCache(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.group = &singleflight.Group{}
	if err := c.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear catalog cache: %w", err)
	}
	c.log.Info("catalog cache cleared", logger.Uint64("generation", c.generation))
	return nil
}

func (c *Client) Stats() Stats {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Stale:      c.stale.Load(),
		Shared:     c.shared.Load(),
		Fetches:    c.fetches.Load(),
		Failures:   c.failures.Load(),
		Generation: gen,
	}
}

// Ping checks that the catalog answers, bypassing the cache.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.fetch(ctx, request{path: PathBrands})
	return err
}

type request struct {
	path     string
	params   url.Values
	notFound bool // map 404 to ErrNotFound

	// check rejects a payload the caller cannot decode. A rejected payload
	// fails the request and is never cached.
	check func([]byte) error
}

type brandList struct {
	Brands []string `json:"brands"`
}

func decodes[T any](payload []byte) error {
	var v T
	return json.Unmarshal(payload, &v)
}

func validJSON(payload []byte) error {
	if !json.Valid(payload) {
		return errors.New("invalid json")
	}
	return nil
}

func (r request) key() string { return RequestKey(http.MethodGet, r.path, r.params) }

func (c *Client) get(ctx context.Context, req request) ([]byte, error) {
	key := req.key()

	if payload, ok := c.lookup(ctx, key); ok {
		return payload, nil
	}

	c.mu.RLock()
	group, gen := c.group, c.generation
	c.mu.RUnlock()

	c.waiters.Add(1)
	defer c.waiters.Add(-1)

	ch := group.DoChan(key, func() (any, error) {
		// Shared by every waiter: one caller leaving must not fail the others.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		payload, err := c.fetch(fctx, req)
		if err != nil {
			return nil, err
		}
		if req.check != nil {
			if err := req.check(payload); err != nil {
				return nil, c.fail(decodeError(req.path, err))
			}
		}
		c.store(fctx, key, gen, payload)
		return payload, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
			c.log.Debug("catalog request shared", logger.String("key", key))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) lookup(ctx context.Context, key string) ([]byte, bool) {
	e, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn("catalog cache read failed", logger.String("key", key), logger.Error(err))
		c.misses.Add(1)
		return nil, false
	case !ok:
		c.log.Debug("catalog cache MISS", logger.String("key", key))
		c.misses.Add(1)
		return nil, false
	}

	if age := e.Age(c.now()); age >= c.freshness {
		c.stale.Add(1)
		c.misses.Add(1)
		c.log.Debug("catalog cache STALE", logger.String("key", key), logger.Duration("age", age))
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Warn("catalog cache delete failed", logger.String("key", key), logger.Error(err))
		}
		return nil, false
	}

	c.hits.Add(1)
	c.log.Debug("catalog cache HIT", logger.String("key", key))
	return e.Payload, true
}

func (c *Client) store(ctx context.Context, key string, gen uint64, payload []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if gen != c.generation {
		c.log.Debug("catalog response dropped after clear", logger.String("key", key))
		return
	}
	if err := c.cache.Set(ctx, key, Entry{Payload: payload, FetchedAt: c.now()}); err != nil {
		c.log.Warn("catalog cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func (c *Client) fetch(ctx context.Context, req request) ([]byte, error) {
	c.fetches.Add(1)
	op := "GET " + req.path

	u := c.base.JoinPath(req.path)
	u.RawQuery = req.params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.fail(&domain.CatalogError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)})
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(&domain.CatalogError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)})
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && req.notFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, &domain.CatalogError{Op: op, Status: resp.StatusCode, Err: domain.ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, c.fail(&domain.CatalogError{Op: op, Status: resp.StatusCode, Err: domain.ErrCatalogUnavailable})
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, c.fail(&domain.CatalogError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", domain.ErrCatalogUnavailable, err)})
	}

	c.log.Debug("catalog fetch",
		logger.String("path", req.path),
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(payload)),
		logger.Duration("duration", time.Since(start)),
	)
	return payload, nil
}

func (c *Client) fail(err *domain.CatalogError) error {
	c.failures.Add(1)
	c.log.Warn("catalog request failed", logger.String("op", err.Op), logger.Int("status", err.Status), logger.Error(err.Err))
	return err
}

// sanitize drops scores outside the published range and dates in an
// unknown layout.
func (c *Client) sanitize(p *domain.Product) {
	if err := p.Validate(); err != nil {
		n := p.DropInvalid()
		c.log.Warn("dropped invalid product fields", logger.Int64("id", p.ID), logger.Int("count", n), logger.Error(err))
	}
}

func decodeError(path string, err error) *domain.CatalogError {
	return &domain.CatalogError{Op: "GET " + path, Err: fmt.Errorf("%w: decode: %v", domain.ErrCatalogUnavailable, err)}
}
