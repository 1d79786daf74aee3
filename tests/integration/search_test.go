package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/durable/internal/catalog"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/index"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/scheduler"
	"github.com/MrSnakeDoc/durable/internal/view"
)

// catalogServer answers /v1/machines with one product per request and records
// the filter parameters it was sent.
type catalogServer struct {
	mu      sync.Mutex
	queries []url.Values
	calls   atomic.Int64
	delay   time.Duration
}

func (c *catalogServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	switch r.URL.Path {
	case catalog.PathBrands:
		fmt.Fprint(w, `{"brands":["Electrolux","Beko"]}`)
	case catalog.PathMachines:
		c.mu.Lock()
		c.queries = append(c.queries, r.URL.Query())
		c.mu.Unlock()
		fmt.Fprint(w, `{"machines":[{"id":42,"nom_metteur_sur_le_marche":"Beko","nom_modele":"WTV 8744","amazon_product_url":"https://www.amazon.fr/dp/B0BEKO0042?tag=x"}],"total":1,"limit":20,"offset":0,"has_more":false}`)
	default:
		http.NotFound(w, r)
	}
}

func (c *catalogServer) lastQuery() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queries) == 0 {
		return nil
	}
	return c.queries[len(c.queries)-1]
}

type pipeline struct {
	interpreter *domain.Interpreter
	client      *catalog.Client
	presenter   *view.Presenter
	server      *catalogServer
}

func newPipeline(t *testing.T, delay time.Duration) *pipeline {
	t.Helper()
	server := &catalogServer{delay: delay}
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	log := logger.NewNop()
	client, err := catalog.New(catalog.Options{BaseURL: srv.URL, Logger: log, Freshness: time.Minute})
	if err != nil {
		t.Fatal(err)
	}

	seed := filepath.Join(t.TempDir(), "brands.yaml")
	if err := os.WriteFile(seed, []byte("brands: [Bosch, Miele]\naliases:\n  bsh: Bosch\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	idx := index.NewBrandIndex()
	reloader := scheduler.NewBrandReloader(seed, client, nil, idx, log, time.Hour, nil)
	if err := reloader.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	return &pipeline{
		interpreter: domain.NewInterpreter(idx),
		client:      client,
		presenter:   view.NewPresenter(domain.NewAffiliateResolver("lebrugere-21", "fr"), "fr"),
		server:      server,
	}
}

func (p *pipeline) search(t *testing.T, raw string, explicit url.Values) view.ResultList {
	t.Helper()
	q, err := p.interpreter.Interpret(raw, explicit)
	if err != nil {
		return p.presenter.List(nil)
	}
	page, err := p.client.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search(%q) error = %v", raw, err)
	}
	return p.presenter.List(page)
}

// TestSearchScenarios runs typed queries end to end and checks what reaches the catalog.
func TestSearchScenarios(t *testing.T) {
	p := newPipeline(t, 0)

	tests := []struct {
		name     string
		raw      string
		explicit url.Values
		want     map[string]string // expected catalog parameters, "" = absent
	}{
		{
			name: "repairability keyword, accents and case ignored",
			raw:  "Les PLUS REPARABLES",
			want: map[string]string{"sort_by": "note_reparabilite", "sort_order": "DESC", "min_repairability": "7", "q": ""},
		},
		{
			name: "budget segment",
			raw:  "une machine économique",
			want: map[string]string{"max_repairability": "6", "max_reliability": "6", "sort_by": "note_id", "limit": "15"},
		},
		{
			name: "year beats brand",
			raw:  "Bosch 2022",
			want: map[string]string{"year": "2022", "sort_by": "date_calcul", "brand": ""},
		},
		{
			name: "seed brand",
			raw:  "miele",
			want: map[string]string{"brand": "miele", "q": ""},
		},
		{
			name: "catalog brand",
			raw:  "Electrolux",
			want: map[string]string{"brand": "Electrolux"},
		},
		{
			name: "alias resolves to a brand",
			raw:  "bsh",
			want: map[string]string{"brand": "bsh"},
		},
		{
			name: "free text",
			raw:  "hublot large",
			want: map[string]string{"q": "hublot large", "sort_by": ""},
		},
		{
			name:     "explicit filters ignore text",
			raw:      "la plus fiable",
			explicit: url.Values{"brand": {"Beko"}, "min_reliability": {"12"}, "sort_by": {"prix"}},
			want:     map[string]string{"brand": "Beko", "min_reliability": "", "sort_by": "", "limit": "20", "offset": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := p.search(t, tt.raw, tt.explicit)
			if list.EmptyQuery {
				t.Fatal("query was treated as empty")
			}
			sent := p.server.lastQuery()
			for key, want := range tt.want {
				if got := sent.Get(key); got != want {
					t.Errorf("param %s = %q, want %q (sent %v)", key, got, want, sent)
				}
			}
			card := list.Cards[0]
			if card.DetailPath != "/machines/42" || card.LinkLabel != view.LabelDirect {
				t.Errorf("card = %+v", card)
			}
			if card.Link.URL != "https://www.amazon.fr/dp/B0BEKO0042?tag=x" || card.Link.ASIN != "B0BEKO0042" {
				t.Errorf("link = %+v", card.Link)
			}
		})
	}
}

func TestEmptyQueriesNeverReachCatalog(t *testing.T) {
	p := newPipeline(t, 0)
	before := p.server.calls.Load()

	for _, raw := range []string{"", "   ", "\t\n"} {
		if list := p.search(t, raw, nil); !list.EmptyQuery {
			t.Errorf("%q: EmptyQuery = false", raw)
		}
	}
	if list := p.search(t, "", url.Values{"offset": {"20"}}); !list.EmptyQuery {
		t.Error("paging alone must be an empty query")
	}
	if got := p.server.calls.Load(); got != before {
		t.Errorf("catalog called %d times for empty queries", got-before)
	}
}

func TestConcurrentIdenticalSearchesShareOneCall(t *testing.T) {
	p := newPipeline(t, 50*time.Millisecond)
	before := p.server.calls.Load()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := p.interpreter.Interpret("très fiable", nil)
			if err != nil {
				errs <- err
				return
			}
			if _, err := p.client.Search(context.Background(), q); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if got := p.server.calls.Load() - before; got != 1 {
		t.Errorf("catalog calls = %d, want 1", got)
	}
}
