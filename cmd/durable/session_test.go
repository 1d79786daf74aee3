package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/durable/internal/app"
	"github.com/MrSnakeDoc/durable/internal/config"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/view"
)

type recordedQuery struct {
	mu   sync.Mutex
	last url.Values
}

func (r *recordedQuery) get() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func newTestSession(t *testing.T, status int) (*session, *recordedQuery) {
	t.Helper()
	rec := &recordedQuery{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/brands", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"brands":["Bosch","Haier"]}`)
	})
	mux.HandleFunc("GET /v1/machines", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r.URL.Query()
		rec.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, `{"machines":[{"id":3,"nom_metteur_sur_le_marche":"Haier","nom_modele":"HW80","note_reparabilite":8.1}],"total":1,"limit":20,"offset":0,"has_more":false}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		CatalogURL:          srv.URL,
		CatalogTimeout:      time.Second,
		CacheBackend:        config.CacheMemory,
		CacheFreshness:      time.Minute,
		CompareConcurrency:  2,
		CompareMax:          4,
		AffiliateTag:        "test-21",
		MarketplaceLocale:   "fr",
		BrandsFile:          filepath.Join(t.TempDir(), "missing.yaml"),
		BrandReloadInterval: time.Hour,
	}
	log := logger.NewNop()
	core, err := app.NewCore(context.Background(), cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := core.LoadBrands(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	s := &session{core: core, log: log}
	t.Cleanup(s.Close)
	return s, rec
}

func TestSessionSearchDetectsCatalogBrand(t *testing.T) {
	s, rec := newTestSession(t, http.StatusOK)

	list, err := s.search(context.Background(), searchRequest{Text: "Haier", Offset: 40})
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.get(); got.Get("brand") != "Haier" || got.Get("offset") != "40" {
		t.Errorf("upstream query = %v", got)
	}
	if len(list.Cards) != 1 || list.Cards[0].LinkLabel != view.LabelFallback {
		t.Errorf("cards = %+v", list.Cards)
	}
}

func TestSessionSearchEmpty(t *testing.T) {
	s, rec := newTestSession(t, http.StatusOK)

	list, err := s.search(context.Background(), searchRequest{Text: "   "})
	if err != nil {
		t.Fatal(err)
	}
	if !list.EmptyQuery || rec.get() != nil {
		t.Errorf("empty query dispatched: %+v %v", list, rec.get())
	}
}

func TestSessionSearchUnavailable(t *testing.T) {
	s, _ := newTestSession(t, http.StatusInternalServerError)

	_, err := s.search(context.Background(), searchRequest{Text: "durable"})
	if !errors.Is(err, domain.ErrCatalogUnavailable) || !strings.Contains(err.Error(), "try again later") {
		t.Errorf("err = %v", err)
	}
}

func TestWriteList(t *testing.T) {
	s, _ := newTestSession(t, http.StatusOK)
	list, err := s.search(context.Background(), searchRequest{Text: "réparable", Locale: "uk"})
	if err != nil {
		t.Fatal(err)
	}

	var md bytes.Buffer
	if err := writeList(&md, formatMarkdown, "réparable", list); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), "Haier HW80") || !strings.Contains(md.String(), "8.1/10") {
		t.Errorf("markdown = %s", md.String())
	}

	var js bytes.Buffer
	if err := writeList(&js, "JSON", "réparable", list); err != nil {
		t.Fatal(err)
	}
	var decoded view.ResultList
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Cards) != 1 || !strings.HasPrefix(decoded.Cards[0].Link.URL, "https://www.amazon.co.uk/") {
		t.Errorf("json cards = %+v", decoded.Cards)
	}
}
