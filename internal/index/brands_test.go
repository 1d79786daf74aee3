package index

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewBrandIndex(t *testing.T) {
	idx := NewBrandIndex()
	if idx.Count() != 0 {
		t.Errorf("Count() = %d, want 0", idx.Count())
	}
	if _, ok := idx.MatchBrand("Samsung"); ok {
		t.Error("empty index matched a brand")
	}
	if !idx.GetLastReload().IsZero() {
		t.Error("GetLastReload() should be zero before any update")
	}
}

func TestMergeSources(t *testing.T) {
	idx := NewBrandIndex()
	idx.UpdateSource(SourceSeed, []string{"Samsung", "LG"})
	idx.UpdateSource(SourceCatalog, []string{"LG", "Électrolux", "beko"})

	if got := idx.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}

	want := []string{"beko", "Électrolux", "LG", "Samsung"}
	if got := idx.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	idx.UpdateSource(SourceCatalog, nil)
	if got := idx.Count(); got != 2 {
		t.Errorf("Count() after catalog reset = %d, want 2", got)
	}
}

func TestMatchBrand(t *testing.T) {
	idx := NewBrandIndex()
	idx.UpdateSource(SourceSeed, []string{"Samsung", "LG", "Dietrich", "De Dietrich"})
	idx.SetAliases(map[string]string{"lg electronics": "LG"})

	tests := []struct {
		text  string
		want  string
		found bool
	}{
		{"samsung hublot", "Samsung", true},
		{"SAMSUNG", "Samsung", true},
		{"lave-linge de dietrich 9kg", "De Dietrich", true},
		{"LG Electronics France", "LG", true},
		{"algorithme", "", false},
		{"samsungs", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := idx.MatchBrand(tt.text)
			if got != tt.want || ok != tt.found {
				t.Errorf("MatchBrand(%q) = %q,%v want %q,%v", tt.text, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestSourceIsCopied(t *testing.T) {
	idx := NewBrandIndex()
	in := []string{"Miele"}
	idx.UpdateSource(SourceSeed, in)
	in[0] = "Changed"

	if got := idx.Source(SourceSeed); got[0] != "Miele" {
		t.Errorf("Source() = %v, index shares caller slice", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	idx := NewBrandIndex()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			idx.UpdateSource(SourceCatalog, []string{"Bosch", "Siemens"})
		}()
		go func() {
			defer wg.Done()
			idx.MatchBrand("bosch")
			_ = idx.All()
		}()
	}
	wg.Wait()

	if _, ok := idx.MatchBrand("Siemens iQ500"); !ok {
		t.Error("MatchBrand() missed Siemens")
	}
}
