package index

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/durable/internal/domain"
)

// Brand sources.
const (
	SourceSeed    = "seed"
	SourceCatalog = "catalog"
)

var _ domain.BrandMatcher = (*BrandIndex)(nil)

// BrandIndex is the in-memory set of known brands, merged from several
// sources. It backs brand detection in free-text queries.
type BrandIndex struct {
	mu         sync.RWMutex
	sources    map[string][]string // source -> brands, upstream order
	aliases    map[string]string   // alias -> brand
	patterns   []pattern           // longest phrase first
	lastReload time.Time
}

type pattern struct {
	phrase string
	brand  string
	tokens int
}

// NewBrandIndex creates an empty index.
func NewBrandIndex() *BrandIndex {
	return &BrandIndex{
		sources: make(map[string][]string),
		aliases: make(map[string]string),
	}
}

// UpdateSource replaces the brands contributed by source.
func (idx *BrandIndex) UpdateSource(source string, brands []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.sources[source] = append([]string(nil), brands...)
	idx.lastReload = time.Now()
	idx.rebuild()
}

// SetAliases replaces the alias table.
func (idx *BrandIndex) SetAliases(aliases map[string]string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.aliases = make(map[string]string, len(aliases))
	for a, b := range aliases {
		idx.aliases[a] = b
	}
	idx.rebuild()
}

// rebuild recomputes match patterns. Caller holds the write lock.
func (idx *BrandIndex) rebuild() {
	seen := make(map[string]bool)
	patterns := make([]pattern, 0)
	add := func(phrase, brand string) {
		key := strings.Join(domain.Tokens(phrase), " ")
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		patterns = append(patterns, pattern{phrase: phrase, brand: brand, tokens: len(domain.Tokens(phrase))})
	}

	for _, b := range idx.mergedLocked() {
		add(b, b)
	}
	for a, b := range idx.aliases {
		add(a, b)
	}

	// "De Dietrich" must win over a shorter overlapping name.
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].tokens != patterns[j].tokens {
			return patterns[i].tokens > patterns[j].tokens
		}
		return patterns[i].phrase < patterns[j].phrase
	})
	idx.patterns = patterns
}

func (idx *BrandIndex) mergedLocked() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, src := range []string{SourceSeed, SourceCatalog} {
		for _, b := range idx.sources[src] {
			if k := domain.NormalizeText(b); !seen[k] {
				seen[k] = true
				out = append(out, b)
			}
		}
	}
	// sources added by other callers, in a stable order
	extra := make([]string, 0)
	for src := range idx.sources {
		if src != SourceSeed && src != SourceCatalog {
			extra = append(extra, src)
		}
	}
	sort.Strings(extra)
	for _, src := range extra {
		for _, b := range idx.sources[src] {
			if k := domain.NormalizeText(b); !seen[k] {
				seen[k] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// MatchBrand returns the brand named by text as a whole word (or phrase),
// aliases included. Longer names are tried first.
func (idx *BrandIndex) MatchBrand(text string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, p := range idx.patterns {
		if domain.ContainsPhrase(text, p.phrase) {
			return p.brand, true
		}
	}
	return "", false
}

// All returns every known brand in French collation order.
func (idx *BrandIndex) All() []string {
	idx.mu.RLock()
	out := idx.mergedLocked()
	idx.mu.RUnlock()

	collate.New(language.French, collate.IgnoreCase, collate.IgnoreDiacritics).SortStrings(out)
	return out
}

// Source returns the brands contributed by one source.
func (idx *BrandIndex) Source(source string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]string(nil), idx.sources[source]...)
}

// Count returns the number of distinct known brands.
func (idx *BrandIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.mergedLocked())
}

// GetLastReload returns the timestamp of the last source update
func (idx *BrandIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
