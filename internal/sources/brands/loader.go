package brands

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_brands.yaml
var defaultSeed []byte

// Loader reads the known-brand seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader. An empty path means the built-in seed.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the configured seed file, "" for the built-in one.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the seed file.
// A missing file falls back to the built-in seed.
func (l *Loader) Load() (SeedConfig, error) {
	data := defaultSeed
	if l.filePath != "" {
		b, err := os.ReadFile(l.filePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// keep the built-in seed
		case err != nil:
			return SeedConfig{}, fmt.Errorf("failed to read brands file: %w", err)
		default:
			data = b
		}
	}
	return Parse(data)
}

// Parse decodes and cleans a seed document.
func Parse(data []byte) (SeedConfig, error) {
	var raw SeedConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SeedConfig{}, fmt.Errorf("failed to parse brands yaml: %w", err)
	}

	cfg := SeedConfig{
		Brands:  Clean(raw.Brands),
		Aliases: make(map[string]string, len(raw.Aliases)),
	}
	for alias, brand := range raw.Aliases {
		alias, brand = strings.TrimSpace(alias), strings.TrimSpace(brand)
		if alias == "" || brand == "" {
			continue
		}
		cfg.Aliases[alias] = brand
	}
	return cfg, nil
}

// Clean trims names and drops blanks and case-insensitive duplicates,
// keeping the first spelling seen.
func Clean(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		k := strings.ToLower(n)
		if n == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}
