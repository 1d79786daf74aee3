package domain

import (
	"errors"
	"net/url"
	"testing"
)

func TestInterpretText(t *testing.T) {
	interp := NewInterpreter(BrandList{"Samsung", "LG", "Miele"})

	tests := []struct {
		name   string
		raw    string
		rule   string
		sortBy string
		minRep *float64
		minRel *float64
		maxRep *float64
		maxRel *float64
		year   *int
		brand  string
		term   string
		limit  int
	}{
		{
			name:   "repairability keyword",
			raw:    "plus réparable",
			rule:   "repairability",
			sortBy: FieldRepairability,
			minRep: floatPtr(7),
			limit:  20,
		},
		{
			name:   "repairability without accents and upper case",
			raw:    "PLUS REPARABLE",
			rule:   "repairability",
			sortBy: FieldRepairability,
			minRep: floatPtr(7),
			limit:  20,
		},
		{
			name:   "repairability wins over brand",
			raw:    "Samsung plus réparable",
			rule:   "repairability",
			sortBy: FieldRepairability,
			minRep: floatPtr(7),
			limit:  20,
		},
		{
			name:   "reliability wins over durability",
			raw:    "fiable et durable",
			rule:   "reliability",
			sortBy: FieldReliability,
			minRel: floatPtr(6),
			limit:  20,
		},
		{
			name:   "durability",
			raw:    "la plus durable",
			rule:   "durability",
			sortBy: FieldOverall,
			limit:  20,
		},
		{
			name:   "excellent segment",
			raw:    "le meilleur lave-linge",
			rule:   "excellent",
			sortBy: FieldOverall,
			minRep: floatPtr(8),
			minRel: floatPtr(7),
			limit:  15,
		},
		{
			name:   "budget segment",
			raw:    "Bon Marché",
			rule:   "budget",
			sortBy: FieldOverall,
			maxRep: floatPtr(6),
			maxRel: floatPtr(6),
			limit:  15,
		},
		{
			name:   "budget segment economique",
			raw:    "machine économique",
			rule:   "budget",
			sortBy: FieldOverall,
			maxRep: floatPtr(6),
			maxRel: floatPtr(6),
			limit:  15,
		},
		{
			name:   "year only",
			raw:    "2025",
			rule:   "year",
			sortBy: FieldEvaluatedAt,
			year:   intPtr(2025),
			limit:  20,
		},
		{
			name:   "year wins over brand",
			raw:    "Samsung 2024",
			rule:   "year",
			sortBy: FieldEvaluatedAt,
			year:   intPtr(2024),
			limit:  20,
		},
		{
			name:  "brand keeps raw text",
			raw:   "  lg hublot ",
			rule:  "brand",
			brand: "lg hublot",
			limit: 20,
		},
		{
			name:  "brand needs a whole word",
			raw:   "algorithme",
			rule:  "text",
			term:  "algorithme",
			limit: 20,
		},
		{
			name:  "free text",
			raw:   "lave-linge silencieux",
			rule:  "text",
			term:  "lave-linge silencieux",
			limit: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := interp.InterpretText(tt.raw)
			if err != nil {
				t.Fatalf("InterpretText(%q) error = %v", tt.raw, err)
			}

			if rule, _ := interp.MatchRule(tt.raw); rule != tt.rule {
				t.Errorf("MatchRule = %q, want %q", rule, tt.rule)
			}
			if q.SortBy != tt.sortBy {
				t.Errorf("SortBy = %q, want %q", q.SortBy, tt.sortBy)
			}
			if tt.sortBy != "" && q.SortOrder != SortDesc {
				t.Errorf("SortOrder = %q, want DESC", q.SortOrder)
			}
			if tt.sortBy == "" && q.SortOrder != "" {
				t.Errorf("SortOrder = %q, want empty", q.SortOrder)
			}
			checkFloat(t, "MinRepairability", q.MinRepairability, tt.minRep)
			checkFloat(t, "MinReliability", q.MinReliability, tt.minRel)
			checkFloat(t, "MaxRepairability", q.MaxRepairability, tt.maxRep)
			checkFloat(t, "MaxReliability", q.MaxReliability, tt.maxRel)
			checkInt(t, "Year", q.Year, tt.year)
			if q.Brand != tt.brand {
				t.Errorf("Brand = %q, want %q", q.Brand, tt.brand)
			}
			if q.Term != tt.term {
				t.Errorf("Term = %q, want %q", q.Term, tt.term)
			}
			if q.Limit != tt.limit {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.limit)
			}
		})
	}
}

func TestInterpretEmpty(t *testing.T) {
	interp := NewInterpreter(nil)

	cases := []struct {
		name     string
		raw      string
		explicit url.Values
	}{
		{"nothing", "", nil},
		{"blank text", "   \t", nil},
		{"paging only", "", url.Values{"limit": {"10"}, "offset": {"20"}}},
		{"unknown sort field", "", url.Values{"sort_by": {"price"}}},
		{"out of range score", "", url.Values{"min_repairability": {"42"}}},
		{"unknown keys only", "", url.Values{"color": {"white"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := interp.Interpret(tc.raw, tc.explicit)
			if !errors.Is(err, ErrEmptyQuery) {
				t.Fatalf("Interpret() error = %v, want ErrEmptyQuery", err)
			}
		})
	}
}

func TestInterpretExplicitBrand(t *testing.T) {
	interp := NewInterpreter(BrandList{"Samsung"})

	q, err := interp.Interpret("", url.Values{"brand": {"Samsung"}})
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	want := CanonicalQuery{Brand: "Samsung", Limit: 20}
	if q.Brand != want.Brand || q.Limit != want.Limit || q.SortBy != "" || q.SortOrder != "" {
		t.Errorf("Interpret() = %+v, want %+v", q, want)
	}
}

func TestInterpretExplicitIgnoresText(t *testing.T) {
	interp := NewInterpreter(nil)

	q, err := interp.Interpret("plus réparable", url.Values{
		"min_reliability": {"6,5"},
		"sort_by":         {FieldReliability},
		"sort_order":      {"asc"},
		"limit":           {"500"},
		"offset":          {"-3"},
	})
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if q.MinRepairability != nil {
		t.Errorf("free text leaked into explicit branch: %+v", q)
	}
	checkFloat(t, "MinReliability", q.MinReliability, floatPtr(6.5))
	if q.SortBy != FieldReliability || q.SortOrder != SortAsc {
		t.Errorf("sort = %s %s, want %s ASC", q.SortBy, q.SortOrder, FieldReliability)
	}
	if q.Limit != MaxLimit || q.Offset != 0 {
		t.Errorf("paging = %d/%d, want %d/0", q.Limit, q.Offset, MaxLimit)
	}
}

func TestInterpretFallsBackToTextWhenExplicitIsBlank(t *testing.T) {
	interp := NewInterpreter(nil)

	q, err := interp.Interpret("2025", url.Values{"brand": {""}})
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	checkInt(t, "Year", q.Year, intPtr(2025))
}

func TestInterpretIsDeterministic(t *testing.T) {
	interp := NewInterpreter(BrandList{"Bosch"})
	for _, raw := range []string{"Bosch fiable 2023", "économique durable", "Bosch"} {
		a, errA := interp.InterpretText(raw)
		b, errB := interp.InterpretText(raw)
		if errA != errB || a.Values().Encode() != b.Values().Encode() {
			t.Errorf("InterpretText(%q) not deterministic: %v vs %v", raw, a, b)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	want := []string{"repairability", "reliability", "durability", "excellent", "budget", "year", "brand", "text"}

	rules := NewInterpreter(nil).Rules()
	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Errorf("rule[%d] = %q, want %q", i, r.Name, want[i])
		}
	}
}

func checkFloat(t *testing.T, name string, got, want *float64) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", name, got, want)
	case *got != *want:
		t.Errorf("%s = %v, want %v", name, *got, *want)
	}
}

func checkInt(t *testing.T, name string, got, want *int) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", name, got, want)
	case *got != *want:
		t.Errorf("%s = %d, want %d", name, *got, *want)
	}
}

func intPtr(v int) *int { return &v }
