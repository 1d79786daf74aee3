package domain

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Thresholds applied by the keyword rules.
const (
	RepairableMinRepairability = 7.0
	ReliableMinReliability     = 6.0
	ExcellentMinRepairability  = 8.0
	ExcellentMinReliability    = 7.0
	BudgetMaxRepairability     = 6.0
	BudgetMaxReliability       = 6.0
	SegmentLimit               = 15
)

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// BrandMatcher reports whether free text names a known brand.
type BrandMatcher interface {
	MatchBrand(text string) (brand string, ok bool)
}

// BrandList is a fixed BrandMatcher matching whole-word brand tokens.
type BrandList []string

func (b BrandList) MatchBrand(text string) (string, bool) {
	for _, brand := range b {
		if ContainsPhrase(text, brand) {
			return brand, true
		}
	}
	return "", false
}

// RuleInput is the text a keyword rule inspects.
type RuleInput struct {
	Raw        string // trimmed user input
	Normalized string // NormalizeText(Raw)
}

// Rule is one predicate -> transform pair of the free-text interpreter.
// Rules are evaluated in slice order and the first match wins.
type Rule struct {
	Name  string
	Match func(in RuleInput) bool
	Apply func(in RuleInput, q *CanonicalQuery)
}

// Interpreter turns raw text and/or explicit parameters into a CanonicalQuery.
// It has no side effects; its output only depends on its inputs and the
// brand matcher snapshot.
type Interpreter struct {
	rules []Rule
}

// NewInterpreter builds the canonical rule chain. brands may be nil, in which
// case brand detection never matches.
func NewInterpreter(brands BrandMatcher) *Interpreter {
	return &Interpreter{rules: defaultRules(brands)}
}

// Rules returns a copy of the ordered rule chain.
func (i *Interpreter) Rules() []Rule {
	out := make([]Rule, len(i.rules))
	copy(out, i.rules)
	return out
}

// Interpret produces the canonical query.
//
// Explicit parameters win as soon as one recognized key carries a value; raw
// text is then ignored. Otherwise the raw text runs through the rule chain.
// ErrEmptyQuery is returned when nothing dispatchable remains.
func (i *Interpreter) Interpret(raw string, explicit url.Values) (CanonicalQuery, error) {
	if q, seen := QueryFromParams(explicit); seen {
		if q.IsEmpty() {
			return CanonicalQuery{}, ErrEmptyQuery
		}
		return q, nil
	}
	return i.InterpretText(raw)
}

// InterpretText applies the first matching rule to raw.
func (i *Interpreter) InterpretText(raw string) (CanonicalQuery, error) {
	rule, in, ok := i.match(raw)
	if !ok {
		return CanonicalQuery{}, ErrEmptyQuery
	}

	var q CanonicalQuery
	rule.Apply(in, &q)
	q.Normalize()
	if q.IsEmpty() {
		return CanonicalQuery{}, ErrEmptyQuery
	}
	return q, nil
}

// MatchRule returns the name of the rule raw resolves through.
func (i *Interpreter) MatchRule(raw string) (string, bool) {
	rule, _, ok := i.match(raw)
	return rule.Name, ok
}

func (i *Interpreter) match(raw string) (Rule, RuleInput, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Rule{}, RuleInput{}, false
	}
	in := RuleInput{Raw: raw, Normalized: NormalizeText(raw)}
	for _, rule := range i.rules {
		if rule.Match(in) {
			return rule, in, true
		}
	}
	return Rule{}, in, false
}

func containsAny(keywords ...string) func(RuleInput) bool {
	normalized := make([]string, len(keywords))
	for i, k := range keywords {
		normalized[i] = NormalizeText(k)
	}
	return func(in RuleInput) bool {
		for _, k := range normalized {
			if strings.Contains(in.Normalized, k) {
				return true
			}
		}
		return false
	}
}

func defaultRules(brands BrandMatcher) []Rule {
	return []Rule{
		{
			Name:  "repairability",
			Match: containsAny("réparable", "repairability"),
			Apply: func(_ RuleInput, q *CanonicalQuery) {
				q.SortBy, q.SortOrder = FieldRepairability, SortDesc
				q.MinRepairability = floatPtr(RepairableMinRepairability)
			},
		},
		{
			Name:  "reliability",
			Match: containsAny("fiable", "reliability"),
			Apply: func(_ RuleInput, q *CanonicalQuery) {
				q.SortBy, q.SortOrder = FieldReliability, SortDesc
				q.MinReliability = floatPtr(ReliableMinReliability)
			},
		},
		{
			Name:  "durability",
			Match: containsAny("durable", "durability"),
			Apply: func(_ RuleInput, q *CanonicalQuery) {
				q.SortBy, q.SortOrder = FieldOverall, SortDesc
			},
		},
		{
			Name:  "excellent",
			Match: containsAny("excellent", "meilleur"),
			Apply: func(_ RuleInput, q *CanonicalQuery) {
				q.MinRepairability = floatPtr(ExcellentMinRepairability)
				q.MinReliability = floatPtr(ExcellentMinReliability)
				q.SortBy, q.SortOrder = FieldOverall, SortDesc
				q.Limit = SegmentLimit
			},
		},
		{
			Name:  "budget",
			Match: containsAny("bon marché", "économique"),
			Apply: func(_ RuleInput, q *CanonicalQuery) {
				q.MaxRepairability = floatPtr(BudgetMaxRepairability)
				q.MaxReliability = floatPtr(BudgetMaxReliability)
				q.SortBy, q.SortOrder = FieldOverall, SortDesc
				q.Limit = SegmentLimit
			},
		},
		{
			Name: "year",
			Match: func(in RuleInput) bool {
				return yearPattern.MatchString(in.Raw)
			},
			Apply: func(in RuleInput, q *CanonicalQuery) {
				m := yearPattern.FindStringSubmatch(in.Raw)
				year, _ := strconv.Atoi(m[1])
				q.Year = &year
				q.SortBy, q.SortOrder = FieldEvaluatedAt, SortDesc
			},
		},
		{
			Name: "brand",
			Match: func(in RuleInput) bool {
				if brands == nil {
					return false
				}
				_, ok := brands.MatchBrand(in.Raw)
				return ok
			},
			Apply: func(in RuleInput, q *CanonicalQuery) {
				q.Brand = in.Raw
			},
		},
		{
			Name:  "text",
			Match: func(RuleInput) bool { return true },
			Apply: func(in RuleInput, q *CanonicalQuery) {
				q.Term = in.Raw
			},
		},
	}
}
