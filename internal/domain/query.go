package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Sortable product fields, as named by the catalog API.
const (
	FieldModel         = "nom_modele"
	FieldBrand         = "nom_metteur_sur_le_marche"
	FieldRepairability = "note_reparabilite"
	FieldReliability   = "note_fiabilite"
	FieldEvaluatedAt   = "date_calcul"
	FieldOverall       = "note_id"
)

// SortOrder is the catalog sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Wire parameter names accepted by GET /v1/machines.
const (
	ParamTerm             = "q"
	ParamBrand            = "brand"
	ParamModel            = "model"
	ParamMinRepairability = "min_repairability"
	ParamMaxRepairability = "max_repairability"
	ParamMinReliability   = "min_reliability"
	ParamMaxReliability   = "max_reliability"
	ParamYear             = "year"
	ParamSortBy           = "sort_by"
	ParamSortOrder        = "sort_order"
	ParamLimit            = "limit"
	ParamOffset           = "offset"
)

var sortableFields = map[string]bool{
	FieldModel:         true,
	FieldBrand:         true,
	FieldRepairability: true,
	FieldReliability:   true,
	FieldEvaluatedAt:   true,
	FieldOverall:       true,
}

// KnownParams lists every parameter the catalog filter endpoint accepts.
var KnownParams = []string{
	ParamTerm, ParamBrand, ParamModel,
	ParamMinRepairability, ParamMaxRepairability,
	ParamMinReliability, ParamMaxReliability,
	ParamYear, ParamSortBy, ParamSortOrder, ParamLimit, ParamOffset,
}

// IsSortable reports whether field is a known sortable product field.
func IsSortable(field string) bool {
	return sortableFields[field]
}

// CanonicalQuery is a fully normalized search request.
// Nil bounds and zero strings mean "not set".
type CanonicalQuery struct {
	Term  string `json:"q,omitempty"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`

	MinRepairability *float64 `json:"min_repairability,omitempty"`
	MaxRepairability *float64 `json:"max_repairability,omitempty"`
	MinReliability   *float64 `json:"min_reliability,omitempty"`
	MaxReliability   *float64 `json:"max_reliability,omitempty"`
	Year             *int     `json:"year,omitempty"`

	SortBy    string    `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// HasFilter reports whether any term or structured filter is set.
func (q CanonicalQuery) HasFilter() bool {
	return q.Term != "" || q.Brand != "" || q.Model != "" ||
		q.MinRepairability != nil || q.MaxRepairability != nil ||
		q.MinReliability != nil || q.MaxReliability != nil ||
		q.Year != nil
}

// IsEmpty reports whether the query must not be dispatched.
// A forced sort counts as intent (ranked browsing), paging alone does not.
func (q CanonicalQuery) IsEmpty() bool {
	return !q.HasFilter() && q.SortBy == ""
}

// Normalize clamps paging and fills defaults in place.
func (q *CanonicalQuery) Normalize() {
	q.Term = strings.TrimSpace(q.Term)
	q.Brand = strings.TrimSpace(q.Brand)
	q.Model = strings.TrimSpace(q.Model)

	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if !IsSortable(q.SortBy) {
		q.SortBy = ""
	}
	if q.SortBy == "" {
		q.SortOrder = ""
	} else if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
}

// Values renders the query as catalog wire parameters.
func (q CanonicalQuery) Values() url.Values {
	v := url.Values{}
	setString := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setFloat := func(key string, val *float64) {
		if val != nil {
			v.Set(key, strconv.FormatFloat(*val, 'f', -1, 64))
		}
	}

	setString(ParamTerm, q.Term)
	setString(ParamBrand, q.Brand)
	setString(ParamModel, q.Model)
	setFloat(ParamMinRepairability, q.MinRepairability)
	setFloat(ParamMaxRepairability, q.MaxRepairability)
	setFloat(ParamMinReliability, q.MinReliability)
	setFloat(ParamMaxReliability, q.MaxReliability)
	if q.Year != nil {
		v.Set(ParamYear, strconv.Itoa(*q.Year))
	}
	if q.SortBy != "" {
		v.Set(ParamSortBy, q.SortBy)
		v.Set(ParamSortOrder, string(q.SortOrder))
	}
	v.Set(ParamLimit, strconv.Itoa(q.Limit))
	v.Set(ParamOffset, strconv.Itoa(q.Offset))
	return v
}

// QueryFromParams coerces explicit parameters into a query.
// Unknown keys, empty values, unparsable numbers, out-of-range scores and
// unknown sort fields are discarded. The second result reports whether any
// recognized key carried a value.
func QueryFromParams(params url.Values) (CanonicalQuery, bool) {
	var q CanonicalQuery
	seen := false

	get := func(key string) (string, bool) {
		val := strings.TrimSpace(params.Get(key))
		if val != "" {
			seen = true
		}
		return val, val != ""
	}
	score := func(key string) *float64 {
		raw, ok := get(key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || !scoreInRange(f) {
			return nil
		}
		return &f
	}
	integer := func(key string) (int, bool) {
		raw, ok := get(key)
		if !ok {
			return 0, false
		}
		i, err := strconv.Atoi(raw)
		return i, err == nil
	}

	q.Term, _ = get(ParamTerm)
	q.Brand, _ = get(ParamBrand)
	q.Model, _ = get(ParamModel)
	q.MinRepairability = score(ParamMinRepairability)
	q.MaxRepairability = score(ParamMaxRepairability)
	q.MinReliability = score(ParamMinReliability)
	q.MaxReliability = score(ParamMaxReliability)

	if y, ok := integer(ParamYear); ok && y >= 1000 && y <= 9999 {
		q.Year = &y
	}
	if field, ok := get(ParamSortBy); ok && IsSortable(field) {
		q.SortBy = field
	}
	if order, ok := get(ParamSortOrder); ok && strings.EqualFold(order, string(SortAsc)) {
		q.SortOrder = SortAsc
	}
	if limit, ok := integer(ParamLimit); ok {
		q.Limit = limit
	}
	if offset, ok := integer(ParamOffset); ok {
		q.Offset = offset
	}

	q.Normalize()
	return q, seen
}

func floatPtr(v float64) *float64 { return &v }
