package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// ScoreMin and ScoreMax bound every score published by the catalog.
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// Product represents one washing machine as published by the catalog API.
//
// It is a transient value: it belongs to the interaction that fetched it and
// is never mutated by the catalog client once returned.
type Product struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the numeric catalog identifier.
	// It is present whenever the product links to a detail page.
	ID int64 `json:"id"`

	// IDUnique is the stable business key.
	// Example: SAMSUNG_WF20DG8650BWU3
	IDUnique string `json:"id_unique,omitempty"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	// Brand is the manufacturer placing the machine on the market.
	Brand string `json:"nom_metteur_sur_le_marche"`

	// Model is the commercial model name (may be empty).
	Model string `json:"nom_modele,omitempty"`

	// Category is the product category label.
	Category string `json:"categorie_produit,omitempty"`

	// EvaluatedAt is the date the scores were computed.
	EvaluatedAt *Date `json:"date_calcul,omitempty"`

	// DetailReportURL links to the official scoring table.
	DetailReportURL string `json:"url_tableau_detail_notation,omitempty"`

	// ─────────────────────────────
	// Scores, all in [0,10]
	// ─────────────────────────────

	Repairability *float64 `json:"note_reparabilite,omitempty"`
	Reliability   *float64 `json:"note_fiabilite,omitempty"`
	Overall       *float64 `json:"note_id,omitempty"`

	// ─────────────────────────────
	// Marketplace enrichment (written out-of-band)
	// ─────────────────────────────

	ASIN          string   `json:"amazon_asin,omitempty"`
	MarketURL     string   `json:"amazon_product_url,omitempty"`
	MarketImage   string   `json:"amazon_image_url,omitempty"`
	PriceEUR      *float64 `json:"amazon_price_eur,omitempty"`
	MarketTitle   string   `json:"amazon_product_title,omitempty"`
	LocalImageRef string   `json:"local_image_path,omitempty"`

	// Details is the scoring breakdown of the detail page. Detail lookups
	// carry all of it, search pages a subset (no disassembly steps).
	Details *Details `json:"details,omitempty"`
}

// UnmarshalJSON decodes the flat catalog document, folding the detail
// columns into Details.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	if err := json.Unmarshal(b, (*plain)(p)); err != nil {
		return err
	}
	var w detailsWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("details: %w", err)
	}
	if d := w.details(); !d.IsZero() {
		p.Details = d
	}
	return nil
}

// Linkable reports whether the product can be linked to a detail page.
func (p *Product) Linkable() bool {
	return p != nil && p.ID > 0
}

// DisplayName returns "Brand Model", or whichever half is known.
func (p *Product) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.Brand) + " " + strings.TrimSpace(p.Model))
}

// Validate reports the first score lying outside [ScoreMin, ScoreMax], or an
// evaluation date that matched no known layout.
func (p *Product) Validate() error {
	for _, s := range []struct {
		name string
		v    *float64
	}{
		{FieldRepairability, p.Repairability},
		{FieldReliability, p.Reliability},
		{FieldOverall, p.Overall},
	} {
		if s.v != nil && !scoreInRange(*s.v) {
			return fmt.Errorf("product %d: %s=%v outside [%v,%v]", p.ID, s.name, *s.v, ScoreMin, ScoreMax)
		}
	}
	if p.EvaluatedAt != nil && !p.EvaluatedAt.Valid() {
		return fmt.Errorf("product %d: %s=%q is not a date", p.ID, FieldEvaluatedAt, p.EvaluatedAt.raw)
	}
	return nil
}

// DropInvalid clears every out-of-range score and an undecodable evaluation
// date, and returns how many fields were cleared.
func (p *Product) DropInvalid() int {
	dropped := 0
	for _, s := range []**float64{&p.Repairability, &p.Reliability, &p.Overall} {
		if *s != nil && !scoreInRange(**s) {
			*s = nil
			dropped++
		}
	}
	if p.EvaluatedAt != nil && !p.EvaluatedAt.Valid() {
		p.EvaluatedAt = nil
		dropped++
	}
	return dropped
}

func scoreInRange(v float64) bool {
	return v >= ScoreMin && v <= ScoreMax
}

// Date is a calendar date that decodes both "2006-01-02" and ISO datetimes.
// Any other value decodes to an invalid Date instead of failing the document.
type Date struct {
	time.Time
	raw string
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NewDate truncates t to its calendar day.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Valid reports whether the value decoded to a calendar day.
func (d *Date) Valid() bool {
	return d != nil && !d.IsZero()
}

// Raw is the undecodable value, empty for a valid Date.
func (d *Date) Raw() string {
	return d.raw
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		d.raw = string(b)
		return nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time, d.raw = t.UTC(), ""
			return nil
		}
	}
	d.raw = raw
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}
