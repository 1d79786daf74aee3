package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Details is the scoring breakdown published on a product detail page.
type Details struct {
	// RepairCriteria are the sub-scores A1..A4 behind the repairability score,
	// ReliabilityCriteria the sub-scores B1..B3 behind the reliability score.
	// A nil entry is a criterion the catalog did not publish.
	RepairCriteria      []*float64 `json:"repair_criteria,omitempty"`
	ReliabilityCriteria []*float64 `json:"reliability_criteria,omitempty"`

	// UsageCounter describes how the usage counter can be read.
	UsageCounter string `json:"usage_counter,omitempty"`

	ProDocumentationURL  string `json:"pro_documentation_url,omitempty"`
	UserDocumentationURL string `json:"user_documentation_url,omitempty"`

	// SpareParts keeps the catalog order (part 1 first).
	SpareParts []SparePart `json:"spare_parts,omitempty"`
}

// SparePart is one entry of the spare parts list with its disassembly steps.
type SparePart struct {
	Name        string `json:"name"`
	Disassembly string `json:"disassembly,omitempty"`
}

// IsZero reports whether no detail field is set.
func (d *Details) IsZero() bool {
	return d == nil || (len(d.RepairCriteria) == 0 &&
		len(d.ReliabilityCriteria) == 0 &&
		d.UsageCounter == "" &&
		d.ProDocumentationURL == "" &&
		d.UserDocumentationURL == "" &&
		len(d.SpareParts) == 0)
}

// detailsWire is the flat column layout of the catalog.
type detailsWire struct {
	A1 *float64 `json:"note_A_c1"`
	A2 *float64 `json:"note_A_c2"`
	A3 *float64 `json:"note_A_c3"`
	A4 *float64 `json:"note_A_c4"`
	B1 *float64 `json:"note_B_c1"`
	B2 *float64 `json:"note_B_c2"`
	B3 *float64 `json:"note_B_c3"`

	UsageCounter looseText `json:"accessibilite_compteur_usage"`
	ProDoc       string    `json:"lien_documentation_professionnels"`
	UserDoc      string    `json:"lien_documentation_particuliers"`

	Part1 string `json:"nom_piece_1_liste_2"`
	Part2 string `json:"nom_piece_2_liste_2"`
	Part3 string `json:"nom_piece_3_liste_2"`
	Part4 string `json:"nom_piece_4_liste_2"`
	Part5 string `json:"nom_piece_5_liste_2"`
	Step1 string `json:"etape_demontage_piece_1_liste_2"`
	Step2 string `json:"etape_demontage_piece_2_liste_2"`
	Step3 string `json:"etape_demontage_piece_3_liste_2"`
	Step4 string `json:"etape_demontage_piece_4_liste_2"`
	Step5 string `json:"etape_demontage_piece_5_liste_2"`
}

func (w detailsWire) details() *Details {
	d := &Details{
		RepairCriteria:       criteria(w.A1, w.A2, w.A3, w.A4),
		ReliabilityCriteria:  criteria(w.B1, w.B2, w.B3),
		UsageCounter:         string(w.UsageCounter),
		ProDocumentationURL:  strings.TrimSpace(w.ProDoc),
		UserDocumentationURL: strings.TrimSpace(w.UserDoc),
	}

	names := []string{w.Part1, w.Part2, w.Part3, w.Part4, w.Part5}
	steps := []string{w.Step1, w.Step2, w.Step3, w.Step4, w.Step5}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		d.SpareParts = append(d.SpareParts, SparePart{Name: name, Disassembly: strings.TrimSpace(steps[i])})
	}
	return d
}

// criteria keeps positions stable and returns nil when nothing is published.
func criteria(scores ...*float64) []*float64 {
	for _, s := range scores {
		if s != nil {
			return scores
		}
	}
	return nil
}

// looseText accepts a string, number or boolean column as text.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = looseText(strings.TrimSpace(s))
		return nil
	}
	*t = looseText(bytes.TrimSpace(b))
	return nil
}
