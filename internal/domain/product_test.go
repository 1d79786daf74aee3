package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestProductDecode(t *testing.T) {
	raw := `{
		"id": 42,
		"id_unique": "SAMSUNG_WW90",
		"nom_metteur_sur_le_marche": "Samsung",
		"nom_modele": "WW90",
		"date_calcul": "2024-03-01T00:00:00",
		"note_reparabilite": 7.5,
		"note_fiabilite": null,
		"note_id": 12,
		"amazon_asin": "B0ABCDEFGH"
	}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !p.Linkable() || p.DisplayName() != "Samsung WW90" {
		t.Errorf("identity = %d %q", p.ID, p.DisplayName())
	}
	if p.EvaluatedAt == nil || !p.EvaluatedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EvaluatedAt = %v", p.EvaluatedAt)
	}
	if p.Reliability != nil {
		t.Errorf("Reliability = %v, want nil", *p.Reliability)
	}
	if err := p.Validate(); err == nil {
		t.Error("Validate() = nil, want out-of-range error")
	}
	if n := p.DropInvalid(); n != 1 || p.Overall != nil {
		t.Errorf("DropInvalid() = %d, Overall = %v", n, p.Overall)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() after drop = %v", err)
	}
}

func TestDateMarshal(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, time.January, 9))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-01-09"` {
		t.Errorf("Marshal = %s", b)
	}

}

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		valid   bool
		wantRaw string
	}{
		{"date", `"2025-01-09"`, true, ""},
		{"rfc3339", `"2025-01-09T10:00:00Z"`, true, ""},
		{"naive datetime", `"2025-01-09 10:00:00"`, true, ""},
		{"day first", `"09/01/2025"`, false, "09/01/2025"},
		{"number", `20250109`, false, "20250109"},
		{"empty", `""`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.raw), &d); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if d.Valid() != tt.valid || d.Raw() != tt.wantRaw {
				t.Errorf("Valid() = %v, Raw() = %q", d.Valid(), d.Raw())
			}
		})
	}
}

func TestProductWithUnknownDateLayout(t *testing.T) {
	var p Product
	raw := `{"id":3,"nom_metteur_sur_le_marche":"Beko","date_calcul":"01/05/2024","note_reparabilite":6.5}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := p.Validate(); err == nil {
		t.Error("Validate() = nil, want date error")
	}
	if n := p.DropInvalid(); n != 1 || p.EvaluatedAt != nil {
		t.Errorf("DropInvalid() = %d, EvaluatedAt = %v", n, p.EvaluatedAt)
	}
	if p.Repairability == nil || *p.Repairability != 6.5 {
		t.Errorf("Repairability = %v", p.Repairability)
	}
}

func TestProductDetailsDecode(t *testing.T) {
	raw := `{
		"id": 5,
		"nom_metteur_sur_le_marche": "Bosch",
		"note_A_c1": 9, "note_A_c2": 7.5,
		"note_B_c1": null, "note_B_c2": null, "note_B_c3": null,
		"accessibilite_compteur_usage": 1,
		"lien_documentation_professionnels": " https://bosch.example/pro ",
		"nom_piece_1_liste_2": "Carte électronique",
		"etape_demontage_piece_1_liste_2": "5",
		"nom_piece_2_liste_2": null,
		"nom_piece_4_liste_2": "Joint de hublot",
		"etape_demontage_piece_4_liste_2": "2"
	}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	d := p.Details
	if d == nil {
		t.Fatal("Details = nil")
	}
	if len(d.RepairCriteria) != 4 || *d.RepairCriteria[1] != 7.5 || d.RepairCriteria[2] != nil {
		t.Errorf("RepairCriteria = %v", d.RepairCriteria)
	}
	if d.ReliabilityCriteria != nil {
		t.Errorf("ReliabilityCriteria = %v, want nil when none published", d.ReliabilityCriteria)
	}
	if d.UsageCounter != "1" || d.ProDocumentationURL != "https://bosch.example/pro" {
		t.Errorf("Details = %+v", d)
	}
	want := []SparePart{{Name: "Carte électronique", Disassembly: "5"}, {Name: "Joint de hublot", Disassembly: "2"}}
	if !reflect.DeepEqual(d.SpareParts, want) {
		t.Errorf("SpareParts = %+v, want %+v", d.SpareParts, want)
	}

	// Re-encoded products keep their details.
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var again Product
	if err := json.Unmarshal(b, &again); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again.Details, p.Details) {
		t.Errorf("round trip Details = %+v", again.Details)
	}
}

func TestProductWithoutDetails(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":1,"nom_metteur_sur_le_marche":"LG","note_A_c1":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Details != nil {
		t.Errorf("Details = %+v, want nil", p.Details)
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name string
		page SearchResultPage
		want bool
	}{
		{"more left", SearchResultPage{Products: make([]Product, 20), Total: 45, Offset: 20}, true},
		{"last page", SearchResultPage{Products: make([]Product, 5), Total: 45, Offset: 40}, false},
		{"short page despite limit", SearchResultPage{Products: make([]Product, 3), Total: 3, Limit: 20, HasMore: true}, false},
		{"empty", SearchResultPage{Total: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.page
			p.Settle()
			if p.HasMore != tt.want {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tt.want)
			}
			if p.Products == nil || p.Total < 0 {
				t.Errorf("Settle() left %+v", p)
			}
		})
	}
}
