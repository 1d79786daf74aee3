package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/view"
)

// MarkdownWriter prints result lists as GitHub-flavored markdown.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// WriteResults prints one search page. title is usually the raw query.
func (w *MarkdownWriter) WriteResults(title string, list view.ResultList) error {
	md := markdown.NewMarkdown(w.output)
	md.H1("Résultats : " + title)
	md.PlainText("")

	if list.EmptyQuery {
		md.Note("Requête vide, aucune recherche lancée.")
		md.PlainText("")
		return md.Build()
	}
	if len(list.Cards) == 0 {
		md.PlainText("Aucun lave-linge ne correspond.")
		md.PlainText("")
		return md.Build()
	}

	rows := make([][]string, 0, len(list.Cards))
	for _, c := range list.Cards {
		rows = append(rows, []string{
			strconv.FormatInt(c.Product.ID, 10),
			c.Product.DisplayName(),
			score(c.Product.Repairability),
			score(c.Product.Reliability),
			score(c.Product.Overall),
			evaluated(c.Product.EvaluatedAt),
			fmt.Sprintf("[%s](%s)", c.LinkLabel, c.Link.URL),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Modèle", "Réparabilité", "Fiabilité", "Durabilité", "Évalué le", "Achat"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("%d-%d sur %d", list.Offset+1, list.Offset+len(list.Cards), list.Total)
	if list.HasMore {
		md.PlainText("")
		md.Tip(fmt.Sprintf("Page suivante : --offset %d", list.NextOffset))
	}
	return md.Build()
}

// WriteProduct prints a detail card.
func (w *MarkdownWriter) WriteProduct(c view.Card) error {
	p := c.Product
	md := markdown.NewMarkdown(w.output)
	md.H1(p.DisplayName())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Propriété", "Valeur"},
		Rows: [][]string{
			{"Identifiant", p.IDUnique},
			{"Catégorie", p.Category},
			{"Réparabilité", score(p.Repairability)},
			{"Fiabilité", score(p.Reliability)},
			{"Durabilité", score(p.Overall)},
			{"Évalué le", evaluated(p.EvaluatedAt)},
			{"Prix", price(p.PriceEUR)},
		},
	})
	md.PlainText("")
	if p.DetailReportURL != "" {
		md.PlainTextf("Grille officielle : %s", p.DetailReportURL)
		md.PlainText("")
	}
	if d := p.Details; !d.IsZero() {
		writeDetails(md, d)
	}
	md.HorizontalRule()
	md.PlainTextf("[%s](%s)", c.LinkLabel, c.Link.URL)
	return md.Build()
}

func writeDetails(md *markdown.Markdown, d *domain.Details) {
	var criteria [][]string
	for i, v := range d.RepairCriteria {
		criteria = append(criteria, []string{fmt.Sprintf("A%d", i+1), "Réparabilité", score(v)})
	}
	for i, v := range d.ReliabilityCriteria {
		criteria = append(criteria, []string{fmt.Sprintf("B%d", i+1), "Fiabilité", score(v)})
	}
	if len(criteria) > 0 {
		md.H2("Critères")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Critère", "Indice", "Note"}, Rows: criteria})
		md.PlainText("")
	}

	if len(d.SpareParts) > 0 {
		rows := make([][]string, 0, len(d.SpareParts))
		for i, part := range d.SpareParts {
			steps := part.Disassembly
			if steps == "" {
				steps = "-"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), part.Name, steps})
		}
		md.H2("Pièces détachées")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"#", "Pièce", "Étapes de démontage"}, Rows: rows})
		md.PlainText("")
	}

	var info []string
	if d.UsageCounter != "" {
		info = append(info, "Compteur d'usage : "+d.UsageCounter)
	}
	if d.UserDocumentationURL != "" {
		info = append(info, "Documentation particuliers : "+d.UserDocumentationURL)
	}
	if d.ProDocumentationURL != "" {
		info = append(info, "Documentation professionnels : "+d.ProDocumentationURL)
	}
	if len(info) > 0 {
		md.BulletList(info...)
		md.PlainText("")
	}
}

// WriteBrands prints the brand list.
func (w *MarkdownWriter) WriteBrands(brands []string) error {
	md := markdown.NewMarkdown(w.output)
	md.H2("Marques")
	md.PlainText("")
	if len(brands) == 0 {
		md.PlainText("Liste des marques indisponible.")
		return md.Build()
	}
	md.BulletList(brands...)
	return md.Build()
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "/10"
}

func evaluated(d *domain.Date) string {
	if !d.Valid() {
		return "-"
	}
	return d.Format("2006-01-02")
}

func price(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + " €"
}
