package view

import (
	"strconv"

	"github.com/MrSnakeDoc/durable/internal/domain"
)

// Affiliate button labels.
const (
	LabelDirect   = "Voir sur Amazon"
	LabelFallback = "Rechercher sur Amazon"
)

// Card is what a result list shows for one product.
type Card struct {
	Product    domain.Product       `json:"product"`
	DetailPath string               `json:"detail_path,omitempty"`
	Image      string               `json:"image,omitempty"`
	Link       domain.AffiliateLink `json:"affiliate"`
	LinkLabel  string               `json:"affiliate_label"`
}

// ResultList is a rendered search page.
type ResultList struct {
	Cards      []Card `json:"cards"`
	Total      int    `json:"total"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	HasMore    bool   `json:"has_more"`
	NextOffset int    `json:"next_offset,omitempty"`
	EmptyQuery bool   `json:"empty_query,omitempty"`
}

// Presenter turns catalog results into cards.
type Presenter struct {
	resolver *domain.AffiliateResolver
	locale   string
}

func NewPresenter(resolver *domain.AffiliateResolver, locale string) *Presenter {
	return &Presenter{resolver: resolver, locale: locale}
}

// Card builds the card of p. Products without an id get no detail path.
func (pr *Presenter) Card(p domain.Product) Card {
	link := pr.resolver.ProductLink(&p, pr.locale)
	c := Card{
		Product:   p,
		Image:     PreferredImage(&p),
		Link:      link,
		LinkLabel: Label(link),
	}
	if p.Linkable() {
		c.DetailPath = DetailPath(p.ID)
	}
	return c
}

// List renders a whole page. A nil page is the "no search" state.
func (pr *Presenter) List(page *domain.SearchResultPage) ResultList {
	if page == nil {
		return ResultList{Cards: []Card{}, EmptyQuery: true}
	}
	out := ResultList{
		Cards:   make([]Card, 0, len(page.Products)),
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
	for _, p := range page.Products {
		out.Cards = append(out.Cards, pr.Card(p))
	}
	if page.HasMore {
		out.NextOffset = page.NextOffset()
	}
	return out
}

// DetailPath returns the product page path.
func DetailPath(id int64) string {
	return "/machines/" + strconv.FormatInt(id, 10)
}

// PreferredImage picks the locally cached image before the marketplace one.
func PreferredImage(p *domain.Product) string {
	if p.LocalImageRef != "" {
		return p.LocalImageRef
	}
	return p.MarketImage
}

// Label is the button text for link.
func Label(link domain.AffiliateLink) string {
	if link.IsDirect {
		return LabelDirect
	}
	return LabelFallback
}
