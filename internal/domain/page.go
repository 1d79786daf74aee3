package domain

// SearchResultPage is one page of catalog results.
type SearchResultPage struct {
	Products []Product `json:"machines"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	HasMore  bool      `json:"has_more"`
}

// Settle recomputes HasMore from the page content and clamps a negative total.
// Upstream computes has_more from the requested limit; the received length is
// what matters to callers.
func (p *SearchResultPage) Settle() {
	if p.Total < 0 {
		p.Total = 0
	}
	if p.Products == nil {
		p.Products = []Product{}
	}
	p.HasMore = p.Offset+len(p.Products) < p.Total
}

// NextOffset returns the offset of the following page.
func (p *SearchResultPage) NextOffset() int {
	return p.Offset + len(p.Products)
}
