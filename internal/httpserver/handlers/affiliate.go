package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/view"
)

type affiliateResponse struct {
	Link  domain.AffiliateLink `json:"link"`
	Label string               `json:"label"`
}

// Affiliate resolves a purchase link from ?brand=&model=&asin=&url=&locale=.
func Affiliate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		link := d.Resolver.BestLink(domain.AffiliateInput{
			Brand:     q.Get("brand"),
			Model:     q.Get("model"),
			ASIN:      q.Get("asin"),
			DirectURL: q.Get("url"),
			Locale:    localeOf(r, d.Locale),
		})
		writeJSON(w, http.StatusOK, affiliateResponse{Link: link, Label: view.Label(link)})
	}
}
