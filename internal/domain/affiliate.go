package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkKind tags how an affiliate link was built.
type LinkKind string

const (
	LinkDirectProduct  LinkKind = "direct-product"
	LinkSearchFallback LinkKind = "search-fallback"
)

const (
	DefaultAffiliateTag = "lebrugere-21"
	DefaultLocale       = "fr"
)

// Marketplaces maps a locale to its marketplace host.
var Marketplaces = map[string]string{
	"fr": "www.amazon.fr",
	"de": "www.amazon.de",
	"it": "www.amazon.it",
	"es": "www.amazon.es",
	"uk": "www.amazon.co.uk",
}

// AffiliateLink is the single outbound purchase URL of a product.
type AffiliateLink struct {
	URL      string   `json:"url"`
	Kind     LinkKind `json:"kind"`
	IsDirect bool     `json:"is_direct"`
	ASIN     string   `json:"asin,omitempty"`
}

// AffiliateInput is what the resolver needs to know about a product.
type AffiliateInput struct {
	Brand     string
	Model     string
	ASIN      string
	DirectURL string
	Locale    string
}

// AffiliateInputFor extracts resolver input from a product.
func AffiliateInputFor(p *Product, locale string) AffiliateInput {
	return AffiliateInput{
		Brand:     p.Brand,
		Model:     p.Model,
		ASIN:      p.ASIN,
		DirectURL: p.MarketURL,
		Locale:    locale,
	}
}

// AffiliateSource is the winning source of a link: DirectURL, ASIN or SearchFallback.
type AffiliateSource interface {
	affiliateSource()
}

type DirectURL struct{ URL string }

type ASIN struct{ Code string }

type SearchFallback struct{ Keywords string }

func (DirectURL) affiliateSource()      {}
func (ASIN) affiliateSource()           {}
func (SearchFallback) affiliateSource() {}

// SourceOf classifies in by precedence: direct URL, then ASIN, then search.
func SourceOf(in AffiliateInput) AffiliateSource {
	if u := strings.TrimSpace(in.DirectURL); u != "" {
		return DirectURL{URL: in.DirectURL}
	}
	if a := strings.TrimSpace(in.ASIN); a != "" {
		return ASIN{Code: a}
	}
	return SearchFallback{Keywords: searchKeywords(in.Brand, in.Model)}
}

func searchKeywords(brand, model string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{brand, model} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// AffiliateResolver builds outbound purchase URLs. The zero value is not
// usable; use NewAffiliateResolver.
type AffiliateResolver struct {
	tag           string
	defaultLocale string
}

// NewAffiliateResolver returns a resolver for tag. Unknown or empty locales
// resolve against defaultLocale, itself falling back to "fr".
func NewAffiliateResolver(tag, defaultLocale string) *AffiliateResolver {
	if tag == "" {
		tag = DefaultAffiliateTag
	}
	if _, ok := Marketplaces[defaultLocale]; !ok {
		defaultLocale = DefaultLocale
	}
	return &AffiliateResolver{tag: tag, defaultLocale: defaultLocale}
}

// Host returns the marketplace host for locale.
func (r *AffiliateResolver) Host(locale string) string {
	if h, ok := Marketplaces[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return h
	}
	return Marketplaces[r.defaultLocale]
}

// BestLink picks the most precise purchase URL. It never fails and is
// referentially transparent.
func (r *AffiliateResolver) BestLink(in AffiliateInput) AffiliateLink {
	host := r.Host(in.Locale)

	switch src := SourceOf(in).(type) {
	case DirectURL:
		return AffiliateLink{
			URL:      src.URL,
			Kind:     LinkDirectProduct,
			IsDirect: true,
			ASIN:     firstNonEmpty(strings.TrimSpace(in.ASIN), ExtractASIN(src.URL)),
		}
	case ASIN:
		return AffiliateLink{
			URL:      "https://" + host + "/dp/" + url.PathEscape(src.Code) + "?tag=" + url.QueryEscape(r.tag),
			Kind:     LinkDirectProduct,
			IsDirect: true,
			ASIN:     src.Code,
		}
	case SearchFallback:
		return AffiliateLink{
			URL:  "https://" + host + "/s?k=" + escapeKeywords(src.Keywords) + "&tag=" + url.QueryEscape(r.tag),
			Kind: LinkSearchFallback,
		}
	default:
		panic("unreachable affiliate source")
	}
}

// ProductLink is BestLink for a catalog product.
func (r *AffiliateResolver) ProductLink(p *Product, locale string) AffiliateLink {
	return r.BestLink(AffiliateInputFor(p, locale))
}

// escapeKeywords percent-encodes like encodeURIComponent for the characters
// that matter here: spaces become %20, not "+".
func escapeKeywords(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})`),
}

// ExtractASIN returns the ten-character ASIN embedded in a marketplace URL, or "".
func ExtractASIN(rawURL string) string {
	for _, re := range asinPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
