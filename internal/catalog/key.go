package catalog

import (
	"net/http"
	"net/url"
)

// RequestKey is the canonical signature of a catalog request:
// method, path and parameters sorted by key.
// Example: "GET /v1/machines?brand=LG&limit=20&offset=0"
func RequestKey(method, path string, params url.Values) string {
	if method == "" {
		method = http.MethodGet
	}
	key := method + " " + path
	if enc := params.Encode(); enc != "" {
		key += "?" + enc
	}
	return key
}
