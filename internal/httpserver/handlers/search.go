package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/httpserver/deps"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/view"
)

type searchResponse struct {
	Query *domain.CanonicalQuery `json:"query,omitempty"`
	Rule  string                 `json:"rule,omitempty"`
	view.ResultList
}

// Search interprets ?q= as free text. Any other recognized filter makes the
// request explicit and q is ignored. limit and offset page either kind.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		raw := strings.TrimSpace(params.Get(domain.ParamTerm))

		explicit := url.Values{}
		for _, key := range domain.KnownParams {
			switch key {
			case domain.ParamTerm, domain.ParamLimit, domain.ParamOffset:
				continue
			}
			if v := params.Get(key); v != "" {
				explicit.Set(key, v)
			}
		}

		presenter := presenterFor(r, d)

		q, err := d.Interpreter.Interpret(raw, explicit)
		if errors.Is(err, domain.ErrEmptyQuery) {
			writeJSON(w, http.StatusOK, searchResponse{ResultList: presenter.List(nil)})
			return
		}
		if err != nil {
			writeCatalogError(w, d.Logger, err)
			return
		}

		var rule string
		if len(explicit) == 0 {
			rule, _ = d.Interpreter.MatchRule(raw)
		}
		if n, err := strconv.Atoi(params.Get(domain.ParamLimit)); err == nil {
			q.Limit = n
		}
		if n, err := strconv.Atoi(params.Get(domain.ParamOffset)); err == nil {
			q.Offset = n
		}
		q.Normalize()

		page, err := d.Catalog.Search(r.Context(), q)
		if err != nil {
			writeCatalogError(w, d.Logger, err)
			return
		}

		d.Logger.Debug("search",
			logger.String("raw", raw),
			logger.String("rule", rule),
			logger.Int("total", page.Total))
		writeJSON(w, http.StatusOK, searchResponse{Query: &q, Rule: rule, ResultList: presenter.List(page)})
	}
}
