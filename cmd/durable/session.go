package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/durable/internal/app"
	"github.com/MrSnakeDoc/durable/internal/domain"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/render"
	"github.com/MrSnakeDoc/durable/internal/view"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// session is the catalog pipeline of one CLI invocation.
type session struct {
	core *app.Core
	log  logger.Logger
}

// openSession builds the pipeline and loads the brand index once.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, log := loadRuntime(cmd)

	core, err := app.NewCore(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	if err := core.LoadBrands(cmd.Context(), cfg); err != nil {
		core.Close()
		return nil, err
	}
	return &session{core: core, log: log}, nil
}

func (s *session) Close() {
	s.core.Close()
	_ = s.log.Sync()
}

func (s *session) presenter(locale string) *view.Presenter {
	if locale == "" {
		return s.core.Presenter
	}
	return view.NewPresenter(s.core.Resolver, locale)
}

// searchRequest is one search as typed by the user.
type searchRequest struct {
	Text     string
	Explicit url.Values
	Limit    int // 0 keeps the interpreted limit
	Offset   int
	Locale   string
}

func (r searchRequest) title() string {
	if len(r.Explicit) > 0 {
		return r.Explicit.Encode()
	}
	return r.Text
}

// search runs req and presents the page. An empty query is not an error.
func (s *session) search(ctx context.Context, req searchRequest) (view.ResultList, error) {
	presenter := s.presenter(req.Locale)

	q, err := s.core.Interpreter.Interpret(req.Text, req.Explicit)
	if errors.Is(err, domain.ErrEmptyQuery) {
		return presenter.List(nil), nil
	}
	if err != nil {
		return view.ResultList{}, err
	}
	if req.Limit > 0 {
		q.Limit = req.Limit
	}
	if req.Offset > 0 {
		q.Offset = req.Offset
	}
	q.Normalize()

	page, err := s.core.Catalog.Search(ctx, q)
	if err != nil {
		return view.ResultList{}, userError(err)
	}
	return presenter.List(page), nil
}

// userError rewords retryable catalog failures.
func userError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return fmt.Errorf("catalog unavailable, try again later: %w", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("no such product: %w", err)
	}
	return err
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case formatMarkdown, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatMarkdown, formatJSON)
}

func writeList(w io.Writer, format, title string, list view.ResultList) error {
	if strings.EqualFold(format, formatJSON) {
		return render.NewJSONWriter(w, true).Write(list)
	}
	return render.NewMarkdownWriter(w).WriteResults(title, list)
}
