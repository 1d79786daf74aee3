package main

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/durable/internal/domain"
)

// filterFlags maps CLI flags to catalog filter parameters.
var filterFlags = []struct {
	flag, param, usage string
}{
	{"brand", domain.ParamBrand, "Brand filter (disables text interpretation)"},
	{"model", domain.ParamModel, "Model filter"},
	{"min-repairability", domain.ParamMinRepairability, "Minimum repairability score (0-10)"},
	{"max-repairability", domain.ParamMaxRepairability, "Maximum repairability score (0-10)"},
	{"min-reliability", domain.ParamMinReliability, "Minimum reliability score (0-10)"},
	{"max-reliability", domain.ParamMaxReliability, "Maximum reliability score (0-10)"},
	{"year", domain.ParamYear, "Evaluation year"},
	{"sort-by", domain.ParamSortBy, "Sort field (note_reparabilite, note_fiabilite, note_id, date_calcul, nom_modele, nom_metteur_sur_le_marche)"},
	{"sort-order", domain.ParamSortOrder, "Sort order (ASC or DESC)"},
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Search the catalog once",
		Long: `Search interprets free text the way the website does, or runs the
explicit filters given as flags. Any filter flag takes precedence over the text.

Examples:
  durable search "la plus réparable"
  durable search Bosch --format json
  durable search --brand Miele --sort-by note_fiabilite
  durable search 2023 --offset 20 --locale de`,
		RunE: runSearchCmd,
	}

	for _, f := range filterFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().Int("limit", 0, "Page size (1-100, default 20)")
	cmd.Flags().Int("offset", 0, "Number of results to skip")
	cmd.Flags().StringP("format", "f", formatMarkdown, "Output format: markdown or json")
	cmd.Flags().String("locale", "", "Marketplace locale for purchase links (fr, de, it, es, uk)")

	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	req := searchRequestFromFlags(cmd, args)

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.search(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeList(cmd.OutOrStdout(), format, req.title(), list)
}

func searchRequestFromFlags(cmd *cobra.Command, args []string) searchRequest {
	req := searchRequest{
		Text:     strings.Join(args, " "),
		Explicit: url.Values{},
	}
	for _, f := range filterFlags {
		if v, _ := cmd.Flags().GetString(f.flag); v != "" {
			req.Explicit.Set(f.param, v)
		}
	}
	req.Limit, _ = cmd.Flags().GetInt("limit")
	req.Offset, _ = cmd.Flags().GetInt("offset")
	req.Locale, _ = cmd.Flags().GetString("locale")
	return req
}
