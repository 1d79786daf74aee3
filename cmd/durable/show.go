package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/durable/internal/render"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}
			locale, _ := cmd.Flags().GetString("locale")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.core.Catalog.ProductDetails(cmd.Context(), id)
			if err != nil {
				return userError(err)
			}
			card := s.presenter(locale).Card(*p)
			if strings.EqualFold(format, formatJSON) {
				return render.NewJSONWriter(cmd.OutOrStdout(), true).Write(card)
			}
			return render.NewMarkdownWriter(cmd.OutOrStdout()).WriteProduct(card)
		},
	}
	cmd.Flags().StringP("format", "f", formatMarkdown, "Output format: markdown or json")
	cmd.Flags().String("locale", "", "Marketplace locale for the purchase link")
	return cmd
}

// NewBrandsCmd creates the brands command.
func NewBrandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List the brands known to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if known, _ := cmd.Flags().GetBool("known"); known {
				return render.NewMarkdownWriter(cmd.OutOrStdout()).WriteBrands(s.core.Brands.All())
			}
			return render.NewMarkdownWriter(cmd.OutOrStdout()).WriteBrands(s.core.Catalog.Brands(cmd.Context()))
		},
	}
	cmd.Flags().Bool("known", false, "List the brand index used for text detection instead")
	return cmd
}
