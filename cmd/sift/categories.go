package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kestrelworks/sift/internal/common"
	"github.com/kestrelworks/sift/internal/config"
	"github.com/kestrelworks/sift/internal/prompt"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List configured categories",
		Long:  `Display the configured debit and credit categories with their patterns and reimbursement formulas.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return common.NewUserError("failed to load configuration", err)
			}

			printCategories("Debit categories", cfg.DebitCategories)
			fmt.Println()
			printCategories("Credit categories", cfg.CreditCategories)
			return nil
		},
	}
}

func printCategories(title string, categories []config.Category) {
	fmt.Println(prompt.TitleStyle.Render(title))
	if len(categories) == 0 {
		fmt.Println(prompt.InfoStyle.Render("  (none)"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tPATTERNS\tREIMBURSEMENT")
	for _, c := range categories {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", c.Name, strings.Join(c.Patterns, ", "), c.Reimbursement)
	}
	_ = w.Flush()
}
