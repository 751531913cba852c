package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/duoquiz/internal/domain/types"
	"github.com/spf13/cobra"
)

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the personal, solo and duo types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return writeCatalog(cmd.OutOrStdout(), types.NewCatalog(), asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print the catalog as JSON")
	return cmd
}

func writeCatalog(out io.Writer, c types.Catalog, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	fmt.Fprintln(out, "Personal types")
	for _, p := range c.Personal {
		fmt.Fprintf(out, "  %d  %s %s: %s\n", p.ID, p.Avatar, p.Name, p.Headline)
	}
	fmt.Fprintln(out, "\nSolo variants")
	for _, s := range c.Solo {
		fmt.Fprintf(out, "  %-10s %s %s: %s\n", s.ID, s.Avatar, s.Title, s.Summary)
	}
	fmt.Fprintln(out, "\nDuo variants")
	for _, d := range c.Duo {
		fmt.Fprintf(out, "  %-18s %s %s: %s\n", d.ID, d.Emoji, d.Title, d.Message)
	}
	return nil
}
