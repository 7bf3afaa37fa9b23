package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List saved searches, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("prospects"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		searches, err := st.ListSearches(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "searches")
		}
		if len(searches) == 0 {
			fmt.Fprintln(os.Stderr, "No searches found.")
			return nil
		}

		formatSearches(os.Stdout, searches)
		return nil
	},
}

func init() {
	searchesCmd.Flags().Int("limit", 20, "max number of searches to display")
	rootCmd.AddCommand(searchesCmd)
}
