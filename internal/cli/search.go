package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"valyurag/config"
)

var (
	searchQuery string
	searchTopK  int
	searchType  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Valyu sources",
	Long: `Run one DeepSearch query and print the returned content records.

Examples:
  valyu search -q "solid state batteries"
  valyu search -q "protein folding" --search-type proprietary --top-k 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().StringVar(&searchType, "search-type", "", "web, proprietary or all (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	adapter, err := newSearchAdapter(searchOverrides(searchTopK, searchType))
	if err != nil {
		return err
	}

	res, err := adapter.Run(cmd.Context(), searchQuery)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		return writeJSON(out, toOutput(res.Documents))
	}
	if len(res.Documents) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	settings := adapter.Config()
	fmt.Fprintf(out, "Found %d results for: %s (%s sources, top %d)\n\n", len(res.Documents), searchQuery, settings.SearchType, settings.TopK)
	writeRecords(out, res.Documents)
	return nil
}

func searchOverrides(topK int, st string) func(*config.SearchConfig) {
	return func(sc *config.SearchConfig) {
		if topK > 0 {
			sc.TopK = topK
		}
		if st != "" {
			sc.SearchType = st
		}
	}
}
