package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"valyurag/internal/usecase"
)

var (
	researchQuery string
	researchFetch int
	researchTopK  int
	researchJSON  bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Search, then fetch full content for the top links",
	Long: `Run a DeepSearch query and extract full page content for the first N links.

Examples:
  valyu research -q "grid-scale storage" --fetch 3
  valyu research -q "CRISPR delivery" --fetch 5 --json`,
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().StringVarP(&researchQuery, "query", "q", "", "search query (required)")
	researchCmd.Flags().IntVar(&researchFetch, "fetch", 3, "number of top links to fetch content for")
	researchCmd.Flags().IntVarP(&researchTopK, "top-k", "k", 0, "number of search results (default from config)")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "output as JSON")
	researchCmd.MarkFlagRequired("query")
}

type researchOutput struct {
	Query    string         `json:"query"`
	Results  []recordOutput `json:"results"`
	Contents []recordOutput `json:"contents"`
}

func runResearch(cmd *cobra.Command, args []string) error {
	searcher, err := newSearchAdapter(searchOverrides(researchTopK, ""))
	if err != nil {
		return err
	}
	fetcher, err := newContentAdapter()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(2,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Searching[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	researchUC := usecase.NewResearchUseCase(searcher, fetcher, logger)
	researchUC.OnStage(func(stage usecase.ResearchStage) {
		if stage == usecase.StageSearch {
			bar.Describe("[cyan]Fetching[reset]")
		}
		bar.Add(1)
	})

	res, err := researchUC.Research(cmd.Context(), researchQuery, researchFetch)
	if err != nil {
		bar.Exit()
		return fmt.Errorf("research failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if researchJSON {
		return writeJSON(out, researchOutput{
			Query:    res.Query,
			Results:  toOutput(res.Search.Documents),
			Contents: toOutput(res.Contents),
		})
	}

	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(res.Search.Documents), res.Query)
	writeRecords(out, res.Search.Documents)
	if len(res.Contents) > 0 {
		fmt.Fprintf(out, "=== Full content for %d links ===\n\n", len(res.Contents))
		writeRecords(out, res.Contents)
	}
	return nil
}
