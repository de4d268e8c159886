package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"valyurag/internal/adapter/fs"
)

var (
	fetchFrom    []string
	fetchExclude []string
	fetchJSON    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Extract page content for URLs",
	Long: `Fetch clean page content through the Valyu Contents API.

URLs come from arguments and from list files matched by --from glob patterns
(relative to --dir). List files hold one URL per line; '#' starts a comment.

Examples:
  valyu fetch https://example.com/a https://example.com/b
  valyu fetch --from "seeds/**/*.txt" --json`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringSliceVar(&fetchFrom, "from", nil, "glob patterns of URL list files")
	fetchCmd.Flags().StringSliceVar(&fetchExclude, "exclude", nil, "glob patterns to skip")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), args...)
	if len(fetchFrom) > 0 {
		listed, err := fs.NewURLListReader(fetchFrom, fetchExclude).Read(GetRootDir())
		if err != nil {
			return fmt.Errorf("failed to read url lists: %w", err)
		}
		urls = append(urls, listed...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no urls given; pass urls as arguments or use --from")
	}

	adapter, err := newContentAdapter()
	if err != nil {
		return err
	}

	records, err := adapter.Run(cmd.Context(), urls, nil)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if fetchJSON {
		return writeJSON(out, toOutput(records))
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No content returned.")
		return nil
	}
	fmt.Fprintf(out, "Fetched %d records for %d urls\n", len(records), len(urls))
	if settings := adapter.Config(); settings.Summary.IsSet() {
		fmt.Fprintf(out, "Summary directive: %s\n", settings.Summary.Kind)
	}
	fmt.Fprintln(out)
	writeRecords(out, records)
	return nil
}
