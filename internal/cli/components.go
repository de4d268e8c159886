package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"valyurag/internal/adapter/valyu"
	"valyurag/internal/port"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List pipeline components and their sockets",
	RunE: func(cmd *cobra.Command, args []string) error {
		writeComponents(cmd.OutOrStdout(), []port.Component{
			valyu.NewSearchComponent(nil),
			valyu.NewContentComponent(nil),
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(componentsCmd)
}

func writeComponents(w io.Writer, components []port.Component) {
	for _, c := range components {
		fmt.Fprintln(w, c.Name())
		for _, s := range c.InputSockets() {
			fmt.Fprintf(w, "  in   %-10s %s%s\n", s.Name, s.Type, optionalMark(s))
		}
		for _, s := range c.OutputSockets() {
			fmt.Fprintf(w, "  out  %-10s %s\n", s.Name, s.Type)
		}
	}
}

func optionalMark(s port.Socket) string {
	if s.Optional {
		return " (optional)"
	}
	return ""
}
