package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alexandremahdhaoui/ez-relink/internal/board"
	"github.com/spf13/cobra"
)

func (a *app) newBoardsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List the boards relink knows about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			boards := listBoards(s.Registry)

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(boards)
			}

			return printBoards(cmd.OutOrStdout(), boards)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")

	return cmd
}

func listBoards(r *board.Registry) []board.Board {
	out := make([]board.Board, 0)
	for _, name := range r.Names() {
		b, _ := r.Lookup(name)
		out = append(out, b)
	}

	return out
}

func printBoards(w io.Writer, boards []board.Board) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "BOARD\tRELINK\tSECONDARY\tSUB-BUILD\tOVERRIDES")
	for _, b := range boards {
		relink := "disabled"
		if b.RelinkEnabled {
			relink = "enabled"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			b.Name,
			relink,
			b.SecondaryArtifact,
			strings.Join(b.SubBuildCommand, " "),
			strings.Join(b.OverrideVars(), ","),
		)
	}

	return tw.Flush()
}
