package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/cli/internal/output"
	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/logging"
)

// collectionSummary is one row of the collections listing.
type collectionSummary struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	Fields    []string `json:"fields"`
	Relations []string `json:"relations"`
}

func (a *app) newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "collections",
		Aliases: []string{"ls"},
		Short:   "List the collections in the database",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolveConfig(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd.Context(), cfg, logging.Nop())
			if err != nil {
				return err
			}

			view := docs.BuildView(state, time.Time{}, docs.Options{})
			rows := make([]collectionSummary, 0, len(view.Resources))
			for _, r := range view.Resources {
				rels := make([]string, 0, len(r.Relationships))
				for _, rel := range r.Relationships {
					rels = append(rels, rel.Field+"->"+rel.Target)
				}
				rows = append(rows, collectionSummary{Name: r.Name, Count: r.Count, Fields: r.Fields, Relations: rels})
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonOutput {
				return output.JSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No collections")
				return nil
			}
			tw := output.Table(out)
			fmt.Fprintln(tw, "NAME\tCOUNT\tFIELDS\tRELATIONS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, r.Count, dash(strings.Join(r.Fields, ",")), dash(strings.Join(r.Relations, ",")))
			}
			return tw.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
