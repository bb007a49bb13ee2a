package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/cli/internal/output"
	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/logging"
)

func (a *app) newDocsCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Print the documentation view as JSON",
		Long: `Print the documentation view served at /docs?format=json: every
collection with its fields, inferred relationships, routes and a sample record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolveConfig(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd.Context(), cfg, logging.Nop())
			if err != nil {
				return err
			}
			view := docs.BuildView(state, time.Now(), docs.Options{Title: cfg.Title, BaseURL: baseURL})
			return output.JSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL reported in the view")
	return cmd
}
