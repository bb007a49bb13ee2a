package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/logging"
)

func (a *app) newOpenAPICmd() *cobra.Command {
	var (
		format    string
		serverURL string
		outFile   string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the database",
		Example: `  # Print JSON to stdout
  mockapi openapi --db db.json

  # Write YAML with an absolute server URL
  mockapi openapi --db db.json --format yaml --server-url https://api.example.com -o openapi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format %q: must be json or yaml", format)
			}
			cfg, err := a.resolveConfig(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd.Context(), cfg, logging.Nop())
			if err != nil {
				return err
			}

			doc := docs.BuildOpenAPI(state, serverURL, docs.Options{Title: cfg.Title})
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode OpenAPI document: %w", err)
			}
			data = append(data, '\n')
			if format == "yaml" {
				if data, err = jsonToYAML(data); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), outFile, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&serverURL, "server-url", "/", "Server URL written into the document")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("convert to YAML: %w", err)
	}
	clearStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("convert to YAML: %w", err)
	}
	return out, nil
}

// clearStyle drops the flow and quoting styles JSON input carries.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
