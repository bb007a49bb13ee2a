package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/config"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are shared by every command that reads a database.
type globalFlags struct {
	configFile string
	database   string
	embedded   bool
	title      string
	jsonOutput bool
}

// app carries what the command tree needs from the process.
type app struct {
	flags  globalFlags
	lookup config.LookupFunc
}

// NewRootCommand builds the command tree reading the process environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.LookupEnv)
}

func newRootCommand(lookup config.LookupFunc) *cobra.Command {
	a := &app{lookup: lookup}

	root := &cobra.Command{
		Use:   "mockapi",
		Short: "Serve a JSON document as a read-only REST API",
		Long: `mockapi turns a JSON document into a browsable REST API.

Every top-level array becomes a collection with list and detail routes,
filtering, search, pagination and relationship expansion. Documentation and
an OpenAPI document are generated from the data itself.

Configuration can be provided via flags, MOCKAPI_* environment variables, or
a YAML configuration file.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configFile, "config", "c", "", "Path to YAML configuration file")
	pf.StringVar(&a.flags.database, "db", "", "Database file or glob (default: built-in sample)")
	pf.BoolVar(&a.flags.embedded, "embedded", false, "Serve the built-in sample database")
	pf.StringVar(&a.flags.title, "title", "", "API title shown in the index and docs")
	pf.BoolVar(&a.flags.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		a.newServeCmd(),
		a.newOpenAPICmd(),
		a.newDocsCmd(),
		a.newCollectionsCmd(),
		newVersionCmd(&a.flags.jsonOutput),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(defaultToServe(args))
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// defaultToServe prepends "serve" when args start with flags (or are empty)
// so serve behaves as the default command.
func defaultToServe(args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	first := args[0]
	switch first {
	case "-h", "--help", "help", "completion", "__complete":
		return args
	}
	if strings.HasPrefix(first, "-") {
		return append([]string{"serve"}, args...)
	}
	return args
}

// resolveConfig loads file and environment settings, then applies the
// global flags that were set on cmd.
func (a *app) resolveConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.flags.configFile, Lookup: a.lookup})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = a.flags.database
		cfg.SetSource("database", config.SourceFlag)
	}
	if flags.Changed("embedded") {
		cfg.Embedded = a.flags.embedded
		cfg.SetSource("embedded", config.SourceFlag)
		if cfg.Embedded && !flags.Changed("db") {
			cfg.Database = ""
		}
	}
	if flags.Changed("title") {
		cfg.Title = a.flags.title
		cfg.SetSource("title", config.SourceFlag)
	}
	return cfg, nil
}
