// Package cli implements the mockapi command tree.
//
// Running mockapi without a subcommand starts the server, so
//
//	mockapi --db db.json --port 8080
//
// is the same as
//
//	mockapi serve --db db.json --port 8080
//
// Settings resolve in order: built-in defaults, the YAML config file, MOCKAPI_*
// environment variables, then flags.
package cli
