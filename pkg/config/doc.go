// Package config holds the server configuration and the rules for loading it.
//
// Values are resolved in increasing precedence:
//
//	defaults < YAML config file < environment < command-line flags
//
// Every value that does not come from the defaults is recorded in
// ServerConfig.Sources, keyed by its YAML name, so the effective
// configuration can be explained.
//
// A config file looks like:
//
//	port: 3000
//	adminPort: 9090
//	database: data/*.json
//	title: Mock Sports Coaching API
//	log:
//	  level: debug
//	  format: json
//	cors:
//	  allowOrigins: ["https://app.example.com"]
//
// Environment variables: PORT and DB_FILE, plus MOCKAPI_PORT,
// MOCKAPI_ADMIN_PORT, MOCKAPI_HOST, MOCKAPI_DB, MOCKAPI_TITLE,
// MOCKAPI_LOG_LEVEL, MOCKAPI_LOG_FORMAT, MOCKAPI_READ_TIMEOUT,
// MOCKAPI_WRITE_TIMEOUT, MOCKAPI_CORS_ORIGINS and MOCKAPI_CONFIG. A MOCKAPI_
// variable wins over its short form.
package config
