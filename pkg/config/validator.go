package config

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks if the ServerConfig is valid.
func (c *ServerConfig) Validate() error {
	if c.Port < 0 || c.Port >= 65536 {
		return &ValidationError{Field: "port", Message: "port must be between 0 and 65535"}
	}
	if c.AdminPort < 0 || c.AdminPort >= 65536 {
		return &ValidationError{Field: "adminPort", Message: "adminPort must be between 0 and 65535"}
	}
	if c.AdminPort > 0 && c.AdminPort == c.Port {
		return &ValidationError{
			Field:   "adminPort",
			Message: fmt.Sprintf("adminPort conflicts with port (both are %d)", c.Port),
		}
	}

	if c.ReadTimeout < 0 {
		return &ValidationError{Field: "readTimeout", Message: "readTimeout must be >= 0"}
	}
	if c.WriteTimeout < 0 {
		return &ValidationError{Field: "writeTimeout", Message: "writeTimeout must be >= 0"}
	}

	if c.MaxLogEntries < 0 || c.MaxLogEntries > MaxLogEntriesLimit {
		return &ValidationError{
			Field:   "maxLogEntries",
			Message: fmt.Sprintf("maxLogEntries %d is out of range (0-%d)", c.MaxLogEntries, MaxLogEntriesLimit),
		}
	}

	if c.Embedded && c.Database != "" {
		return &ValidationError{Field: "database", Message: "database and embedded cannot be used together"}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q (text, json)", c.Log.Format)}
	}

	if c.CORS != nil && c.CORS.Enabled && len(c.CORS.AllowOrigins) == 0 {
		return &ValidationError{Field: "cors.allowOrigins", Message: "at least one origin is required when CORS is enabled"}
	}
	if c.CORS != nil && c.CORS.MaxAge < 0 {
		return &ValidationError{Field: "cors.maxAge", Message: "maxAge must be >= 0"}
	}
	return nil
}
