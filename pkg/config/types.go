package config

import (
	"time"
)

// Value sources recorded in ServerConfig.Sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Defaults.
const (
	DefaultPort         = 3000
	DefaultHost         = ""
	DefaultReadTimeout  = 30
	DefaultWriteTimeout = 30
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	// DefaultMaxLogEntries is the default size of the request history.
	DefaultMaxLogEntries = 1000
	// MaxLogEntriesLimit caps the request history size.
	MaxLogEntriesLimit = 100000
)

// ServerConfig defines the API server settings.
type ServerConfig struct {
	// Port is the API listener port. 0 picks a free port.
	Port int `json:"port" yaml:"port"`
	// AdminPort serves /metrics and /health. 0 disables the admin listener.
	AdminPort int `json:"adminPort,omitempty" yaml:"adminPort,omitempty"`
	// Host is the listen address. Empty listens on all interfaces.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	// Database is a JSON database file or a doublestar glob of files.
	// Empty serves the built-in sample database.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	// Embedded forces the built-in sample database.
	Embedded bool `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	// Title names the API in the index, docs and OpenAPI document.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// ReadTimeout is the HTTP read timeout in seconds.
	ReadTimeout int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// WriteTimeout is the HTTP write timeout in seconds.
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// MaxLogEntries bounds the request history served at /requests on the
	// admin listener. 0 disables the history.
	MaxLogEntries int `json:"maxLogEntries" yaml:"maxLogEntries"`
	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`
	// CORS configures cross-origin headers. Nil uses DefaultCORSConfig.
	CORS *CORSConfig `json:"cors,omitempty" yaml:"cors,omitempty"`

	// Sources tracks where each non-default value came from.
	Sources map[string]string `json:"-" yaml:"-"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File, when set, also receives every log record as JSON.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultServerConfig returns the built-in defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          DefaultPort,
		Host:          DefaultHost,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		MaxLogEntries: DefaultMaxLogEntries,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		CORS:    DefaultCORSConfig(),
		Sources: make(map[string]string),
	}
}

// Source reports where key's value came from.
func (c *ServerConfig) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// SetSource records that key was set from source.
func (c *ServerConfig) SetSource(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled enables CORS handling. When false, no CORS headers are added.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// AllowOrigins specifies allowed origins. "*" allows any origin.
	AllowOrigins []string `json:"allowOrigins,omitempty" yaml:"allowOrigins,omitempty"`
	// AllowMethods specifies allowed HTTP methods.
	AllowMethods []string `json:"allowMethods,omitempty" yaml:"allowMethods,omitempty"`
	// AllowHeaders specifies allowed request headers.
	AllowHeaders []string `json:"allowHeaders,omitempty" yaml:"allowHeaders,omitempty"`
	// ExposeHeaders specifies headers that browsers are allowed to read.
	ExposeHeaders []string `json:"exposeHeaders,omitempty" yaml:"exposeHeaders,omitempty"`
	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `json:"allowCredentials,omitempty" yaml:"allowCredentials,omitempty"`
	// MaxAge is the preflight cache duration in seconds. 0 omits the header.
	MaxAge int `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
}

// DefaultCORSConfig allows any origin to read the API, including the
// X-Total-Count header of list responses.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:       true,
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"X-Total-Count"},
	}
}

// IsWildcard returns true if the CORS config allows all origins.
func (c *CORSConfig) IsWildcard() bool {
	if c == nil {
		return false
	}
	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// GetAllowOriginValue returns the appropriate Access-Control-Allow-Origin header value
// for the given request origin. Returns empty string if origin is not allowed.
func (c *CORSConfig) GetAllowOriginValue(requestOrigin string) string {
	if c == nil || !c.Enabled {
		return ""
	}

	if c.IsWildcard() {
		// Cannot use * with credentials
		if c.AllowCredentials {
			return requestOrigin
		}
		return "*"
	}

	for _, allowed := range c.AllowOrigins {
		if allowed == requestOrigin {
			return requestOrigin
		}
	}
	return ""
}
