package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvPort          = "MOCKAPI_PORT"
	EnvAdminPort     = "MOCKAPI_ADMIN_PORT"
	EnvHost          = "MOCKAPI_HOST"
	EnvDatabase      = "MOCKAPI_DB"
	EnvTitle         = "MOCKAPI_TITLE"
	EnvLogLevel      = "MOCKAPI_LOG_LEVEL"
	EnvLogFormat     = "MOCKAPI_LOG_FORMAT"
	EnvLogFile       = "MOCKAPI_LOG_FILE"
	EnvReadTimeout   = "MOCKAPI_READ_TIMEOUT"
	EnvWriteTimeout  = "MOCKAPI_WRITE_TIMEOUT"
	EnvCORSOrigins   = "MOCKAPI_CORS_ORIGINS"
	EnvMaxLogEntries = "MOCKAPI_MAX_LOG_ENTRIES"
	EnvConfig        = "MOCKAPI_CONFIG"

	// Short forms understood for compatibility with common deployments.
	EnvPortShort     = "PORT"
	EnvDatabaseShort = "DB_FILE"
)

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ConfigError represents a configuration file error.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// fileConfig mirrors ServerConfig with pointers so absent keys can be told
// apart from zero values.
type fileConfig struct {
	Port          *int      `yaml:"port"`
	AdminPort     *int      `yaml:"adminPort"`
	Host          *string   `yaml:"host"`
	Database      *string   `yaml:"database"`
	Embedded      *bool     `yaml:"embedded"`
	Title         *string   `yaml:"title"`
	ReadTimeout   *int      `yaml:"readTimeout"`
	WriteTimeout  *int      `yaml:"writeTimeout"`
	MaxLogEntries *int      `yaml:"maxLogEntries"`
	Log           *fileLog  `yaml:"log"`
	CORS          *fileCORS `yaml:"cors"`
}

type fileCORS struct {
	Enabled          *bool    `yaml:"enabled"`
	AllowOrigins     []string `yaml:"allowOrigins"`
	AllowMethods     []string `yaml:"allowMethods"`
	AllowHeaders     []string `yaml:"allowHeaders"`
	ExposeHeaders    []string `yaml:"exposeHeaders"`
	AllowCredentials *bool    `yaml:"allowCredentials"`
	MaxAge           *int     `yaml:"maxAge"`
}

// merge overlays the keys present in the file onto base.
func (f *fileCORS) merge(base *CORSConfig) *CORSConfig {
	out := DefaultCORSConfig()
	if base != nil {
		c := *base
		out = &c
	}
	if f.Enabled != nil {
		out.Enabled = *f.Enabled
	}
	if f.AllowOrigins != nil {
		out.AllowOrigins = f.AllowOrigins
	}
	if f.AllowMethods != nil {
		out.AllowMethods = f.AllowMethods
	}
	if f.AllowHeaders != nil {
		out.AllowHeaders = f.AllowHeaders
	}
	if f.ExposeHeaders != nil {
		out.ExposeHeaders = f.ExposeHeaders
	}
	if f.AllowCredentials != nil {
		out.AllowCredentials = *f.AllowCredentials
	}
	if f.MaxAge != nil {
		out.MaxAge = *f.MaxAge
	}
	return out
}

type fileLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// ApplyFile merges the YAML file at path into cfg. Unknown keys are errors.
func ApplyFile(cfg *ServerConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Path: path, Message: err.Error()}
	}

	setInt(cfg, &cfg.Port, fc.Port, "port")
	setInt(cfg, &cfg.AdminPort, fc.AdminPort, "adminPort")
	setString(cfg, &cfg.Host, fc.Host, "host")
	setString(cfg, &cfg.Database, fc.Database, "database")
	if fc.Embedded != nil {
		cfg.Embedded = *fc.Embedded
		cfg.SetSource("embedded", SourceFile)
	}
	setString(cfg, &cfg.Title, fc.Title, "title")
	setInt(cfg, &cfg.ReadTimeout, fc.ReadTimeout, "readTimeout")
	setInt(cfg, &cfg.WriteTimeout, fc.WriteTimeout, "writeTimeout")
	setInt(cfg, &cfg.MaxLogEntries, fc.MaxLogEntries, "maxLogEntries")
	if fc.Log != nil {
		setString(cfg, &cfg.Log.Level, fc.Log.Level, "log.level")
		setString(cfg, &cfg.Log.Format, fc.Log.Format, "log.format")
		setString(cfg, &cfg.Log.File, fc.Log.File, "log.file")
	}
	if fc.CORS != nil {
		cfg.CORS = fc.CORS.merge(cfg.CORS)
		cfg.SetSource("cors", SourceFile)
	}
	return nil
}

func setInt(cfg *ServerConfig, dst, src *int, key string) {
	if src != nil {
		*dst = *src
		cfg.SetSource(key, SourceFile)
	}
}

func setString(cfg *ServerConfig, dst, src *string, key string) {
	if src != nil {
		*dst = *src
		cfg.SetSource(key, SourceFile)
	}
}

// ApplyEnv merges environment variables into cfg. Only variables that are
// set and non-empty are applied.
func ApplyEnv(cfg *ServerConfig, lookup LookupFunc) error {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	ints := []struct {
		key  string
		dst  *int
		envs []string
	}{
		{"port", &cfg.Port, []string{EnvPort, EnvPortShort}},
		{"adminPort", &cfg.AdminPort, []string{EnvAdminPort}},
		{"readTimeout", &cfg.ReadTimeout, []string{EnvReadTimeout}},
		{"writeTimeout", &cfg.WriteTimeout, []string{EnvWriteTimeout}},
		{"maxLogEntries", &cfg.MaxLogEntries, []string{EnvMaxLogEntries}},
	}
	for _, e := range ints {
		v, ok := get(e.envs...)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("environment %s: %q is not an integer", e.envs[0], v)
		}
		*e.dst = n
		cfg.SetSource(e.key, SourceEnv)
	}

	strs := []struct {
		key  string
		dst  *string
		envs []string
	}{
		{"host", &cfg.Host, []string{EnvHost}},
		{"database", &cfg.Database, []string{EnvDatabase, EnvDatabaseShort}},
		{"title", &cfg.Title, []string{EnvTitle}},
		{"log.level", &cfg.Log.Level, []string{EnvLogLevel}},
		{"log.format", &cfg.Log.Format, []string{EnvLogFormat}},
		{"log.file", &cfg.Log.File, []string{EnvLogFile}},
	}
	for _, e := range strs {
		if v, ok := get(e.envs...); ok {
			*e.dst = v
			cfg.SetSource(e.key, SourceEnv)
		}
	}

	if v, ok := get(EnvCORSOrigins); ok {
		cfg.SetCORSOrigins(SplitList(v))
		cfg.SetSource("cors.allowOrigins", SourceEnv)
	}
	return nil
}

// SetCORSOrigins replaces the allowed origins, keeping the other CORS settings.
func (c *ServerConfig) SetCORSOrigins(origins []string) {
	if c.CORS == nil {
		c.CORS = DefaultCORSConfig()
	}
	c.CORS.AllowOrigins = origins
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigFile is an explicit config file path. When empty, MOCKAPI_CONFIG
	// is consulted.
	ConfigFile string
	// Lookup reads the environment. Nil uses os.LookupEnv.
	Lookup LookupFunc
}

// Load resolves defaults, the config file and the environment. Flags are
// applied by the caller afterwards.
func Load(opts LoadOptions) (*ServerConfig, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := DefaultServerConfig()

	path := opts.ConfigFile
	if path == "" {
		path, _ = lookup(EnvConfig)
	}
	if path != "" {
		if err := ApplyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}
