/*
Package config manages TOML config for geoserve.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/autocomplete"
	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/bastiangx/geoserve/pkg/viewport"
	"github.com/charmbracelet/log"
)

const (
	ProviderMapbox    = "mapbox"
	ProviderNominatim = "nominatim"

	configFileName = "config.toml"
)

var (
	// ErrUnknownProvider is returned for a remote provider other than mapbox or nominatim.
	ErrUnknownProvider = errors.New("config: unknown remote provider")
	// ErrMissingToken is returned when mapbox is selected without an access token.
	ErrMissingToken = errors.New("config: mapbox requires an access token")
)

// Config holds the entire config structure
type Config struct {
	Autocomplete AutocompleteConfig `toml:"autocomplete"`
	Remote       RemoteConfig       `toml:"remote"`
	Gazetteer    GazetteerConfig    `toml:"gazetteer"`
	Server       ServerConfig       `toml:"server"`
	CLI          CliConfig          `toml:"cli"`
}

// AutocompleteConfig holds the controller options.
type AutocompleteConfig struct {
	DebounceMS   int               `toml:"debounce_ms"`
	Limit        int               `toml:"limit"`
	LocalOnly    bool              `toml:"local_only"`
	PointZoom    float64           `toml:"point_zoom"`
	TransitionMS int               `toml:"transition_ms"`
	HideOnSelect bool              `toml:"hide_on_select"`
	QueryParams  map[string]string `toml:"query_params"`
}

// RemoteConfig selects and tunes the geocoding provider.
type RemoteConfig struct {
	Provider         string `toml:"provider"`
	Endpoint         string `toml:"endpoint"`
	AccessToken      string `toml:"access_token"`
	UserAgent        string `toml:"user_agent"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
	RateIntervalMS   int    `toml:"rate_interval_ms"`
	CacheSize        int    `toml:"cache_size"`
	CacheTTLS        int    `toml:"cache_ttl_s"`
}

// GazetteerConfig holds local index options.
type GazetteerConfig struct {
	Path     string `toml:"path"`
	Fuzzy    bool   `toml:"fuzzy"`
	MinQuery int    `toml:"min_query"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxQuery int `toml:"max_query"`
}

// CliConfig holds terminal interface options. Width and Height are the
// viewport size selections are fitted into.
type CliConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Autocomplete: AutocompleteConfig{
			DebounceMS:   int(autocomplete.DefaultDebounce / time.Millisecond),
			Limit:        autocomplete.DefaultLimit,
			LocalOnly:    false,
			PointZoom:    autocomplete.DefaultPointZoom,
			TransitionMS: 0,
			HideOnSelect: false,
			QueryParams:  map[string]string{},
		},
		Remote: RemoteConfig{
			Provider:         ProviderNominatim,
			RequestTimeoutMS: 5000,
			RateIntervalMS:   1000,
			CacheSize:        256,
			CacheTTLS:        300,
		},
		Gazetteer: GazetteerConfig{
			Fuzzy:    true,
			MinQuery: 2,
		},
		Server: ServerConfig{
			MaxQuery: 120,
		},
		CLI: CliConfig{
			Width:  800,
			Height: 600,
		},
	}
}

// Validate fails fast on settings the controller would reject.
func (c *Config) Validate() error {
	ac := c.Autocomplete
	if ac.Limit <= 0 {
		return autocomplete.ErrInvalidLimit
	}
	if ac.DebounceMS < 0 {
		return autocomplete.ErrInvalidDebounce
	}
	if ac.PointZoom < 0 || ac.PointZoom > viewport.MaxZoom {
		return autocomplete.ErrInvalidZoom
	}
	if ac.TransitionMS < 0 {
		return fmt.Errorf("config: transition_ms must not be negative, got %d", ac.TransitionMS)
	}
	if ac.LocalOnly {
		return nil
	}

	switch c.Remote.Provider {
	case ProviderMapbox:
		if c.Remote.AccessToken == "" {
			return ErrMissingToken
		}
	case ProviderNominatim:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Remote.Provider)
	}
	if c.Remote.RequestTimeoutMS < 0 || c.Remote.RateIntervalMS < 0 {
		return fmt.Errorf("config: remote timeouts must not be negative")
	}
	return nil
}

// ControllerOptions converts the autocomplete section. Client, local geocoder
// and callbacks are left for the caller.
func (c *Config) ControllerOptions() autocomplete.Options {
	opts := autocomplete.DefaultOptions()
	ac := c.Autocomplete
	opts.Debounce = time.Duration(ac.DebounceMS) * time.Millisecond
	opts.Limit = ac.Limit
	opts.LocalOnly = ac.LocalOnly
	opts.PointZoom = ac.PointZoom
	opts.TransitionDuration = time.Duration(ac.TransitionMS) * time.Millisecond
	opts.HideOnSelect = ac.HideOnSelect
	opts.QueryParams = ac.QueryParams
	opts.Viewport = viewport.Viewport{Width: c.CLI.Width, Height: c.CLI.Height}
	return opts
}

// NewClient builds the configured provider wrapped in a CachingClient.
// A zero cache_size disables caching.
func (r RemoteConfig) NewClient() (geocode.Client, error) {
	opts := []geocode.Option{
		geocode.WithEndpoint(r.Endpoint),
		geocode.WithTimeout(time.Duration(r.RequestTimeoutMS) * time.Millisecond),
		geocode.WithRateInterval(time.Duration(r.RateIntervalMS) * time.Millisecond),
		geocode.WithUserAgent(r.UserAgent),
	}

	var client geocode.Client
	switch r.Provider {
	case ProviderMapbox:
		if r.AccessToken == "" {
			return nil, ErrMissingToken
		}
		client = geocode.NewMapboxClient(r.AccessToken, opts...)
	case ProviderNominatim:
		client = geocode.NewNominatimClient(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, r.Provider)
	}

	if r.CacheSize <= 0 {
		return client, nil
	}
	log.Debugf("Caching %s responses: size=%d ttl=%ds", r.Provider, r.CacheSize, r.CacheTTLS)
	return geocode.NewCachingClient(client, r.CacheSize, time.Duration(r.CacheTTLS)*time.Second), nil
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/geoserve
// 2. ~/Library/Application Support/geoserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return executableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	return executableDir()
}

func executableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/geoserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse recovers whatever sections still parse as a plain table
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "autocomplete"); ok {
		extractAutocompleteConfig(section, &config.Autocomplete)
	}
	if section, ok := utils.ExtractSection(tempConfig, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	if section, ok := utils.ExtractSection(tempConfig, "gazetteer"); ok {
		extractGazetteerConfig(section, &config.Gazetteer)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_query"); ok {
			config.Server.MaxQuery = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "width"); ok {
			config.CLI.Width = val
		}
		if val, ok := utils.ExtractInt64(section, "height"); ok {
			config.CLI.Height = val
		}
	}
	return config, nil
}

func extractAutocompleteConfig(data map[string]any, ac *AutocompleteConfig) {
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		ac.DebounceMS = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		ac.Limit = val
	}
	if val, ok := utils.ExtractBool(data, "local_only"); ok {
		ac.LocalOnly = val
	}
	if val, ok := utils.ExtractFloat(data, "point_zoom"); ok {
		ac.PointZoom = val
	}
	if val, ok := utils.ExtractInt64(data, "transition_ms"); ok {
		ac.TransitionMS = val
	}
	if val, ok := utils.ExtractBool(data, "hide_on_select"); ok {
		ac.HideOnSelect = val
	}
	if val, ok := utils.ExtractStringMap(data, "query_params"); ok {
		ac.QueryParams = val
	}
}

func extractRemoteConfig(data map[string]any, r *RemoteConfig) {
	if val, ok := utils.ExtractString(data, "provider"); ok {
		r.Provider = val
	}
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		r.Endpoint = val
	}
	if val, ok := utils.ExtractString(data, "access_token"); ok {
		r.AccessToken = val
	}
	if val, ok := utils.ExtractString(data, "user_agent"); ok {
		r.UserAgent = val
	}
	if val, ok := utils.ExtractInt64(data, "request_timeout_ms"); ok {
		r.RequestTimeoutMS = val
	}
	if val, ok := utils.ExtractInt64(data, "rate_interval_ms"); ok {
		r.RateIntervalMS = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		r.CacheSize = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_ttl_s"); ok {
		r.CacheTTLS = val
	}
}

func extractGazetteerConfig(data map[string]any, g *GazetteerConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		g.Path = val
	}
	if val, ok := utils.ExtractBool(data, "fuzzy"); ok {
		g.Fuzzy = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query"); ok {
		g.MinQuery = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
