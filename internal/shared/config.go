package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv], in order of precedence.
var (
	ClientIDEnv     = []string{"CLIENT_ID", "SPOTIFY_CLIENT_ID"}
	ClientSecretEnv = []string{"CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET"}
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Auth        AuthConfig        `toml:"auth"`
	API         APIConfig         `toml:"api"`
	Export      ExportConfig      `toml:"export"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ServerConfig contains settings for the local callback listener.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

// AuthConfig contains authorization handshake settings.
type AuthConfig struct {
	TimeoutSeconds int  `toml:"timeout_seconds"`
	ShowDialog     bool `toml:"show_dialog"`
}

// APIConfig contains Web API settings.
type APIConfig struct {
	PlaylistsURL      string  `toml:"playlists_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ExportConfig contains CSV export settings.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the config at path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process environment.
//
// A missing file is not an error; variables already set are not overridden.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides credentials with values from the environment.
func (c *Config) ApplyEnv() {
	if v := firstEnv(ClientIDEnv); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := firstEnv(ClientSecretEnv); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
}

func firstEnv(keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports missing client credentials before any authorization URL is built.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (set %s/%s or config.toml)", ErrMissingCredentials,
			strings.Join(missing, ", "), ClientIDEnv[0], ClientSecretEnv[0])
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// ListenAddr is the loopback address the callback listener binds.
func (c *Config) ListenAddr() string {
	host := c.Server.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, c.Server.Port)
}

// RedirectURI returns the configured redirect URI or the default localhost callback.
func (c *Config) RedirectURI() string {
	if c.Credentials.Spotify.RedirectURI != "" {
		return c.Credentials.Spotify.RedirectURI
	}
	return fmt.Sprintf("http://localhost:%d/callback", c.Server.Port)
}

// AuthTimeout returns the maximum wait for the authorization redirect.
func (c *Config) AuthTimeout() time.Duration {
	if c.Auth.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Auth.TimeoutSeconds) * time.Second
}

// ExportDir returns the export directory with a leading ~ expanded.
func (c *Config) ExportDir() (string, error) {
	return ExpandHome(c.Export.Dir)
}

// DatabasePath returns the history database path with a leading ~ expanded.
func (c *Config) DatabasePath() (string, error) {
	return ExpandHome(c.Database.Path)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
