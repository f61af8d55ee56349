package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:5000"
	DefaultCookieName = "session"
	DefaultTimeout    = 60 * time.Second
	envPrefix         = "DIABEGUIDE"
)

type Profile struct {
	BaseURL       string `json:"base_url" mapstructure:"base_url"`
	SessionCookie string `json:"session_cookie,omitempty" mapstructure:"session_cookie"`
	CookieName    string `json:"cookie_name,omitempty" mapstructure:"cookie_name"`
	Timeout       string `json:"timeout,omitempty" mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
	File   string `json:"file,omitempty" mapstructure:"file"`
}

type RenderConfig struct {
	Style    string `json:"style" mapstructure:"style"`
	WordWrap int    `json:"word_wrap" mapstructure:"word_wrap"`
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles" mapstructure:"profiles"`
	ActiveProfile string             `json:"active_profile" mapstructure:"active_profile"`
	Log           LogConfig          `json:"log" mapstructure:"log"`
	Render        RenderConfig       `json:"render" mapstructure:"render"`
	DownloadDir   string             `json:"download_dir,omitempty" mapstructure:"download_dir"`

	currentProfile *Profile
	path           string
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads (or creates) the config file at configPath.
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.BaseURL != ""
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil || c.currentProfile.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.currentProfile.BaseURL, "/")
}

func (c *Config) GetSessionCookie() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.SessionCookie
}

func (c *Config) GetCookieName() string {
	if c.currentProfile == nil || c.currentProfile.CookieName == "" {
		return DefaultCookieName
	}
	return c.currentProfile.CookieName
}

func (c *Config) GetTimeout() time.Duration {
	if c.currentProfile == nil || c.currentProfile.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.currentProfile.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// LogFile returns the configured log path, defaulting next to the config file.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(filepath.Dir(c.path), "logs", "diabeguide.log")
}

// DownloadPath is where the exported tracker data is written.
func (c *Config) DownloadPath() string {
	return filepath.Join(c.DownloadDir, "diabeguide_data.json")
}

// ProfileKey normalizes a profile name; the config file stores keys lower-cased.
func ProfileKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UseProfile makes name the active profile without saving.
func (c *Config) UseProfile(name string) error {
	name = ProfileKey(name)
	profile, exists := c.Profiles[name]
	if !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	c.currentProfile = &profile
	return nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use DIABEGUIDE_HOME if set, otherwise use user's home directory
	if home := os.Getenv(envPrefix + "_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".diabeguide", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0700)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetConfigPermissions(0600)
	return v
}

func newEnvViper(configPath string) *viper.Viper {
	v := newViper(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key visible to AutomaticEnv.
	v.SetDefault("active_profile", "default")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("render.style", "auto")
	v.SetDefault("render.word_wrap", 80)
	v.SetDefault("download_dir", ".")
	return v
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	v := newEnvViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.path = configPath

	return &config, nil
}

func defaultConfig(configPath string) *Config {
	return &Config{
		Profiles: map[string]Profile{
			"default": {
				BaseURL:    DefaultBaseURL,
				CookieName: DefaultCookieName,
			},
		},
		ActiveProfile: "default",
		Log:           LogConfig{Level: "info", Format: "text"},
		Render:        RenderConfig{Style: "auto", WordWrap: 80},
		DownloadDir:   ".",
		path:          configPath,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := defaultConfig(configPath)

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	// Environment overrides still apply to a freshly created file.
	return loadConfigFile(configPath)
}

func saveConfig(config *Config, configPath string) error {
	v := newViper(configPath)

	profiles := make(map[string]interface{}, len(config.Profiles))
	for name, p := range config.Profiles {
		profiles[name] = map[string]interface{}{
			"base_url":       p.BaseURL,
			"session_cookie": p.SessionCookie,
			"cookie_name":    p.CookieName,
			"timeout":        p.Timeout,
		}
	}
	v.Set("profiles", profiles)
	v.Set("active_profile", config.ActiveProfile)
	v.Set("log.level", config.Log.Level)
	v.Set("log.format", config.Log.Format)
	v.Set("log.file", config.Log.File)
	v.Set("render.style", config.Render.Style)
	v.Set("render.word_wrap", config.Render.WordWrap)
	v.Set("download_dir", config.DownloadDir)

	return v.WriteConfigAs(configPath)
}

func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}

	return saveConfig(c, c.path)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
