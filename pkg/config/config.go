package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/loandesk/config"
	ConfigFileName    = "loandesk.yml"
)

// Defaults
const (
	DefaultTokenTTL    = 86400
	DefaultBcryptCost  = 10
	DefaultPageSizeMax = 100
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
)

// DefaultAuthenticators is the login chain used when none is configured.
var DefaultAuthenticators = []string{"bootstrap", "authn"}

const maskedValue = "********"

// Config holds all loandesk configuration settings
type Config struct {
	// JWTSecret signs session tokens
	JWTSecret string `yaml:"jwt_secret" json:"jwt_secret"`

	// AdminKey must accompany a self-registration with role admin
	AdminKey string `yaml:"admin_key" json:"admin_key"`

	// VerifierKey must accompany a self-registration with role verifier
	VerifierKey string `yaml:"verifier_key" json:"verifier_key"`

	// SuperAdminEmail and SuperAdminPassword provision the super-admin on first login
	SuperAdminEmail    string `yaml:"super_admin_email" json:"super_admin_email"`
	SuperAdminPassword string `yaml:"super_admin_password" json:"super_admin_password"`

	// TokenTTL is the session token lifetime in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// BcryptCost is the bcrypt work factor for new password hashes
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	// PageSizeMax caps the limit parameter of paginated listings
	PageSizeMax int `yaml:"page_size_max" json:"page_size_max"`

	// CORSOrigins lists the origins allowed to call the API from a browser
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is honored
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// LogLevel is the application log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is json or console
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Authenticators lists the enabled login authenticators in order
	Authenticators []string `yaml:"authenticators" json:"authenticators"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// Set replaces the global configuration. Passing nil makes the next Get load
// from file and environment again.
func Set(cfg *Config) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// New returns a config holding only default values
func New() *Config {
	return newDefault()
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		TokenTTL:       DefaultTokenTTL,
		BcryptCost:     DefaultBcryptCost,
		PageSizeMax:    DefaultPageSizeMax,
		CORSOrigins:    []string{},
		TrustedProxies: []string{},
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Authenticators: append([]string(nil), DefaultAuthenticators...),
		sources:        make(map[string]string),
	}
}

// Path returns the config file location from LOANDESK_CONFIG_PATH
func Path() string {
	configPath := os.Getenv("LOANDESK_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	config.configFilePath = Path()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"jwt_secret", "admin_key", "verifier_key",
		"super_admin_email", "super_admin_password",
		"token_ttl", "bcrypt_cost", "page_size_max",
		"cors_origins", "trusted_proxies", "log_level",
		"log_format", "authenticators",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	setString := func(name string, dst *string, val string) {
		if val != "" {
			*dst = val
			c.sources[name] = "file"
		}
	}
	setInt := func(name string, dst *int, val int) {
		if val != 0 {
			*dst = val
			c.sources[name] = "file"
		}
	}

	setString("jwt_secret", &c.JWTSecret, file.JWTSecret)
	setString("admin_key", &c.AdminKey, file.AdminKey)
	setString("verifier_key", &c.VerifierKey, file.VerifierKey)
	setString("super_admin_email", &c.SuperAdminEmail, file.SuperAdminEmail)
	setString("super_admin_password", &c.SuperAdminPassword, file.SuperAdminPassword)
	setInt("token_ttl", &c.TokenTTL, file.TokenTTL)
	setInt("bcrypt_cost", &c.BcryptCost, file.BcryptCost)
	setInt("page_size_max", &c.PageSizeMax, file.PageSizeMax)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)

	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
		c.sources["cors_origins"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if len(file.Authenticators) > 0 {
		c.Authenticators = file.Authenticators
		c.sources["authenticators"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	setString := func(name, env string, dst *string) {
		if val := os.Getenv(env); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	setInt := func(name, env string, dst *int) {
		if val := os.Getenv(env); val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
				c.sources[name] = "environment"
			}
		}
	}

	setString("jwt_secret", "JWT_SECRET", &c.JWTSecret)
	setString("admin_key", "ADMIN_KEY", &c.AdminKey)
	setString("verifier_key", "VERIFIER_KEY", &c.VerifierKey)
	setString("super_admin_email", "SUPER_ADMIN_EMAIL", &c.SuperAdminEmail)
	setString("super_admin_password", "SUPER_ADMIN_PASSWORD", &c.SuperAdminPassword)
	setInt("token_ttl", "LOANDESK_TOKEN_TTL", &c.TokenTTL)
	setInt("bcrypt_cost", "LOANDESK_BCRYPT_COST", &c.BcryptCost)
	setInt("page_size_max", "LOANDESK_PAGE_SIZE_MAX", &c.PageSizeMax)
	setString("log_level", "LOANDESK_LOG_LEVEL", &c.LogLevel)
	setString("log_format", "LOANDESK_LOG_FORMAT", &c.LogFormat)

	if val := os.Getenv("LOANDESK_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitAndTrim(val)
		c.sources["cors_origins"] = "environment"
	}
	if val := os.Getenv("LOANDESK_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("LOANDESK_AUTHENTICATORS"); val != "" {
		c.Authenticators = splitAndTrim(val)
		c.sources["authenticators"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the token TTL as a duration
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if other := net.ParseIP(cidr); other != nil && other.Equal(parsedIP) {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is not set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	// bcrypt accepts costs from 4 to 31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.PageSizeMax <= 0 {
		return fmt.Errorf("page_size_max must be positive, got %d", c.PageSizeMax)
	}
	if (c.SuperAdminEmail == "") != (c.SuperAdminPassword == "") {
		return fmt.Errorf("super_admin_email and super_admin_password must be set together")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	if len(c.Authenticators) == 0 {
		return fmt.Errorf("authenticators must name at least one authenticator")
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return maskedValue
}

// Attributes returns all configuration attributes with their values and
// sources. Secret values are masked.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "jwt_secret", Value: mask(c.JWTSecret), Source: c.Source("jwt_secret")},
		{Name: "admin_key", Value: mask(c.AdminKey), Source: c.Source("admin_key")},
		{Name: "verifier_key", Value: mask(c.VerifierKey), Source: c.Source("verifier_key")},
		{Name: "super_admin_email", Value: c.SuperAdminEmail, Source: c.Source("super_admin_email")},
		{Name: "super_admin_password", Value: mask(c.SuperAdminPassword), Source: c.Source("super_admin_password")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
		{Name: "page_size_max", Value: strconv.Itoa(c.PageSizeMax), Source: c.Source("page_size_max")},
		{Name: "cors_origins", Value: strings.Join(c.CORSOrigins, ","), Source: c.Source("cors_origins")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "authenticators", Value: strings.Join(c.Authenticators, ","), Source: c.Source("authenticators")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
