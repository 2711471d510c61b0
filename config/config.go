package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyStoreBackend          = "store.backend"
	KeyStorePath             = "store.path"
	KeyStoreKey              = "store.key"
	KeyLedgerAllowZeroLength = "ledger.allow_zero_length"
	KeyServerPort            = "server.port"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyRules                 = "rules"

	EnvPrefix = "WORKHOURS"
)

type Config struct {
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Rules  []Rule       `mapstructure:"rules"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=sqlite file memory"`
	Path    string `mapstructure:"path"`
	Key     string `mapstructure:"key" validate:"required"`
}

type LedgerConfig struct {
	AllowZeroLength bool `mapstructure:"allow_zero_length"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// Rule selects an import mapper for files whose name matches FileTemplate.
type Rule struct {
	Name         string `mapstructure:"name"`
	Mapper       string `mapstructure:"mapper"`
	FileTemplate string `mapstructure:"file_template"`
	DayStart     string `mapstructure:"day_start"`
	BreakMinutes int    `mapstructure:"break_minutes"`
}

// SupportedMappers lists the mapper names accepted in rules.
var SupportedMappers = []string{"generic", "hours"}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// BindEnv lets WORKHOURS_STORE_PATH and friends override file values.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# workhours configuration
store:
  backend: sqlite        # sqlite | file | memory
  path: "~/.workhours/workhours.db"
  key: "@work_hours"

ledger:
  allow_zero_length: true

server:
  port: 8080

log:
  level: info            # debug | info | warn | error
  format: text           # text | json

rules: []
`
}

// DefaultStorePath returns the store location below the user's home directory.
func DefaultStorePath() string {
	return "~/.workhours/workhours.db"
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return trimmed, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Store.Backend != "memory" && strings.TrimSpace(cfg.Store.Path) == "" {
		return nil, fmt.Errorf("validation failed: store.path is required for backend %q", cfg.Store.Backend)
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStoreBackend, "sqlite")
	v.SetDefault(KeyStorePath, DefaultStorePath())
	v.SetDefault(KeyStoreKey, "@work_hours")
	v.SetDefault(KeyLedgerAllowZeroLength, true)
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRules, []map[string]any{})
}

func validateRules(rules []Rule) error {
	validMappers := make(map[string]bool, len(SupportedMappers))
	for _, name := range SupportedMappers {
		validMappers[name] = true
	}
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		mapper := strings.ToLower(strings.TrimSpace(rule.Mapper))
		if mapper == "" {
			return fmt.Errorf("validation failed: rules[%d].mapper is required", i)
		}
		if !validMappers[mapper] {
			return fmt.Errorf(
				"validation failed: rules[%d].mapper %q is not supported (valid: %s)",
				i,
				rule.Mapper,
				strings.Join(SupportedMappers, ", "),
			)
		}
		if strings.TrimSpace(rule.FileTemplate) == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
		if _, err := filepath.Match(rule.FileTemplate, ""); err != nil {
			return fmt.Errorf("validation failed: rules[%d].file_template %q is not a valid pattern", i, rule.FileTemplate)
		}
		if rule.BreakMinutes < 0 {
			return fmt.Errorf("validation failed: rules[%d].break_minutes must be >= 0", i)
		}
		if mapper == "hours" && strings.TrimSpace(rule.DayStart) == "" {
			return fmt.Errorf("validation failed: rules[%d] with mapper hours requires day_start", i)
		}
	}
	return nil
}
