package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/condvis/internal/visibility/common/compat"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "CONDVIS_"

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the HTTP port the daemon listens on.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// Upstream is the host site the daemon proxies to. Empty disables the proxy
	// and only the decision endpoints are served.
	Upstream string `koanf:"upstream" validate:"omitempty,http_url"`

	// TermsFile holds content to domain term assignments (YAML, JSON or TOML).
	TermsFile string `koanf:"terms_file" validate:"omitempty,file"`

	// Element is the host element type DomainMatch rules apply to.
	Element string `koanf:"element" validate:"required,element_name"`

	// MaxBody caps the size of an HTML response the daemon will rewrite.
	// Larger responses are passed through unresolved.
	MaxBody int64 `koanf:"max_body" validate:"gte=0"`

	// HostVersion is the version of the host platform in front of which the daemon runs.
	HostVersion string `koanf:"host_version" validate:"omitempty,version"`

	// HostMinimum is the oldest supported host platform version.
	HostMinimum string `koanf:"host_minimum" validate:"required,version"`
}

// DEFAULT_APP_CONFIG holds the defaults applied before environment overrides.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:         "prod",
	LogLevel:    "info",
	Port:        8080,
	Element:     "container",
	MaxBody:     8 << 20,
	HostMinimum: compat.DefaultMinimumHostVersion,
}

// validVersion accepts dotted numeric versions.
func validVersion(fl validator.FieldLevel) bool {
	return compat.Valid(fl.Field().String())
}

// validElementName accepts host element type names such as "container" or "conditional_widget".
func validElementName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// envLoader loads CONDVIS_ variables with the prefix removed and keys lowercased.
// It is a variable so tests can replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into k.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "version" and "element_name" tags.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("version", validVersion); err != nil {
		return err
	}
	return v.RegisterValidation("element_name", validElementName)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
