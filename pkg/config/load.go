package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const (
	// FileName is the optional per-directory configuration file
	FileName = "moddingtool.toml"
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix = "MODDINGTOOL_"
)

// LoadOptions selects the layers to load
type LoadOptions struct {
	// File is an explicit configuration file. It must exist when set.
	File string
	// Dir is searched for FileName when File is empty
	Dir string
	// Overrides are dotted keys applied last, e.g. "engine.path"
	Overrides map[string]interface{}
	// SkipEnv disables the environment layer
	SkipEnv bool
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultConfig)
}

// Default returns the configuration built from embedded defaults only
func Default() (*Config, error) {
	return Load(LoadOptions{SkipEnv: true})
}

// Load builds the layered configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	k, err := load(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Render returns the effective layered configuration as TOML
func Render(opts LoadOptions) ([]byte, error) {
	k, err := load(opts)
	if err != nil {
		return nil, err
	}
	out, err := gotoml.Marshal(k.Raw())
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return out, nil
}

func load(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := resolveFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}
	return k, nil
}

// envKey maps MODDINGTOOL_DOWNLOAD__RETRY_DELAY to download.retry_delay
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func resolveFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file %s: %w", opts.File, err)
		}
		return opts.File, nil
	}
	if opts.Dir == "" {
		return "", nil
	}
	path := filepath.Join(opts.Dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}
