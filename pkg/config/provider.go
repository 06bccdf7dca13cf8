package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// LoaderOptions configures NewLoader: a config file merged with
// environment overrides.
type LoaderOptions struct {
	ConfigName  string
	ConfigPaths []string
	EnvPrefix   string
}

// DefaultLoaderOptions returns sensible defaults: a file named "config"
// searched under "./config" and ".", with the IRENE_ environment prefix.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigName:  "config",
		ConfigPaths: []string{"./config", "."},
		EnvPrefix:   "IRENE",
	}
}

// Loader loads raw configuration from file and environment sources into a
// CoreConfig value, applying ${VAR} substitution to string fields before
// unmarshalling.
type Loader struct {
	v *viper.Viper
}

// NewLoader constructs a Loader backed by Viper (YAML/JSON/TOML + env var
// merge).
func NewLoader(opts LoaderOptions) (*Loader, error) {
	v := viper.New()
	if opts.ConfigName != "" {
		v.SetConfigName(opts.ConfigName)
		for _, p := range opts.ConfigPaths {
			v.AddConfigPath(p)
		}
	}
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if opts.ConfigName != "" {
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, ireneerrors.New("config.NewLoader", ireneerrors.CodeConfig,
					"failed to read config file", err)
			}
		}
	}
	return &Loader{v: v}, nil
}

// Load unmarshals the merged configuration into a CoreConfig, applying
// environment-variable substitution to every string value in the raw
// settings map before decoding into the typed schema.
func (l *Loader) Load() (*CoreConfig, error) {
	expanded, err := expandStringsInMap(l.v.AllSettings())
	if err != nil {
		return nil, err
	}

	v2 := viper.New()
	if err := v2.MergeConfigMap(expanded); err != nil {
		return nil, ireneerrors.New("config.Load", ireneerrors.CodeConfig, "failed to merge expanded settings", err)
	}

	var cfg CoreConfig
	if err := v2.Unmarshal(&cfg); err != nil {
		return nil, ireneerrors.New("config.Load", ireneerrors.CodeConfig, "failed to decode configuration", err)
	}
	return &cfg, nil
}

func expandStringsInMap(m map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		expanded, err := expandValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}

func expandValue(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return ExpandEnv(val)
	case map[string]interface{}:
		return expandStringsInMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			expanded, err := expandValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// String renders loader diagnostics: the number of loaded keys.
func (l *Loader) String() string {
	return fmt.Sprintf("Loader{keys=%d}", len(l.v.AllKeys()))
}
