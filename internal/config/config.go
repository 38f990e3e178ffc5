// Package config loads the layered condkit configuration.
//
// Sources are applied lowest to highest: built-in defaults, the YAML config
// file, CONDKIT_ environment variables and finally flags that were set
// explicitly on the command line.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/condkit/internal/condsql"
	"github.com/roach88/condkit/internal/errors"
	"github.com/roach88/condkit/internal/logger"
)

// EnvPrefix prefixes every environment variable read by Load. A double
// underscore separates nested keys: CONDKIT_LOG__LEVEL sets log.level.
const EnvPrefix = "CONDKIT_"

// Mapper names accepted in the mapper key.
const (
	MapperIdentity   = "identity"
	MapperUpperSnake = "upper_snake"
	MapperMap        = "map"
)

// Config is the resolved configuration.
type Config struct {
	// Placeholder is the bind placeholder style: question, dollar, named or atnamed.
	Placeholder string `koanf:"placeholder"`
	// Parameter is the bind base name.
	Parameter string `koanf:"parameter"`
	// Mapper selects how attribute names become column names.
	Mapper string `koanf:"mapper"`
	// Columns maps attribute names to column names. Entries win over Mapper.
	Columns map[string]string `koanf:"columns"`
	// AllowNullValues lets validation accept conditions without values.
	AllowNullValues bool      `koanf:"allow_null_values"`
	Log             LogConfig `koanf:"log"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"placeholder":       condsql.Question.String(),
		"parameter":         condsql.DefaultParameterName,
		"mapper":            MapperIdentity,
		"allow_null_values": false,
		"log.level":         "warn",
		"log.json":          false,
	}
}

// flagKeys maps command line flags to config keys. Flags not listed here
// are never read into the configuration.
var flagKeys = map[string]string{
	"placeholder": "placeholder",
	"parameter":   "parameter",
	"mapper":      "mapper",
	"allow-null":  "allow_null_values",
	"log-level":   "log.level",
	"log-json":    "log.json",
}

// findConfigFile returns explicit, or the first of condkit.yaml and
// condkit.yml found in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"condkit.yaml", "condkit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load resolves the configuration from defaults, cfgFile (or a condkit.yaml
// in the working directory), the environment and flags. Flags may be nil.
// The result is validated.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", used)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		if used != "" {
			return nil, errors.Wrapf(err, "config file %s", used)
		}
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	if _, err := condsql.ParsePlaceholderStyle(c.Placeholder); err != nil {
		return err
	}
	if strings.TrimSpace(c.Parameter) == "" || strings.ContainsAny(c.Parameter, " \t\n!?") {
		return errors.Newf("invalid parameter name %q", c.Parameter)
	}
	switch c.Mapper {
	case MapperIdentity, MapperUpperSnake:
	case MapperMap:
		if len(c.Columns) == 0 {
			return errors.WithHint(
				errors.Newf("mapper %q needs columns", c.Mapper),
				"add a columns section mapping attribute names to column names")
		}
	default:
		return errors.Newf("unknown mapper %q (want identity, upper_snake or map)", c.Mapper)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// PlaceholderStyle returns the configured placeholder style.
func (c *Config) PlaceholderStyle() condsql.PlaceholderStyle {
	style, err := condsql.ParsePlaceholderStyle(c.Placeholder)
	if err != nil {
		return condsql.Question
	}
	return style
}

// NewMapper returns the configured attribute name mapper. Columns entries
// take precedence over the named mapper.
func (c *Config) NewMapper() condsql.Mapper {
	var base condsql.Mapper
	switch c.Mapper {
	case MapperUpperSnake:
		base = condsql.UpperSnakeMapper
	default:
		base = condsql.IdentityMapper
	}
	if len(c.Columns) == 0 {
		return base
	}
	return condsql.MapMapper{Columns: c.Columns, Fallback: base}
}

// LoggerOptions returns the logger settings.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{JSON: c.Log.JSON, Level: c.Log.Level}
}
