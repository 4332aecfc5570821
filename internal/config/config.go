// Package config loads iconfix settings from an optional .iconfix.yaml,
// ICONFIX_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sokinpui/iconfix/internal/rewrite"
)

const (
	fileName  = ".iconfix"
	envPrefix = "ICONFIX"
)

// DefaultBlock is the inlined props type the icon components used to carry.
const DefaultBlock = `type iconProps = {
	fill?: string;
	secondaryfill?: string;
	strokewidth?: number;
	width?: string;
	height?: string;
	title?: string;
};`

// Config holds settings for every task.
type Config struct {
	Dir               string            `mapstructure:"dir"`
	NoAnimation       bool              `mapstructure:"no_animation"`
	Nvim              bool              `mapstructure:"nvim"`
	StripPrefix       StripPrefix       `mapstructure:"strip_prefix"`
	TypeImport        TypeImport        `mapstructure:"type_import"`
	StripSize         StripSize         `mapstructure:"strip_size"`
	ExportList        ExportList        `mapstructure:"export_list"`
	PrefixIdentifiers PrefixIdentifiers `mapstructure:"prefix_identifiers"`
	SizeSuffix        SizeSuffix        `mapstructure:"size_suffix"`
}

type StripPrefix struct {
	Prefix string `mapstructure:"prefix"`
}

type TypeImport struct {
	Regex    bool   `mapstructure:"regex"`
	Block    string `mapstructure:"block"`
	Pattern  string `mapstructure:"pattern"`
	Import   string `mapstructure:"import"`
	Reserved string `mapstructure:"reserved"`
	Ext      string `mapstructure:"ext"`
}

type StripSize struct {
	Substrings []string `mapstructure:"substrings"`
	Ext        string   `mapstructure:"ext"`
}

type ExportList struct {
	Index        string `mapstructure:"index"`
	Marker       string `mapstructure:"marker"`
	Ext          string `mapstructure:"ext"`
	SkipExisting bool   `mapstructure:"skip_existing"`
	Match        string `mapstructure:"match"`
}

type PrefixIdentifiers struct {
	Prefix string   `mapstructure:"prefix"`
	Skip   []string `mapstructure:"skip"`
}

type SizeSuffix struct {
	Ext string `mapstructure:"ext"`
}

// New returns a viper instance with defaults and env bindings set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("no_animation", false)
	v.SetDefault("nvim", false)

	v.SetDefault("strip_prefix.prefix", "18px_")

	v.SetDefault("type_import.regex", false)
	v.SetDefault("type_import.block", DefaultBlock)
	v.SetDefault("type_import.pattern", rewrite.DefaultBlockPattern)
	v.SetDefault("type_import.import", "import type { iconProps } from './iconProps';")
	v.SetDefault("type_import.reserved", "iconProps.tsx")
	v.SetDefault("type_import.ext", ".tsx")

	v.SetDefault("strip_size.substrings", []string{"12px_", "18px_"})
	v.SetDefault("strip_size.ext", ".tsx")

	v.SetDefault("export_list.index", "index.ts")
	v.SetDefault("export_list.marker", "I12px")
	v.SetDefault("export_list.ext", ".tsx")
	v.SetDefault("export_list.skip_existing", false)
	v.SetDefault("export_list.match", "content")

	v.SetDefault("prefix_identifiers.prefix", "I12px_")
	v.SetDefault("prefix_identifiers.skip", []string{".git", "node_modules", ".iconfix"})

	v.SetDefault("size_suffix.ext", ".tsx")
}

// Load reads the config file (explicit path, or .iconfix.yaml in the working
// directory when path is empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals the current settings of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	return &cfg, nil
}
