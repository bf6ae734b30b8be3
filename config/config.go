package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds everything needed to load content and render the site.
type Config struct {
	Site         Site      `mapstructure:"site"`
	ContentDir   string    `mapstructure:"contentDir"`
	DataDir      string    `mapstructure:"dataDir"`
	OutputDir    string    `mapstructure:"outputDir"`
	PostsPerPage int       `mapstructure:"postsPerPage"`
	LatestPosts  int       `mapstructure:"latestPosts"`
	Dev          bool      `mapstructure:"dev"`
	Port         int       `mapstructure:"port"`
	Highlight    Highlight `mapstructure:"highlight"`
	Images       Images    `mapstructure:"images"`
}

// Site is the identity shown in the navigation, hero and footer.
type Site struct {
	Title       string            `mapstructure:"title"`
	Description string            `mapstructure:"description"`
	Author      string            `mapstructure:"author"`
	Job         string            `mapstructure:"job"`
	URL         string            `mapstructure:"url"`
	Avatar      string            `mapstructure:"avatar"`
	Links       map[string]string `mapstructure:"links"`
}

// Highlight configures the code highlighting theme pair.
type Highlight struct {
	Light             string                       `mapstructure:"light"`
	Dark              string                       `mapstructure:"dark"`
	TabWidth          int                          `mapstructure:"tabWidth"`
	ColorReplacements map[string]map[string]string `mapstructure:"colorReplacements"`
}

// Images configures how post images are referenced.
// Resolver is a URL template using {src} and {width}; empty keeps the source.
type Images struct {
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	Resolver string `mapstructure:"resolver"`
}

// Default returns the configuration used when no file or env override exists.
func Default() Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.title", "Portfolio")
	v.SetDefault("site.description", "My personal website.")
	v.SetDefault("site.author", "")
	v.SetDefault("site.job", "")
	v.SetDefault("site.url", "")
	v.SetDefault("site.avatar", "")
	v.SetDefault("site.links", map[string]string{})

	v.SetDefault("contentDir", "content")
	v.SetDefault("dataDir", "data")
	v.SetDefault("outputDir", "public")
	v.SetDefault("postsPerPage", 5)
	v.SetDefault("latestPosts", 3)
	v.SetDefault("dev", false)
	v.SetDefault("port", 8000)

	v.SetDefault("highlight.light", "github")
	v.SetDefault("highlight.dark", "github-dark")
	v.SetDefault("highlight.tabWidth", 2)
	v.SetDefault("highlight.colorReplacements", map[string]map[string]string{
		"github-dark": {"#1f1f1f": "#1f2937"},
		"github":      {"#fff": "#f3f4f6"},
	})

	v.SetDefault("images.width", 800)
	v.SetDefault("images.height", 600)
	v.SetDefault("images.resolver", "")
}

// Load reads the config file (./config.yaml unless cfgFile is set) and
// FOLIO_* environment variables on top of the defaults.
// A missing default config file is not an error.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().Msg("No config file found, using defaults and environment")
	} else {
		log.Debug().Str("path", v.ConfigFileUsed()).Msg("Using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.PostsPerPage < 1 {
		return Config{}, fmt.Errorf("postsPerPage must be positive, got %d", cfg.PostsPerPage)
	}

	return cfg, nil
}
