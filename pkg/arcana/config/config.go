// Package config loads arcana settings and spread files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Mode names accepted for Config.Mode.
const (
	ModeStrict = "strict"
	ModeMixed  = "mixed"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	RulesPath       string
	DBPath          string
	Locale          string
	Mode            string
	AdviceThreshold int
	DeckPrefix      string
	LogLevel        string
	// Keywords overrides the locale's time keywords. Setting only some of
	// them is an error.
	Keywords timetag.Vocabulary
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RulesPath:       "database.txt",
		Locale:          "ru",
		Mode:            ModeMixed,
		AdviceThreshold: 35,
		LogLevel:        "info",
	}
}

// Load reads arcana.yaml from dir (when present) and ARCANA_* environment
// variables over the defaults. An explicit file path may be given instead
// of a directory; it must exist.
func Load(dir, file string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("ARCANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rules", cfg.RulesPath)
	v.SetDefault("db", cfg.DBPath)
	v.SetDefault("locale", cfg.Locale)
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("advice_threshold", cfg.AdviceThreshold)
	v.SetDefault("deck_prefix", cfg.DeckPrefix)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("keywords.past", "")
	v.SetDefault("keywords.present", "")
	v.SetDefault("keywords.future", "")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("arcana")
		v.SetConfigType("yaml")
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.RulesPath = v.GetString("rules")
	cfg.DBPath = v.GetString("db")
	cfg.Locale = v.GetString("locale")
	cfg.Mode = strings.ToLower(v.GetString("mode"))
	cfg.AdviceThreshold = v.GetInt("advice_threshold")
	cfg.DeckPrefix = v.GetString("deck_prefix")
	cfg.LogLevel = v.GetString("log_level")
	cfg.Keywords = timetag.Vocabulary{
		Past:    v.GetString("keywords.past"),
		Present: v.GetString("keywords.present"),
		Future:  v.GetString("keywords.future"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if c.Mode != ModeStrict && c.Mode != ModeMixed {
		return fmt.Errorf("mode %q: %w", c.Mode, internalerr.ErrInvalidConfig)
	}
	if c.AdviceThreshold <= 0 {
		return fmt.Errorf("advice_threshold must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if c.RulesPath == "" && c.DBPath == "" {
		return fmt.Errorf("no rule source configured: %w", internalerr.ErrInvalidConfig)
	}
	_, err := c.Vocabulary()
	return err
}

// Vocabulary returns the time keywords in effect.
func (c Config) Vocabulary() (timetag.Vocabulary, error) {
	if c.Keywords != (timetag.Vocabulary{}) {
		return c.Keywords, c.Keywords.Validate()
	}
	return timetag.VocabularyFor(c.Locale)
}

// CardRulePrefix is the rule id prefix marking card rules: DeckPrefix when
// set, else the convention of the locale's rule bases.
func (c Config) CardRulePrefix() string {
	if c.DeckPrefix != "" {
		return c.DeckPrefix
	}
	if strings.EqualFold(strings.TrimSpace(c.Locale), "ru") {
		return "факт"
	}
	return ""
}

// AllowMixed reports whether mixed-strategy matching is on.
func (c Config) AllowMixed() bool {
	return c.Mode == ModeMixed
}
