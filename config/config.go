// Package config loads the bot's environment and per-guild settings.
//
// Environment values come from the process (optionally seeded from a .env
// file) and may also be set as top-level keys in the YAML file. Guild
// settings live under the "guilds" key:
//
//	guilds:
//	  "123456789":
//	    recurring:
//	      - channel: general
//	        time: R/2026-01-05T09:00:00Z/P1W
//	        message: Weekly standup!
//	    rolesets:
//	      colours:
//	        type: exclusive
//	        roles: [Red, Blue]
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"

	"HelperBot/recur"
)

const (
	DefaultDriver     = "sqlite"
	DefaultDatabase   = "helperbot.db"
	DefaultConfigPath = "config.yaml"
	DefaultBotName    = "helperbot"
)

// Roleset types.
const (
	Toggle    = "toggle"
	Exclusive = "exclusive"
)

type Recurring struct {
	Channel string `mapstructure:"channel"`
	Time    string `mapstructure:"time"`
	Message string `mapstructure:"message"`
}

// RoleSet groups self-assignable roles. Toggle sets let members hold any
// combination; exclusive sets allow at most one role at a time.
type RoleSet struct {
	Type  string   `mapstructure:"type"`
	Roles []string `mapstructure:"roles"`
}

type Guild struct {
	Recurring []Recurring        `mapstructure:"recurring"`
	RoleSets  map[string]RoleSet `mapstructure:"rolesets"`
}

type Config struct {
	Token          string
	DatabaseDriver string
	DatabaseURL    string
	ConfigPath     string
	GuildID        string
	LogLevel       string
	BotName        string

	Guilds map[string]Guild
}

// LoadEnv seeds the process environment from the given .env files. Missing
// files are skipped; variables already set are never overwritten.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return pkgerrors.Wrapf(err, "failed to load %s", f)
		}
	}
	return nil
}

// Load reads the YAML file at path (a missing file yields defaults) and
// overlays the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("database_driver", DefaultDriver)
	v.SetDefault("database_url", DefaultDatabase)
	v.SetDefault("config_path", DefaultConfigPath)
	v.SetDefault("log_level", "info")
	v.SetDefault("bot_name", DefaultBotName)
	for _, key := range []string{"discord_token", "guild_id"} {
		if err := v.BindEnv(key); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to bind %s", key)
		}
	}
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config_path")
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrapf(err, "failed to read config %s", path)
		}
		slog.Debug("config file not found, using defaults", "path", path)
	}

	cfg := &Config{
		Token:          v.GetString("discord_token"),
		DatabaseDriver: strings.ToLower(v.GetString("database_driver")),
		DatabaseURL:    v.GetString("database_url"),
		ConfigPath:     path,
		GuildID:        v.GetString("guild_id"),
		LogLevel:       v.GetString("log_level"),
		BotName:        v.GetString("bot_name"),
	}
	if err := v.UnmarshalKey("guilds", &cfg.Guilds); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode guilds")
	}
	if cfg.Guilds == nil {
		cfg.Guilds = make(map[string]Guild)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks roleset types and recurrence expressions.
func (c *Config) Validate() error {
	for guildID, g := range c.Guilds {
		for name, set := range g.RoleSets {
			if set.Type != Toggle && set.Type != Exclusive {
				return pkgerrors.Errorf("guild %s: roleset %q has unknown type %q", guildID, name, set.Type)
			}
		}
		for n, r := range g.Recurring {
			if r.Channel == "" {
				return pkgerrors.Errorf("guild %s: recurring #%d has no channel", guildID, n+1)
			}
			if _, err := recur.Parse(r.Time); err != nil {
				return pkgerrors.Wrapf(err, "guild %s: recurring #%d", guildID, n+1)
			}
		}
	}
	return nil
}

// Guild returns the settings for guildID; unknown guilds get the zero value.
func (c *Config) Guild(guildID string) Guild {
	return c.Guilds[guildID]
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
