package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server    Server    `yaml:"server" json:"server"`
	Store     Store     `yaml:"store" json:"store"`
	Game      Game      `yaml:"game" json:"game"`
	Navigator Navigator `yaml:"navigator" json:"navigator"`
	Slack     Slack     `yaml:"slack" json:"slack"`
}

type Server struct {
	Addr            string        `yaml:"addr" json:"addr" validate:"required"`
	DataDir         string        `yaml:"data_dir" json:"data_dir" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
	LogLevel        string        `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
}

type Store struct {
	// Backend is one of memory, file, sqlite, redis.
	Backend  string `yaml:"backend" json:"backend" validate:"oneof=memory file sqlite redis"`
	Key      string `yaml:"key" json:"key" validate:"required"`
	Path     string `yaml:"path" json:"path"`
	RedisURL string `yaml:"redis_url" json:"-" validate:"required_if=Backend redis"`
}

type Game struct {
	Timezone   string  `yaml:"timezone" json:"timezone" validate:"tzname"`
	Difficulty string  `yaml:"difficulty" json:"difficulty" validate:"oneof=default casual hard"`
	Seed       uint64  `yaml:"seed" json:"seed"`
	Balance    Balance `yaml:"balance" json:"balance"`
}

type Navigator struct {
	APIKey   string        `yaml:"api_key" json:"-"`
	Model    string        `yaml:"model" json:"model" validate:"required"`
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl" validate:"gte=0"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
}

type Slack struct {
	Enabled    bool          `yaml:"enabled" json:"enabled"`
	BotToken   string        `yaml:"bot_token" json:"-"`
	Channel    string        `yaml:"channel" json:"channel" validate:"required"`
	CronSecret string        `yaml:"cron_secret" json:"-"`
	APIURL     string        `yaml:"api_url" json:"api_url" validate:"required,url"`
	Timezone   string        `yaml:"timezone" json:"timezone" validate:"tzname"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	Slots      []Slot        `yaml:"slots" json:"slots" validate:"dive"`
}

// Slot binds a cron spec to a notification context.
type Slot struct {
	Context string `yaml:"context" json:"context" validate:"oneof=morning midday evening"`
	Spec    string `yaml:"spec" json:"spec" validate:"cronspec"`
}

func (s *Server) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":42069"
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

func (s *Store) ApplyDefaults() {
	if s.Backend == "" {
		s.Backend = "file"
	}
	if s.Key == "" {
		s.Key = "smtd-storage"
	}
}

func (g *Game) ApplyDefaults() {
	if g.Timezone == "" {
		g.Timezone = "Local"
	}
	if g.Difficulty == "" {
		g.Difficulty = "default"
	}
	g.Balance.fillFrom(Preset(g.Difficulty))
}

func (n *Navigator) ApplyDefaults() {
	if n.Model == "" {
		n.Model = "gemini-2.0-flash"
	}
	if n.Timeout == 0 {
		n.Timeout = 8 * time.Second
	}
}

func (s *Slack) ApplyDefaults() {
	if s.Channel == "" {
		s.Channel = "#smtd"
	}
	if s.APIURL == "" {
		s.APIURL = "https://slack.com/api/chat.postMessage"
	}
	if s.Timezone == "" {
		s.Timezone = "Asia/Tokyo"
	}
	if s.Timeout == 0 {
		s.Timeout = 10 * time.Second
	}
	if len(s.Slots) == 0 {
		s.Slots = []Slot{
			{Context: "morning", Spec: "0 9 * * *"},
			{Context: "midday", Spec: "0 12 * * *"},
			{Context: "evening", Spec: "0 21 * * *"},
		}
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Game.ApplyDefaults()
	c.Navigator.ApplyDefaults()
	c.Slack.ApplyDefaults()
}

// DefaultNavigatorCacheTTL applies when navigator.cache_ttl is absent.
const DefaultNavigatorCacheTTL = 5 * time.Minute

// seeded holds the defaults of fields where zero is a real setting
// (rare_chance: 0 turns rarity off, cache_ttl: 0 turns the cache off).
// A file is decoded on top of it, so only absent keys keep the seed.
func seeded(difficulty string) Config {
	var c Config
	c.Game.Difficulty = difficulty
	c.Game.Balance = Preset(difficulty)
	c.Navigator.CacheTTL = DefaultNavigatorCacheTTL
	return c
}

// DefaultConfig returns a fully defaulted config without reading any file.
func DefaultConfig() *Config {
	c := seeded("")
	c.ApplyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Game struct {
			Difficulty string `yaml:"difficulty"`
		} `yaml:"game"`
	}
	if err := yaml.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r := seeded(probe.Game.Difficulty)
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.ApplyDefaults()
	return &r, nil
}

// LoadOrDefault reads path when it exists and falls back to defaults
// otherwise. Environment overrides are applied last and the result is
// validated.
func LoadOrDefault(path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		return nil, err
	}
	ApplyEnv(cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("tzname", func(fl validator.FieldLevel) bool {
		_, err := Location(fl.Field().String())
		return err == nil
	})
	return v
}

func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Location resolves a timezone name, treating "" and "Local" as the
// host's zone.
func Location(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
