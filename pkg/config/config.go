// Package config loads basecracker settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/basecracker/config.toml, falling back to
// ~/.config/basecracker/config.toml. A missing file yields [Default].
//
//	[crack]
//	threshold = 0.9
//	max_depth = 16
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[recipes]
//	double64 = ["64", "64"]
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/skyf0l/basecracker/pkg/cache"
	"github.com/skyf0l/basecracker/pkg/cracker"
	errs "github.com/skyf0l/basecracker/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "basecracker"

// Config is the file layout.
type Config struct {
	Crack   Crack               `toml:"crack"`
	Cache   Cache               `toml:"cache"`
	Server  Server              `toml:"server"`
	Recipes map[string][]string `toml:"recipes" validate:"dive,min=1"`
}

// Crack holds search defaults.
type Crack struct {
	Threshold   float64 `toml:"threshold" validate:"gt=0,lte=1"`
	MaxDepth    int     `toml:"max_depth" validate:"gte=1,lte=256"`
	MaxFrontier int     `toml:"max_frontier" validate:"gte=1"`
	Workers     int     `toml:"workers" validate:"gte=1,lte=64"`
}

// Cache selects the result cache.
type Cache struct {
	Backend   string   `toml:"backend" validate:"oneof=file redis mongo none"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	MongoURI  string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
}

// Server configures `basecracker serve`.
type Server struct {
	Addr string `toml:"addr" validate:"required"`
	// KeyPrefix namespaces the API's cache keys so a shared redis or mongo
	// backend keeps them apart from CLI entries. Empty shares them.
	KeyPrefix string `toml:"key_prefix" validate:"max=64"`
}

// Duration is a time.Duration written as "24h" in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Crack: Crack{
			Threshold:   cracker.DefaultThreshold,
			MaxDepth:    cracker.DefaultMaxDepth,
			MaxFrontier: cracker.DefaultMaxFrontier,
			Workers:     1,
		},
		Cache: Cache{
			Backend:   cache.BackendFile,
			TTL:       Duration{cache.TTLCrack},
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
		},
		Server:  Server{Addr: ":8080", KeyPrefix: "api:"},
		Recipes: map[string][]string{},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads path over the defaults. An empty path means Path(); a missing
// file at the default location is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
	}
	return errs.New(errs.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

// CrackOptions converts the [crack] section.
func (c *Config) CrackOptions() cracker.Options {
	return cracker.Options{
		Threshold:   c.Crack.Threshold,
		MaxDepth:    c.Crack.MaxDepth,
		MaxFrontier: c.Crack.MaxFrontier,
		Workers:     c.Crack.Workers,
	}
}

// CacheOptions converts the [cache] section, filling the default directory.
func (c *Config) CacheOptions() (cache.OpenOptions, error) {
	opts := cache.OpenOptions{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
		MongoURI:  c.Cache.MongoURI,
		Timeout:   5 * time.Second,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = dir
	}
	return opts, nil
}

// Recipe returns a named scheme list.
func (c *Config) Recipe(name string) ([]string, bool) {
	r, ok := c.Recipes[name]
	return r, ok
}
