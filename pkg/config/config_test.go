package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skyf0l/basecracker/pkg/cache"
	errs "github.com/skyf0l/basecracker/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[crack]
threshold = 0.75
max_depth = 8

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "2h"

[server]
addr = "127.0.0.1:9000"
key_prefix = "edge:"

[recipes]
double64 = ["64", "64"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Crack.Threshold != 0.75 || cfg.Crack.MaxDepth != 8 {
		t.Errorf("crack = %+v", cfg.Crack)
	}
	// Unset keys keep their defaults.
	if cfg.Crack.MaxFrontier != 4096 || cfg.Crack.Workers != 1 {
		t.Errorf("defaults lost: %+v", cfg.Crack)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.KeyPrefix != "edge:" {
		t.Errorf("server.key_prefix = %q", cfg.Server.KeyPrefix)
	}
	if r, ok := cfg.Recipe("double64"); !ok || len(r) != 2 {
		t.Errorf("recipe double64 = %v, %v", r, ok)
	}
	if _, ok := cfg.Recipe("missing"); ok {
		t.Error("unexpected recipe")
	}

	opts := cfg.CrackOptions()
	if opts.Threshold != 0.75 || opts.MaxDepth != 8 || opts.MaxFrontier != 4096 {
		t.Errorf("CrackOptions = %+v", opts)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", "[crack\n", "parse config"},
		{"threshold above one", "[crack]\nthreshold = 1.5", "Threshold"},
		{"zero depth", "[crack]\nmax_depth = 0", "MaxDepth"},
		{"bad backend", "[cache]\nbackend = \"memcached\"", "Backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\"", "RedisAddr"},
		{"empty recipe", "[recipes]\nnothing = []", "Recipes"},
		{"unknown key", "[crack]\ndepth = 3", "crack.depth"},
		{"bad duration", "[cache]\nttl = \"soon\"", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("expected error")
			}
			if errs.GetCode(err) != errs.ErrCodeInvalidConfig {
				t.Errorf("code = %s, want INVALID_CONFIG", errs.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file means defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if cfg.Crack.Threshold != 0.9 {
		t.Errorf("threshold = %v", cfg.Crack.Threshold)
	}

	path := filepath.Join(dir, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[crack]\nworkers = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Crack.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Crack.Workers)
	}

	// A missing explicit file is an error.
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	if p, _ := Path(); p != filepath.Join("/xdg/config", AppName, "config.toml") {
		t.Errorf("Path() = %q", p)
	}
	if d, _ := CacheDir(); d != filepath.Join("/xdg/cache", AppName) {
		t.Errorf("CacheDir() = %q", d)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	d, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if d != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir() fallback = %q", d)
	}
}

func TestCacheOptions(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	cfg := Default()

	opts, err := cfg.CacheOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Backend != cache.BackendFile || opts.Dir != filepath.Join("/xdg/cache", AppName) {
		t.Errorf("CacheOptions = %+v", opts)
	}

	cfg.Cache.Dir = "/custom"
	if opts, _ := cfg.CacheOptions(); opts.Dir != "/custom" {
		t.Errorf("explicit dir ignored: %q", opts.Dir)
	}
}
