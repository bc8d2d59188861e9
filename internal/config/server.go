package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides, with "__" separating nested
// keys: BESS_PORT, BESS_STORE__KIND, BESS_STORE__SQLITE_PATH.
const EnvPrefix = "BESS_"

// ServerConfig configures the HTTP API process.
type ServerConfig struct {
	Port      string      `json:"port"`
	Env       string      `json:"env"`
	StaticDir string      `json:"static_dir"`
	PresetDir string      `json:"preset_dir"`
	LogLevel  string      `json:"log_level"`
	Store     StoreConfig `json:"store"`
	// CORSOrigins lists allowed browser origins; empty allows any.
	// BESS_CORS_ORIGINS takes a comma-separated list.
	CORSOrigins []string `json:"cors_origins"`
}

type StoreConfig struct {
	// Kind is "memory" or "sqlite".
	Kind       string        `json:"kind"`
	SQLitePath string        `json:"sqlite_path"`
	TTL        time.Duration `json:"ttl"`
}

// IsProduction reports whether the server runs with env=production.
func (c *ServerConfig) IsProduction() bool { return c.Env == "production" }

// SetDefaults fills unset fields.
func (c *ServerConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./web/dist"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Store.Kind == "" {
		c.Store.Kind = "memory"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/simulations.db"
	}
	if c.Store.TTL == 0 {
		c.Store.TTL = time.Hour
	}
}

func (c *ServerConfig) Validate() error {
	switch c.Store.Kind {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.kind must be memory or sqlite, got %q", c.Store.Kind)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must be >= 0")
	}
	return nil
}

// LoadServer reads server settings from an optional YAML/JSON file, then
// applies BESS_* environment overrides.
func LoadServer(path string) (*ServerConfig, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
