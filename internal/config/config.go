package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/conform/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "conform.yaml"

// EnvPrefix prefixes the environment variables that override the file.
// CONFORM_REDIS_ADDR sets redis.addr, CONFORM_LOG_LEVEL sets log_level.
const EnvPrefix = "CONFORM_"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	// Dir is the schema directory used by the file and memory stores.
	Dir      string      `mapstructure:"dir"`
	Store    string      `mapstructure:"store"`
	LogLevel string      `mapstructure:"log_level"`
	HTTP     HTTPConfig  `mapstructure:"http"`
	MCP      MCPConfig   `mapstructure:"mcp"`
	Redis    RedisConfig `mapstructure:"redis"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Dir:      "schemas",
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		MCP:      MCPConfig{Transport: "stdio", Port: 8081},
		Redis:    RedisConfig{Prefix: "conform:schema:"},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in increasing precedence. An empty path reads DefaultFile if present.
func Load(path string, environ []string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := decode(raw, &cfg, true); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := decode(fromEnv(environ), &cfg, false); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, cfg.Validate()
}

func decode(input map[string]any, cfg *Config, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var sections = []string{"http", "mcp", "redis"}

// fromEnv turns CONFORM_* variables into the nested shape of the config file.
func fromEnv(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

		placed := false
		for _, section := range sections {
			if field, ok := strings.CutPrefix(key, section+"_"); ok {
				nested, _ := out[section].(map[string]any)
				if nested == nil {
					nested = make(map[string]any)
					out[section] = nested
				}
				nested[field] = value
				placed = true
				break
			}
		}
		if !placed {
			out[key] = value
		}
	}
	return out
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case "", StoreMemory, StoreFile:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("store redis requires redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		errs = append(errs, fmt.Errorf("unknown mcp transport %q", c.MCP.Transport))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StoreKind resolves an empty Store setting: redis when an address is set, the file store otherwise.
func (c Config) StoreKind() string {
	if c.Store != "" {
		return c.Store
	}
	if c.Redis.Addr != "" {
		return StoreRedis
	}
	return StoreFile
}
