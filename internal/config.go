package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/seedsql/internal/sql/grammar"
	"github.com/tuannm99/seedsql/internal/sql/parser"
	"github.com/tuannm99/seedsql/pkg/ast"
	"github.com/tuannm99/seedsql/server/seedwire"
)

const envPrefix = "SEEDSQL"

type SeedConfig struct {
	AppName string `mapstructure:"app_name"`

	Parser struct {
		MaxDepth      int  `mapstructure:"max_depth"`
		CollectErrors bool `mapstructure:"collect_errors"`
		LenientInsert bool `mapstructure:"lenient_insert"`
	} `mapstructure:"parser"`

	Server struct {
		Addr         string `mapstructure:"addr"`
		Debug        bool   `mapstructure:"debug"`
		CacheSize    int    `mapstructure:"cache_size"`
		MaxFrameSize int    `mapstructure:"max_frame_size"`
	} `mapstructure:"server"`

	Output struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "seedsql")
	v.SetDefault("parser.max_depth", grammar.DefaultMaxDepth)
	v.SetDefault("parser.collect_errors", false)
	v.SetDefault("parser.lenient_insert", false)
	v.SetDefault("server.addr", "127.0.0.1:8867")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.cache_size", 256)
	v.SetDefault("server.max_frame_size", seedwire.MaxFrameSize)
	v.SetDefault("output.format", string(ast.FormatJSON))
}

// LoadConfig reads a YAML config file. An empty path skips the file, leaving
// defaults and SEEDSQL_* environment overrides (SEEDSQL_SERVER_ADDR, ...).
func LoadConfig(path string) (*SeedConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg SeedConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *SeedConfig) Validate() error {
	if c.Parser.MaxDepth < 1 || c.Parser.MaxDepth > grammar.MaxDepthLimit {
		return fmt.Errorf("config: parser.max_depth must be in [1, %d], got %d", grammar.MaxDepthLimit, c.Parser.MaxDepth)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("config: server.cache_size must not be negative, got %d", c.Server.CacheSize)
	}
	if c.Server.MaxFrameSize < 1 {
		return fmt.Errorf("config: server.max_frame_size must be positive, got %d", c.Server.MaxFrameSize)
	}
	if _, err := ast.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("config: output.format: %w", err)
	}
	return nil
}

// ParseOptions turns the parser section into parser options.
func (c *SeedConfig) ParseOptions() []parser.Option {
	opts := []parser.Option{parser.WithMaxDepth(c.Parser.MaxDepth)}
	if c.Parser.CollectErrors {
		opts = append(opts, parser.WithCollectErrors())
	}
	if c.Parser.LenientInsert {
		opts = append(opts, parser.WithLenientInsert())
	}
	return opts
}

// OutputFormat is the validated output format.
func (c *SeedConfig) OutputFormat() ast.Format {
	f, err := ast.ParseFormat(c.Output.Format)
	if err != nil {
		return ast.FormatJSON
	}
	return f
}
