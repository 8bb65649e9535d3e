package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type EngineConfig struct {
	MaxDepth     int                   `mapstructure:"max_depth"`
	MaxTimeMs    int                   `mapstructure:"max_time_ms"`
	Difficulties map[string]Difficulty `mapstructure:"difficulties"`
}

// Difficulty maps a named preset onto a fixed search depth and time
// budget. The mapping belongs to the serving layer, not the engine.
type Difficulty struct {
	Depth  int `mapstructure:"depth" json:"depth"`
	TimeMs int `mapstructure:"time_ms" json:"timeMs"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variables
	viper.SetEnvPrefix("CHESSMIND")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadDefaults(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Engine.Difficulties) == 0 {
		cfg.Engine.Difficulties = defaultDifficulties()
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("engine.max_depth", 8)
	viper.SetDefault("engine.max_time_ms", 30000)
	for name, d := range defaultDifficulties() {
		viper.SetDefault("engine.difficulties."+name+".depth", d.Depth)
		viper.SetDefault("engine.difficulties."+name+".time_ms", d.TimeMs)
	}
	viper.SetDefault("development.debug", false)
	viper.SetDefault("development.log_level", "info")
}

func defaultDifficulties() map[string]Difficulty {
	return map[string]Difficulty{
		"beginner":     {Depth: 2, TimeMs: 1000},
		"intermediate": {Depth: 3, TimeMs: 2000},
		"advanced":     {Depth: 4, TimeMs: 4000},
		"expert":       {Depth: 5, TimeMs: 8000},
		"grandmaster":  {Depth: 6, TimeMs: 15000},
	}
}

func loadDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Engine: EngineConfig{
			MaxDepth:     8,
			MaxTimeMs:    30000,
			Difficulties: defaultDifficulties(),
		},
		Development: DevelopmentConfig{
			Debug:    false,
			LogLevel: "info",
		},
	}
}
