package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Robot    RobotConfig    `mapstructure:"robot"`
	Programs ProgramsConfig `mapstructure:"programs"`
	Poller   PollerConfig   `mapstructure:"poller"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DBConfig holds sqlite settings.
type DBConfig struct {
	Path     string `mapstructure:"path"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// RobotConfig describes the controller endpoint and connection timing.
type RobotConfig struct {
	Host        string        `mapstructure:"host"`
	ControlPort int           `mapstructure:"control_port"`
	ProgramPort int           `mapstructure:"program_port"`
	Program     string        `mapstructure:"program"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type ProgramsConfig struct {
	Dir string `mapstructure:"dir"`
}

type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

const envPrefix = "PACKCELL"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "packaging_cell.db")
	v.SetDefault("db.seed_demo", true)
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("robot.host", "127.0.0.1")
	v.SetDefault("robot.control_port", 29999)
	v.SetDefault("robot.program_port", 30002)
	v.SetDefault("robot.program", "Robot.script")
	v.SetDefault("robot.settle_delay", 800*time.Millisecond)
	v.SetDefault("robot.dial_timeout", 5*time.Second)
	v.SetDefault("programs.dir", "programs")
	v.SetDefault("poller.interval", 250*time.Millisecond)
}

// Load reads configs/config.yml (or the file named by PACKCELL_CONFIG) and env.
// Env var overrides use prefix PACKCELL_, e.g. PACKCELL_ROBOT_HOST.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Robot.ControlPort <= 0 || c.Robot.ControlPort > 65535 {
		return fmt.Errorf("robot.control_port out of range: %d", c.Robot.ControlPort)
	}
	if c.Robot.ProgramPort <= 0 || c.Robot.ProgramPort > 65535 {
		return fmt.Errorf("robot.program_port out of range: %d", c.Robot.ProgramPort)
	}
	if c.Poller.Interval <= 0 {
		return fmt.Errorf("poller.interval must be positive, got %s", c.Poller.Interval)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
