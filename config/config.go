// Package config 基于 viper 加载服务端配置（默认值 → 可选 YAML 文件 → 环境变量）
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig HTTP 监听与静态资源
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// Addr 返回 ":port" 形式的监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// LogConfig 日志文件与级别
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// WorldConfig 初始地图尺寸与出生点内缩边距
type WorldConfig struct {
	Width       float64 `mapstructure:"width"`
	Height      float64 `mapstructure:"height"`
	SpawnMargin float64 `mapstructure:"spawn_margin"`
}

// PlayerConfig 新玩家初始值
type PlayerConfig struct {
	StartingCoins     int `mapstructure:"starting_coins"`
	MaxUsernameLength int `mapstructure:"max_username_length"`
}

// ChatConfig 聊天限制
type ChatConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

// NetConfig 连接层参数
type NetConfig struct {
	SendBuffer      int           `mapstructure:"send_buffer"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	WriteWait       time.Duration `mapstructure:"write_wait"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
}

// CatalogConfig 价目表来源；File 为空时使用内置价目表
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

// Config 顶层配置
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	World   WorldConfig   `mapstructure:"world"`
	Player  PlayerConfig  `mapstructure:"player"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Net     NetConfig     `mapstructure:"net"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// Validate 检查全部约束，一次性返回所有违规项
func (c Config) Validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [debug, info, warn, error], got %q", c.Log.Level))
	}
	if c.Log.File == "" {
		errs = append(errs, "log.file must not be empty")
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Sprintf("world dimensions must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.World.SpawnMargin < 0 {
		errs = append(errs, "world.spawn_margin must not be negative")
	}
	if c.Player.StartingCoins < 0 {
		errs = append(errs, "player.starting_coins must not be negative")
	}
	if c.Player.MaxUsernameLength < 1 {
		errs = append(errs, "player.max_username_length must be >= 1")
	}
	if c.Chat.MaxLength < 1 {
		errs = append(errs, "chat.max_length must be >= 1")
	}
	if c.Net.SendBuffer < 1 {
		errs = append(errs, "net.send_buffer must be >= 1")
	}
	if c.Net.PongWait <= 0 || c.Net.WriteWait <= 0 {
		errs = append(errs, "net.pong_wait and net.write_wait must be positive")
	}
	if c.Net.MaxMessageBytes < 1 {
		errs = append(errs, "net.max_message_bytes must be >= 1")
	}
	if len(errs) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.static_dir", "web")
	v.SetDefault("log.file", "app.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("world.width", 2000.0)
	v.SetDefault("world.height", 2000.0)
	v.SetDefault("world.spawn_margin", 100.0)
	v.SetDefault("player.starting_coins", 100)
	v.SetDefault("player.max_username_length", 24)
	v.SetDefault("chat.max_length", 500)
	v.SetDefault("net.send_buffer", 64)
	v.SetDefault("net.pong_wait", 60*time.Second)
	v.SetDefault("net.write_wait", 5*time.Second)
	v.SetDefault("net.max_message_bytes", 1<<16)
	v.SetDefault("catalog.file", "")
}

// Default 返回仅由默认值与环境变量构成的配置
func Default() (Config, error) {
	return Load("")
}

// Load 读取配置：path 为空时跳过文件，仅使用默认值与环境变量
// 环境变量：PORT 直接覆盖 server.port，其余使用 PLAZA_ 前缀（如 PLAZA_LOG_LEVEL）
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PLAZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "PORT", "PLAZA_SERVER_PORT"); err != nil {
		return Config{}, fmt.Errorf("binding PORT: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
