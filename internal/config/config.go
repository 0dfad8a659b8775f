// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，由 Init 填充。
var Conf Config

// EnvPrefix 是环境变量覆盖配置时使用的前缀，例如 LOCALCHAT_SERVER_PORT。
const EnvPrefix = "LOCALCHAT"

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Backends BackendsConfig `mapstructure:"backends"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// StorageConfig 选择会话存储的实现。
// Driver 取值: memory | sqlite | mysql | redis。
type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SQLiteConfig 存储 SQLite 数据库文件的位置。
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BackendsConfig 存储两个本地模型后端的配置。
type BackendsConfig struct {
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	LMStudio LMStudioConfig `mapstructure:"lmstudio"`
}

// OllamaConfig 对应 generate 风格的后端。
type OllamaConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ModelsTimeout time.Duration `mapstructure:"models_timeout"`
}

// LMStudioConfig 对应 OpenAI 兼容的 chat-completions 后端。
type LMStudioConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ModelsTimeout time.Duration `mapstructure:"models_timeout"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxTokens     int64         `mapstructure:"max_tokens"`
}

// KafkaConfig 存储对话事件投递相关的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// SeedConfig 描述启动时需要预置的数据。
type SeedConfig struct {
	Users []SeedUser `mapstructure:"users"`
}

// SeedUser 是一个预置用户。
type SeedUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.sqlite.path", "data/chat.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.key_prefix", "localchat")

	v.SetDefault("backends.ollama.base_url", "http://localhost:11434")
	v.SetDefault("backends.ollama.timeout", 120*time.Second)
	v.SetDefault("backends.ollama.models_timeout", 10*time.Second)

	v.SetDefault("backends.lmstudio.base_url", "http://localhost:1234")
	v.SetDefault("backends.lmstudio.api_key", "lm-studio")
	v.SetDefault("backends.lmstudio.timeout", 120*time.Second)
	v.SetDefault("backends.lmstudio.models_timeout", 10*time.Second)
	v.SetDefault("backends.lmstudio.temperature", 0.7)
	v.SetDefault("backends.lmstudio.max_tokens", 1000)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "chat-turns")
}

// Load 从指定路径读取 YAML 配置，缺失的文件不视为错误，此时只使用默认值和环境变量。
func Load(configPath string) (*Config, error) {
	// .env 只是可选的便利手段
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return &cfg, nil
}

// Init 加载配置并写入全局变量 Conf，失败时直接 panic。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *cfg
}
