package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/Dayavats/samvaad/pkg/config"
	"github.com/Dayavats/samvaad/pkg/database"
	"github.com/Dayavats/samvaad/pkg/log"
	"github.com/Dayavats/samvaad/pkg/storage"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig
	Database  database.Config
	WebSocket WebSocketConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Media     MediaConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

// RedisConfig gates the optional message-history cache.
type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig gates the optional message.sent event firehose.
type KafkaConfig struct {
	Enabled    bool
	Brokers    string
	Topic      string
	Partitions int
}

// MediaConfig selects where post/story images live.
type MediaConfig struct {
	Driver    string              `mapstructure:"driver"` // local, s3
	URLExpiry time.Duration       `mapstructure:"url_expiry"`
	Local     storage.LocalConfig `mapstructure:"local"`
	S3        storage.S3Config    `mapstructure:"s3"`
}

// Load reads configuration from config/config.yaml overridden by
// environment variables.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "samvaad.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.issuer", "samvaad")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "samvaad:history")
	v.SetDefault("redis.ttl", "30s")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "samvaad-message-events")
	v.SetDefault("kafka.partitions", 4)
	v.SetDefault("media.driver", "local")
	v.SetDefault("media.url_expiry", "15m")
	v.SetDefault("media.local.base_path", "./media")
	v.SetDefault("media.local.base_url", "/media")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Environment overrides
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.file_path", "DB_FILE")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("media.driver", "MEDIA_DRIVER")
	v.BindEnv("media.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("media.s3.bucket", "S3_BUCKET")
	v.BindEnv("media.s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("media.s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Durations arrive as strings from env; parse them explicitly.
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Auth.TokenTTL = parseDuration(v, "auth.token_ttl", 168*time.Hour)
	cfg.Redis.TTL = parseDuration(v, "redis.ttl", 30*time.Second)
	cfg.Media.URLExpiry = parseDuration(v, "media.url_expiry", 15*time.Minute)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}
