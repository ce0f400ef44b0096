package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// HTTPConfig HTTP服务配置
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration // 优雅关闭等待时间
}

// Config 服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// 关怀事件引擎配置
	Welfare struct {
		TriggerProbability float64 // 每次 tick 触发概率，默认 0.30
		WeeklyCap          int     // 7 天内同类事件上限，默认 3
		DefaultTimezone    string  // 主人未设置时区时使用，默认 Asia/Seoul
		MorningHour        int     // 早间组 sweep 的本地小时
		EveningHour        int     // 晚间组 sweep 的本地小时

		PollInterval     time.Duration // 调度轮询间隔，默认 1 小时
		OperationTimeout time.Duration // 单个主人一次 tick 的超时
		BatchSize        int

		Cache struct {
			LockKeyPrefix   string // 主人级互斥锁，如 "welfare:lock:"
			LockTTL         time.Duration
			MarkerKeyPrefix string // 每日 sweep 标记，如 "welfare:tick:"
		}

		EventStream string // Redis Stream 名称
	}

	Notify struct {
		Driver      string // fcm | mqtt | log
		Title       string
		Timeout     time.Duration
		FCMEndpoint string
		FCMKey      string
		TopicPrefix string // MQTT 推送主题前缀
	}

	HTTP HTTPConfig

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（.env 文件存在时先加载，环境变量优先）
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "petwelfare")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "petwelfare")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1

	cfg.Welfare.TriggerProbability = getEnvFloat("WELFARE_TRIGGER_PROBABILITY", 0.30)
	cfg.Welfare.WeeklyCap = getEnvInt("WELFARE_WEEKLY_CAP", 3)
	cfg.Welfare.DefaultTimezone = getEnv("WELFARE_DEFAULT_TZ", "Asia/Seoul")
	cfg.Welfare.MorningHour = getEnvInt("WELFARE_MORNING_HOUR", 9)
	cfg.Welfare.EveningHour = getEnvInt("WELFARE_EVENING_HOUR", 21)
	cfg.Welfare.PollInterval = getEnvDuration("WELFARE_POLL_INTERVAL", time.Hour)
	cfg.Welfare.OperationTimeout = getEnvDuration("WELFARE_OP_TIMEOUT", 10*time.Second)
	cfg.Welfare.BatchSize = getEnvInt("WELFARE_BATCH_SIZE", 10)
	cfg.Welfare.Cache.LockKeyPrefix = getEnv("CACHE_LOCK_PREFIX", "welfare:lock:")
	cfg.Welfare.Cache.LockTTL = 5 * time.Minute
	cfg.Welfare.Cache.MarkerKeyPrefix = getEnv("CACHE_MARKER_PREFIX", "welfare:tick:")
	cfg.Welfare.EventStream = getEnv("WELFARE_EVENT_STREAM", "welfare:events")

	cfg.Notify.Driver = getEnv("NOTIFY_DRIVER", "log")
	cfg.Notify.Title = getEnv("NOTIFY_TITLE", "There are bad guardians")
	cfg.Notify.Timeout = getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second)
	cfg.Notify.FCMEndpoint = getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send")
	cfg.Notify.FCMKey = getEnv("FCM_SERVER_KEY", "")
	cfg.Notify.TopicPrefix = getEnv("NOTIFY_TOPIC_PREFIX", "petwelfare/notify")

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.ReadTimeout = getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	cfg.HTTP.WriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	cfg.HTTP.ShutdownTimeout = getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Welfare.TriggerProbability <= 0 || c.Welfare.TriggerProbability > 1 {
		return fmt.Errorf("WELFARE_TRIGGER_PROBABILITY must be within (0,1], got %v", c.Welfare.TriggerProbability)
	}
	if c.Welfare.WeeklyCap <= 0 {
		return fmt.Errorf("WELFARE_WEEKLY_CAP must be positive, got %d", c.Welfare.WeeklyCap)
	}
	if c.Welfare.MorningHour < 0 || c.Welfare.MorningHour > 23 || c.Welfare.EveningHour < 0 || c.Welfare.EveningHour > 23 {
		return fmt.Errorf("sweep hours must be within 0-23")
	}
	if c.Welfare.BatchSize <= 0 {
		return fmt.Errorf("WELFARE_BATCH_SIZE must be positive, got %d", c.Welfare.BatchSize)
	}
	// 时长类配置必须为正，NewTicker / WithTimeout 不接受 0
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"WELFARE_POLL_INTERVAL", c.Welfare.PollInterval},
		{"WELFARE_OP_TIMEOUT", c.Welfare.OperationTimeout},
		{"NOTIFY_TIMEOUT", c.Notify.Timeout},
		{"HTTP_READ_TIMEOUT", c.HTTP.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", c.HTTP.WriteTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if _, err := time.LoadLocation(c.Welfare.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid WELFARE_DEFAULT_TZ: %w", err)
	}
	switch c.Notify.Driver {
	case "fcm", "mqtt", "log":
	default:
		return fmt.Errorf("unknown NOTIFY_DRIVER %q", c.Notify.Driver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration 支持 "90s"、"1h" 形式，也接受纯数字（秒）
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
