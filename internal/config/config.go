package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// PlannerConfig 排程算法的默认参数，可热更新
type PlannerConfig struct {
	DefaultDailyHours float64 `mapstructure:"default_daily_hours"`
	MinSessionHours   float64 `mapstructure:"min_session_hours"`
	SkipWeekends      bool    `mapstructure:"skip_weekends"`
	// PreserveCompleted 重新生成计划时是否保留范围内已完成的时段
	PreserveCompleted bool `mapstructure:"preserve_completed"`
	ExamLookaheadDays int  `mapstructure:"exam_lookahead_days"`
	CatchUpMaxDays    int  `mapstructure:"catch_up_max_days"`
}

type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	QueueKey string `mapstructure:"queue_key"`
	// SweepIntervalMinutes 低完成率巡检的周期
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("STUDY_PLANNER")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("planner.default_daily_hours", 4.0)
	viper.SetDefault("planner.min_session_hours", 0.5)
	viper.SetDefault("planner.skip_weekends", true)
	viper.SetDefault("planner.preserve_completed", true)
	viper.SetDefault("planner.exam_lookahead_days", 7)
	viper.SetDefault("planner.catch_up_max_days", 3)
	viper.SetDefault("reminder.queue_key", "reminder:queue")
	viper.SetDefault("reminder.sweep_interval_minutes", 60)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Planner.MinSessionHours <= 0 {
		cfg.Planner.MinSessionHours = 0.5
	}

	return &cfg, nil
}
