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
	AI        AIConfig
	Admin     AdminConfig
	LeetCode  LeetCodeConfig  `mapstructure:"leetcode"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Contests  ContestsConfig  `mapstructure:"contests"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
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

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type AdminConfig struct {
	// MasterSecret 允许在数据库没有管理员账号时使用该口令登录（仅用于初始化）
	MasterSecret string `mapstructure:"master_secret"`
}

type LeetCodeConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	SubmissionLimit int    `mapstructure:"submission_limit"`
}

type RefreshConfig struct {
	CooldownMinutes     int `mapstructure:"cooldown_minutes"`
	IntervalMinutes     int `mapstructure:"interval_minutes"`
	AnalysisWindowHours int `mapstructure:"analysis_window_hours"`
}

type ContestsConfig struct {
	CodeforcesURL   string `mapstructure:"codeforces_url"`
	CodechefURL     string `mapstructure:"codechef_url"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
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

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LEET_TRACK")
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

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Admin
	viper.BindEnv("admin.master_secret", "ADMIN_MASTER_SECRET")

	// LeetCode
	viper.BindEnv("leetcode.endpoint", "LEETCODE_ENDPOINT")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

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

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LeetCode.Endpoint == "" {
		cfg.LeetCode.Endpoint = "https://leetcode.com/graphql"
	}
	if cfg.LeetCode.SubmissionLimit <= 0 {
		cfg.LeetCode.SubmissionLimit = 10
	}
	if cfg.Refresh.CooldownMinutes <= 0 {
		cfg.Refresh.CooldownMinutes = 5
	}
	if cfg.Refresh.IntervalMinutes <= 0 {
		cfg.Refresh.IntervalMinutes = 20
	}
	if cfg.Refresh.AnalysisWindowHours <= 0 {
		cfg.Refresh.AnalysisWindowHours = 24
	}
	if cfg.Contests.CodeforcesURL == "" {
		cfg.Contests.CodeforcesURL = "https://codeforces.com/api/contest.list"
	}
	if cfg.Contests.CodechefURL == "" {
		cfg.Contests.CodechefURL = "https://www.codechef.com/api/list/contests/all"
	}
	if cfg.Contests.CacheTTLMinutes <= 0 {
		cfg.Contests.CacheTTLMinutes = 60
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 1000
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = 1
	}
}
