package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gogotex/blog/internal/storage"
)

// Source kinds for POSTS_SOURCE.
const (
	SourceDir   = "dir"
	SourceMinIO = "minio"
	SourceMongo = "mongo"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Posts     PostsConfig
	Search    SearchConfig
	Site      SiteConfig
	MongoDB   MongoDBConfig
	MinIO     storage.MinIOConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type PostsConfig struct {
	Source   string
	Dir      string
	Prefix   string
	Watch    bool
	Featured int
}

type SearchConfig struct {
	Threshold float64
	Limit     int
}

type SiteConfig struct {
	Title       string
	Description string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	RenderCacheTTL time.Duration
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr is host:port, defaulting the port to 6379.
func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	Window  time.Duration
}

// LoadConfig loads configuration from environment variables, an optional .env
// file and an optional YAML file named by BLOG_CONFIG.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "auto")
	v.SetDefault("POSTS_SOURCE", SourceDir)
	v.SetDefault("POSTS_DIR", "posts")
	v.SetDefault("POSTS_PREFIX", "posts/")
	v.SetDefault("POSTS_WATCH", false)
	v.SetDefault("POSTS_FEATURED", 3)
	v.SetDefault("SEARCH_THRESHOLD", 0.4)
	v.SetDefault("SEARCH_LIMIT", 0)
	v.SetDefault("SITE_TITLE", "Blog")
	v.SetDefault("SITE_DESCRIPTION", "")
	v.SetDefault("MONGODB_DATABASE", "blog")
	v.SetDefault("MONGODB_COLLECTION", "posts")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MINIO_BUCKET", "blog")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RENDER_CACHE_TTL", 3600)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", 1)

	if file := v.GetString("BLOG_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Posts: PostsConfig{
			Source:   strings.ToLower(v.GetString("POSTS_SOURCE")),
			Dir:      v.GetString("POSTS_DIR"),
			Prefix:   v.GetString("POSTS_PREFIX"),
			Watch:    v.GetBool("POSTS_WATCH"),
			Featured: v.GetInt("POSTS_FEATURED"),
		},
		Search: SearchConfig{
			Threshold: v.GetFloat64("SEARCH_THRESHOLD"),
			Limit:     v.GetInt("SEARCH_LIMIT"),
		},
		Site: SiteConfig{
			Title:       v.GetString("SITE_TITLE"),
			Description: v.GetString("SITE_DESCRIPTION"),
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Redis: RedisConfig{
			Host:           v.GetString("REDIS_HOST"),
			Port:           v.GetString("REDIS_PORT"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			RenderCacheTTL: time.Duration(v.GetInt("RENDER_CACHE_TTL")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
			Window:  time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Posts.Source {
	case SourceDir:
		if c.Posts.Dir == "" {
			return fmt.Errorf("POSTS_DIR is required for the %s source", SourceDir)
		}
	case SourceMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for the %s source", SourceMinIO)
		}
	case SourceMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for the %s source", SourceMongo)
		}
	default:
		return fmt.Errorf("invalid POSTS_SOURCE %q, expected: [dir, minio, mongo]", c.Posts.Source)
	}
	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("SEARCH_THRESHOLD must be in (0, 1], got %v", c.Search.Threshold)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("SEARCH_LIMIT must not be negative, got %d", c.Search.Limit)
	}
	switch c.Log.Format {
	case "auto", "human", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q, expected: [auto, json, human]", c.Log.Format)
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RPS)
	}
	return nil
}
