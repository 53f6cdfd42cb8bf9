package config

import (
	"fmt"
	"strings"
	"time"

	"pokemon-map/internal/shared/utils"

	"github.com/joho/godotenv"
)

const DefaultImageURL = "https://vignette.wikia.nocookie.net/pokemon/images/6/6e/%21.png/revision/latest/fixed-aspect-ratio-down/width/240/height/240?cb=20130525215832&fill=transparent"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Map       MapConfig
	Media     MediaConfig
	I18n      I18nConfig
}

type ServerConfig struct {
	Port            string
	URL             string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled    bool
	URL        string
	Host       string
	Port       string
	Password   string
	DB         int
	CatalogTTL time.Duration
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// MapConfig controls the initial viewport of every rendered map.
type MapConfig struct {
	CenterLat       float64
	CenterLon       float64
	Zoom            int
	DefaultImageURL string
	IconSize        int
}

type MediaConfig struct {
	Dir       string
	URL       string
	StaticDir string
	StaticURL string
}

type I18nConfig struct {
	DefaultLanguage string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Map:       loadMapConfig(),
		Media:     loadMediaConfig(),
		I18n:      loadI18nConfig(),
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            utils.GetEnv("SERVER_PORT", "8000"),
		URL:             strings.TrimRight(utils.GetEnv("SERVER_URL", "http://localhost:8000"), "/"),
		Environment:     utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:     time.Duration(utils.GetEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)) * time.Second,
		WriteTimeout:    time.Duration(utils.GetEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
		IdleTimeout:     time.Duration(utils.GetEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		ShutdownTimeout: time.Duration(utils.GetEnvInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "pokemon_map"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:    utils.GetEnv("REDIS_ENABLED", "false") == "true",
		URL:        utils.GetEnv("REDIS_URL", ""),
		Host:       utils.GetEnv("REDIS_HOST", "localhost"),
		Port:       utils.GetEnv("REDIS_PORT", "6379"),
		Password:   utils.GetEnv("REDIS_PASSWORD", ""),
		DB:         utils.GetEnvInt("REDIS_DB", 0),
		CatalogTTL: time.Duration(utils.GetEnvInt("REDIS_CATALOG_TTL_SECONDS", 300)) * time.Second,
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:8000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	jsonFormat := environment == "production" || utils.GetEnv("LOG_FORMAT", "text") == "json"

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     utils.GetEnv("LOG_FORMAT", "text"),
		JSONFormat: jsonFormat,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadMapConfig() MapConfig {
	return MapConfig{
		CenterLat:       utils.GetEnvFloat("MAP_CENTER_LAT", 55.751244),
		CenterLon:       utils.GetEnvFloat("MAP_CENTER_LON", 37.618423),
		Zoom:            utils.GetEnvInt("MAP_ZOOM", 12),
		DefaultImageURL: utils.GetEnv("MAP_DEFAULT_IMAGE_URL", DefaultImageURL),
		IconSize:        utils.GetEnvInt("MAP_ICON_SIZE", 50),
	}
}

func loadMediaConfig() MediaConfig {
	return MediaConfig{
		Dir:       utils.GetEnv("MEDIA_ROOT", "media"),
		URL:       ensureSlashes(utils.GetEnv("MEDIA_URL", "/media/")),
		StaticDir: utils.GetEnv("STATIC_ROOT", "static"),
		StaticURL: ensureSlashes(utils.GetEnv("STATIC_URL", "/static/")),
	}
}

func loadI18nConfig() I18nConfig {
	return I18nConfig{
		DefaultLanguage: utils.GetEnv("DEFAULT_LANGUAGE", "ru"),
	}
}

func ensureSlashes(path string) string {
	path = "/" + strings.Trim(path, "/") + "/"
	if path == "//" {
		return "/"
	}
	return path
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return fmt.Errorf("MAP_CENTER_LAT must be within [-90, 90], got %v", c.Map.CenterLat)
	}

	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		return fmt.Errorf("MAP_CENTER_LON must be within [-180, 180], got %v", c.Map.CenterLon)
	}

	if c.Map.Zoom <= 0 {
		return fmt.Errorf("MAP_ZOOM must be positive")
	}

	if c.Map.IconSize <= 0 {
		return fmt.Errorf("MAP_ICON_SIZE must be positive")
	}

	// The file servers are mounted as prefixes next to the page routes
	if c.Media.URL == "/" {
		return fmt.Errorf("MEDIA_URL must not be the site root")
	}

	if c.Media.StaticURL == "/" {
		return fmt.Errorf("STATIC_URL must not be the site root")
	}

	if c.Media.URL == c.Media.StaticURL {
		return fmt.Errorf("MEDIA_URL and STATIC_URL must differ, both are %s", c.Media.URL)
	}

	if c.Redis.Enabled && c.Redis.CatalogTTL <= 0 {
		return fmt.Errorf("REDIS_CATALOG_TTL_SECONDS must be positive when Redis is enabled")
	}

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MediaURLFor returns the public path of a stored media file, or "" when
// there is no file.
func (c *Config) MediaURLFor(path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	return c.Media.URL + path
}

// AbsoluteMediaURLFor is MediaURLFor prefixed with the server URL, for
// consumers that run outside the page origin such as map marker icons.
func (c *Config) AbsoluteMediaURLFor(path string) string {
	rel := c.MediaURLFor(path)
	if rel == "" {
		return ""
	}
	return c.Server.URL + rel
}
