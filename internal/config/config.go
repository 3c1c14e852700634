package config

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Profile  string         `mapstructure:"profile"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
	Query    QueryConfig    `mapstructure:"query"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"` // Applied to every request context
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Storage drivers
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "memory"
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether exercise media storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig controls the login flow.
type AuthConfig struct {
	Admin           AdminConfig `mapstructure:"admin"`
	PasswordStorage string      `mapstructure:"password_storage"` // "bcrypt" or "plaintext"
}

// AdminConfig is the fixed admin credential pair checked before stored users.
type AdminConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SecurityConfig struct {
	PublicUsers    bool     `mapstructure:"public_users"` // Exposes /api/users/** without a token
	CORSOrigins    []string `mapstructure:"cors_origins"`
	LoginRateLimit int      `mapstructure:"login_rate_limit"` // Per client IP per minute on login/register; 0 disables
}

type QueryConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// LoadConfig reads configuration from file or environment variables.
// config.yaml in path is read first; when a profile is active,
// config.<profile>.yaml is merged on top of it.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	// server.address -> SERVER_ADDRESS, jwt.secret -> JWT_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	// --- Read Config File ---
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		// No file; defaults and env vars only.
		err = nil
	}

	if profile := v.GetString("profile"); profile != "" {
		v.SetConfigName("config." + profile)
		if err = v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return
			}
			err = nil
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	config.Server.WriteTimeout = writeTimeout(config.Server)
	return config, nil
}

// writeTimeout keeps the response write deadline past the request deadline,
// so a handler cut off by its context still gets its error response out.
func writeTimeout(s ServerConfig) time.Duration {
	if s.RequestTimeout > 0 && s.WriteTimeout <= s.RequestTimeout {
		return s.RequestTimeout + 5*time.Second
	}
	return s.WriteTimeout
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", "")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_tracker")

	// Every key needs a default for AutomaticEnv to reach it through Unmarshal.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")

	v.SetDefault("auth.admin.enabled", true)
	v.SetDefault("auth.admin.username", "admin")
	v.SetDefault("auth.admin.password", "admin123")
	v.SetDefault("auth.password_storage", "bcrypt")

	v.SetDefault("security.public_users", false)
	v.SetDefault("security.cors_origins", []string{"*"})
	v.SetDefault("security.login_rate_limit", 0)

	v.SetDefault("query.default_page_size", 10)
	v.SetDefault("query.max_page_size", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

var uriCredentials = regexp.MustCompile(`://[^:/@]+:[^@]+@`)

// MaskURI hides the user and password of a connection string.
func MaskURI(uri string) string {
	return uriCredentials.ReplaceAllString(uri, "://*****:*****@")
}

// MaskedDatabaseURI returns the database URI with credentials hidden.
func (c DatabaseConfig) MaskedDatabaseURI() string {
	return MaskURI(c.URI)
}

// IsAtlas reports whether the database URI points at MongoDB Atlas.
func (c DatabaseConfig) IsAtlas() bool {
	return strings.HasPrefix(c.URI, "mongodb+srv://") || strings.Contains(c.URI, ".mongodb.net")
}
