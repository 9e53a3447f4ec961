package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
// Secrets (JWT keys, message encryption key) are resolved once here and passed
// explicitly to the components that need them.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	SMTP       SMTPConfig
	Auth       AuthConfig
	Encryption EncryptionConfig
	Upload     UploadConfig
	AppOrigin  string `mapstructure:"apporigin"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
	Username string `mapstructure:"username"`
	Port     int    `mapstructure:"port"`
	Host     string `mapstructure:"host"`
}

// AuthConfig carries the two JWT secrets. Access and refresh tokens are signed
// with distinct secrets so a compromise of one cannot mint the other kind.
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwtsecret"`
	JWTRefreshSecret string `mapstructure:"jwtrefreshsecret"`
}

// EncryptionConfig carries the fixed symmetric key for chat message bodies.
// Must be exactly 32 bytes (AES-256).
type EncryptionConfig struct {
	MessageKey string `mapstructure:"messagekey"`
}

// UploadConfig controls where incident media files are stored.
type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load creates a new Config object from environment variables.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into process environment for BindEnv to work with file-based envs
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	}

	// Bind structured keys to environment variables
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("apporigin", "APP_ORIGIN")
	_ = viper.BindEnv("auth.jwtsecret", "JWT_SECRET")
	_ = viper.BindEnv("auth.jwtrefreshsecret", "JWT_REFRESH_SECRET")
	_ = viper.BindEnv("encryption.messagekey", "ENCRYPTION_KEY")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("upload.dir", "UPLOAD_DIR")

	if err := viper.ReadInConfig(); err != nil {
		// We can still proceed if all config is set via environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// --- Set default values ---
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.AppOrigin == "" {
		cfg.AppOrigin = "http://localhost:" + cfg.Server.Port
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Auth.JWTSecret == "" || cfg.Auth.JWTRefreshSecret == "" {
		log.Fatal("❌ JWT_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if len(cfg.Encryption.MessageKey) != 32 {
		log.Fatal("❌ ENCRYPTION_KEY must be exactly 32 bytes")
	}

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}
