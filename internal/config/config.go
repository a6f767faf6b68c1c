package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	LogLevel   string

	JWTSecret string
	JWTExpiry time.Duration

	RedisAddr      string
	ReportCacheTTL time.Duration

	KafkaBrokers      []string
	NotificationTopic string

	GeneratorEnabled bool
	GeneratorSpec    string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "workorder_user")
	v.SetDefault("db_password", "workorder_pass")
	v.SetDefault("db_name", "workorder_db")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("server_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_secret", "supersecretkey")
	v.SetDefault("jwt_expiry_hours", 24)
	v.SetDefault("redis_addr", "")
	v.SetDefault("report_cache_ttl", "1m")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("notification_topic", "workorder.notifications")
	v.SetDefault("generator_enabled", true)
	v.SetDefault("generator_spec", "@every 1m")
}

// Load reads .env into the process environment, then resolves every value
// from v (flag > env > config file > default).
func Load(v *viper.Viper) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}
	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSSLMode:         v.GetString("db_sslmode"),
		ServerPort:        v.GetString("server_port"),
		LogLevel:          v.GetString("log_level"),
		JWTSecret:         v.GetString("jwt_secret"),
		JWTExpiry:         time.Duration(v.GetInt("jwt_expiry_hours")) * time.Hour,
		RedisAddr:         v.GetString("redis_addr"),
		ReportCacheTTL:    v.GetDuration("report_cache_ttl"),
		KafkaBrokers:      splitList(v.GetString("kafka_brokers")),
		NotificationTopic: v.GetString("notification_topic"),
		GeneratorEnabled:  v.GetBool("generator_enabled"),
		GeneratorSpec:     v.GetString("generator_spec"),
	}
}

// DSN is the Postgres connection string for gorm and the migrator.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
