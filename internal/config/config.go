package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ListenAddr    string

	LogLevel  string
	LogFormat string

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// NotifyIntervalSeconds controls how often the notification watcher
	// re-queries task snapshots. 0 disables the watcher.
	NotifyIntervalSeconds int
}

func Load() *Config {
	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "taskforce"),
		DBPassword:    getEnv("DB_PASSWORD", "taskforce"),
		DBName:        getEnv("DB_NAME", "taskforce"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		S3Region:    getEnv("S3_REGION", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		NotifyIntervalSeconds: getEnvInt("NOTIFY_INTERVAL_SECONDS", 15),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
