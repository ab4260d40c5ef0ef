package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kataras/golog"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	RabbitMQ RabbitMQConfig
	Payment  PaymentConfig
	QR       QRConfig
	Images   ImageConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// KafkaConfig is optional. An empty broker list disables the event log.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RabbitMQConfig is optional. An empty URL disables notification delivery jobs.
type RabbitMQConfig struct {
	URL          string
	ExchangeName string
}

type PaymentConfig struct {
	BaseURL     string
	ClientID    string
	APIKey      string
	ChecksumKey string
	ReturnURL   string
	CancelURL   string
}

type QRConfig struct {
	BaseURL  string
	ClientID string
	APIKey   string
	Template string
}

type ImageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type ReportConfig struct {
	TimeZone string
}

// Location returns the configured report time zone, falling back to UTC when it cannot be loaded.
func (r ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		golog.Warnf("⚠️  invalid REPORT_TIMEZONE %q, using UTC", r.TimeZone)
		return time.UTC
	}
	return loc
}

func Load() *Config {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			golog.Debug("no .env file loaded")
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "4000"),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DB_CONNECTION_STRING"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessTTL:     24 * time.Hour,
			RefreshTTL:    365 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "restaurant_events"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:          getEnv("RABBITMQ_URL", ""),
			ExchangeName: getEnv("RABBITMQ_EXCHANGE", "notifications_fanout"),
		},
		Payment: PaymentConfig{
			BaseURL:     getEnv("PAYOS_BASE_URL", "https://api-merchant.payos.vn"),
			ClientID:    os.Getenv("PAYOS_CLIENT_ID"),
			APIKey:      os.Getenv("PAYOS_API_KEY"),
			ChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),
			ReturnURL:   getEnv("PAYOS_RETURN_URL", "http://localhost:3000/payment/success"),
			CancelURL:   getEnv("PAYOS_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		},
		QR: QRConfig{
			BaseURL:  getEnv("VIETQR_BASE_URL", "https://api.vietqr.io"),
			ClientID: os.Getenv("VIETQR_CLIENT_ID"),
			APIKey:   os.Getenv("VIETQR_API_KEY"),
			Template: getEnv("VIETQR_TEMPLATE", "compact"),
		},
		Images: ImageConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    os.Getenv("CLOUDINARY_FOLDER"),
		},
		Report: ReportConfig{
			TimeZone: getEnv("REPORT_TIMEZONE", "Asia/Ho_Chi_Minh"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
