package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Uploads  UploadsConfig  `toml:"uploads"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Redis    RedisConfig    `toml:"redis"`
	Admin    AdminConfig    `toml:"admin"`
	CORS     CORSConfig     `toml:"cors"`
}

// ServerConfig HTTP сервер
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды

	// TrustedProxies адреса или CIDR обратных прокси, которым доверяется X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры движка бронирования
type BookingConfig struct {
	Timezone            string `toml:"timezone"`
	PageSize            int    `toml:"page_size"`
	PollInterval        int    `toml:"poll_interval"`       // секунды, для websocket потока доступности
	MaxTxRetries        int    `toml:"max_tx_retries"`      // повторы сериализуемой транзакции
	SubmitRatePerMin    int    `toml:"submit_rate_per_min"` // заявок с одного IP в минуту
	SubmitBurst         int    `toml:"submit_burst"`
	MaxAvailabilityDays int    `toml:"max_availability_days"` // максимальный диапазон запроса доступности
	Currency            string `toml:"currency"`              // только для текста уведомлений
}

// Location часовой пояс оператора
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// UploadsConfig хранилище скриншотов оплаты
type UploadsConfig struct {
	Dir       string `toml:"dir"`
	PublicURL string `toml:"public_url"` // префикс URL, по которому файлы отдаются наружу
	MaxBytes  int64  `toml:"max_bytes"`
}

// SMTPConfig отправка уведомлений
type SMTPConfig struct {
	Enabled       bool   `toml:"enabled"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`
	From          string `toml:"from"`
	OperatorEmail string `toml:"operator_email"`
	Timeout       int    `toml:"timeout"` // секунды
}

// RedisConfig публикация событий бронирования
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// AdminConfig доступ к административным ручкам
type AdminConfig struct {
	Token string `toml:"token"`
}

// CORSConfig для публичного виджета бронирования
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает конфигурацию из TOML файла
// Секреты можно переопределить переменными окружения DB_PASSWORD, SMTP_PASSWORD, REDIS_PASSWORD, ADMIN_TOKEN
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("%w: uploads.dir is required", ErrInvalidConfig)
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("%w: admin.token is required", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "hub_booking_service"},
		Booking: BookingConfig{
			PageSize:            10,
			PollInterval:        5,
			MaxTxRetries:        3,
			SubmitRatePerMin:    10,
			SubmitBurst:         3,
			MaxAvailabilityDays: 62,
			Currency:            "BDT",
		},
		Uploads: UploadsConfig{Dir: "uploads/payments", PublicURL: "/uploads/payments", MaxBytes: 1 << 20},
		SMTP:    SMTPConfig{Port: 587, Timeout: 10},
		Redis:   RedisConfig{Addr: "localhost:6379", Channel: "booking-events"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}
}
