package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// taxRateScale точность invoices.tax_rate в БД (NUMERIC(6, 4))
const taxRateScale = 4

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrParseConfig   = errors.New("config: failed to parse config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Calendar    CalendarConfig    `toml:"calendar"`
	Billing     BillingConfig     `toml:"billing"`
	Redis       RedisConfig       `toml:"redis"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

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

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DayHoursConfig часы работы для дня недели: weekday = "monday".."sunday"
type DayHoursConfig struct {
	Weekday string `toml:"weekday"`
	Open    string `toml:"open"`
	Close   string `toml:"close"`
}

// CalendarConfig значения календаря по умолчанию
// Используются, пока правила не сохранены в БД
type CalendarConfig struct {
	Timezone                string           `toml:"timezone"`
	SlotGranularityMinutes  int              `toml:"slot_granularity_minutes"`
	LeadDays                int              `toml:"lead_days"`
	CancellationWindowHours int              `toml:"cancellation_window_hours"`
	Hours                   []DayHoursConfig `toml:"hours"`
}

// Location часовой пояс студии
func (c CalendarConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Rules правила календаря по умолчанию
func (c CalendarConfig) Rules() (domain.CalendarRules, error) {
	rules := domain.CalendarRules{
		Hours:                  domain.BusinessHours{},
		SlotGranularityMinutes: c.SlotGranularityMinutes,
		LeadDays:               c.LeadDays,
		CancellationWindow:     time.Duration(c.CancellationWindowHours) * time.Hour,
	}

	for _, h := range c.Hours {
		wd, ok := ParseWeekday(h.Weekday)
		if !ok {
			return domain.CalendarRules{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, h.Weekday)
		}
		open, err := types.NewTimeStringFromString(h.Open)
		if err != nil {
			return domain.CalendarRules{}, fmt.Errorf("%w: %s open: %v", ErrInvalidConfig, h.Weekday, err)
		}
		closeAt, err := types.NewTimeStringFromString(h.Close)
		if err != nil {
			return domain.CalendarRules{}, fmt.Errorf("%w: %s close: %v", ErrInvalidConfig, h.Weekday, err)
		}
		rules.Hours[wd] = domain.DayHours{Open: open, Close: closeAt}
	}

	if err := rules.Validate(); err != nil {
		return domain.CalendarRules{}, fmt.Errorf("%w: calendar: %v", ErrInvalidConfig, err)
	}
	return rules, nil
}

type BillingConfig struct {
	TaxRate string `toml:"tax_rate"` // десятичная строка, например "0.20"
	DueDays int    `toml:"due_days"`
}

// TaxRateDecimal ставка налога
func (b BillingConfig) TaxRateDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(b.TaxRate)
}

type RedisConfig struct {
	Enabled           bool   `toml:"enabled"`
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	CatalogTTLSeconds int    `toml:"catalog_ttl_seconds"`
}

type MaintenanceConfig struct {
	Enabled          bool   `toml:"enabled"`
	OverdueSweepCron string `toml:"overdue_sweep_cron"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает TOML конфиг. Перед разбором подгружает .env из директории конфига
// (если он есть) и подставляет ${VAR} из окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	cfg := Default()
	if _, err := toml.Decode(os.ExpandEnv(string(data)), cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "skinstudio-booking",
		},
		Calendar: CalendarConfig{
			Timezone:                "UTC",
			SlotGranularityMinutes:  30,
			LeadDays:                1,
			CancellationWindowHours: 24,
		},
		Billing: BillingConfig{
			TaxRate: "0",
			DueDays: 14,
		},
		Redis: RedisConfig{
			Addr:              "localhost:6379",
			CatalogTTLSeconds: 300,
		},
		Maintenance: MaintenanceConfig{
			OverdueSweepCron: "0 3 * * *",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if _, err := c.Calendar.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("calendar.timezone: %v", err))
	}
	if c.Calendar.SlotGranularityMinutes <= 0 {
		problems = append(problems, "calendar.slot_granularity_minutes must be positive")
	}
	if c.Calendar.LeadDays < 0 {
		problems = append(problems, "calendar.lead_days must not be negative")
	}
	if c.Calendar.CancellationWindowHours < 0 {
		problems = append(problems, "calendar.cancellation_window_hours must not be negative")
	}
	if _, err := c.Calendar.Rules(); err != nil {
		problems = append(problems, err.Error())
	}

	rate, err := c.Billing.TaxRateDecimal()
	if err != nil {
		problems = append(problems, fmt.Sprintf("billing.tax_rate: %v", err))
	} else if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		problems = append(problems, "billing.tax_rate must be in [0, 1]")
	} else if !rate.Equal(rate.Truncate(taxRateScale)) {
		problems = append(problems, fmt.Sprintf("billing.tax_rate must have at most %d decimal places", taxRateScale))
	}
	if c.Billing.DueDays < 0 {
		problems = append(problems, "billing.due_days must not be negative")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit requires positive requests_per_second and burst")
	}
	if c.Maintenance.Enabled && strings.TrimSpace(c.Maintenance.OverdueSweepCron) == "" {
		problems = append(problems, "maintenance.overdue_sweep_cron is required when maintenance is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday разбирает название дня недели на английском
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}
