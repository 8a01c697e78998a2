package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"hotelbot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	HotelAPI   HotelAPIConfig   `yaml:"hotel_api"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Bot        BotConfig        `yaml:"bot"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
	// AllowedIDs ограничивает бот личным списком аккаунтов;
	// пустой список — бот открыт для всех.
	AllowedIDs []int64 `yaml:"allowed_ids"`
}

type HotelAPIConfig struct {
	BaseURL         string          `yaml:"base_url"`
	TimeoutSeconds  int             `yaml:"timeout_seconds"`
	CacheTTLSeconds int             `yaml:"cache_ttl_seconds"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type BotConfig struct {
	PaginationSize         int `yaml:"pagination_size"`
	BookingsPaginationSize int `yaml:"bookings_pagination_size"`
	MaxAdvanceDays         int `yaml:"max_advance_days"`
	RateLimitMessages      int `yaml:"rate_limit_messages"`
	RateLimitWindow        int `yaml:"rate_limit_window"`
	WarmIntervalMinutes    int `yaml:"warm_interval_minutes"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env дополняет окружение, если присутствует
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.HotelAPI.BaseURL == "" {
		return errors.New("hotel_api.base_url is required")
	}
	if _, err := url.ParseRequestURI(c.HotelAPI.BaseURL); err != nil {
		return fmt.Errorf("hotel_api.base_url is not a valid URL: %w", err)
	}

	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "hotelbot"
	}

	c.HotelAPI.BaseURL = strings.TrimRight(c.HotelAPI.BaseURL, "/")
	if c.HotelAPI.TimeoutSeconds <= 0 {
		c.HotelAPI.TimeoutSeconds = 15
	}
	if c.HotelAPI.CacheTTLSeconds < 0 {
		c.HotelAPI.CacheTTLSeconds = 0
	}

	if c.Monitoring.Enabled && c.Monitoring.Port == 0 {
		c.Monitoring.Port = 9090
	}

	// Bot defaults
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = models.DefaultPaginationSize
	}
	if c.Bot.BookingsPaginationSize == 0 {
		c.Bot.BookingsPaginationSize = models.DefaultBookingsPaginationSize
	}
	if c.Bot.MaxAdvanceDays == 0 {
		c.Bot.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.WarmIntervalMinutes == 0 {
		c.Bot.WarmIntervalMinutes = 30
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// IsAllowed reports whether the account may use the bot.
func (c *TelegramConfig) IsAllowed(userID int64) bool {
	if len(c.AllowedIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedIDs {
		if id == userID {
			return true
		}
	}
	return false
}
