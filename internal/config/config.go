package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL    string        `yaml:"base_url"`
		LocalDir   string        `yaml:"local_dir"`
		UserAgent  string        `yaml:"user_agent"`
		Timeout    time.Duration `yaml:"timeout"`
		RatePerSec float64       `yaml:"rate_per_sec"`
	} `yaml:"data_source"`
	Scan struct {
		TargetSessions int    `yaml:"target_sessions"`
		LookbackExtra  int    `yaml:"lookback_extra"`
		MinDays        int    `yaml:"min_days"`
		TopN           int    `yaml:"top_n"`
		Timezone       string `yaml:"timezone"`
	} `yaml:"scan"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultBaseURL is the NSE archive root for daily equity reports.
const DefaultBaseURL = "https://archives.nseindia.com/content/historical/EQUITIES"

// DefaultUserAgent mimics a desktop browser; the archive rejects generic clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultRatePerSec throttles archive downloads; 0 disables throttling.
const DefaultRatePerSec = 2

// DefaultLookbackExtra is the number of weekday attempts allowed beyond the
// target session count.
const DefaultLookbackExtra = 12

// Load reads config from a YAML file, then applies environment variable overrides.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	// Keys where 0 is meaningful get their defaults before decoding, so an
	// explicit 0 in the file survives.
	cfg.DataSource.RatePerSec = DefaultRatePerSec
	cfg.Scan.LookbackExtra = DefaultLookbackExtra

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BHAVCOPY_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("BHAVCOPY_LOCAL_DIR"); v != "" {
		c.DataSource.LocalDir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		c.DataSource.Timeout = d
	}
	if v := os.Getenv("SCAN_TARGET_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_TARGET_SESSIONS: %w", err)
		}
		c.Scan.TargetSessions = n
	}
	if v := os.Getenv("SCAN_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_TOP_N: %w", err)
		}
		c.Scan.TopN = n
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		c.Schedule.ScanCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = DefaultBaseURL
	}
	if c.DataSource.UserAgent == "" {
		c.DataSource.UserAgent = DefaultUserAgent
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 20 * time.Second
	}
	if c.Scan.TargetSessions == 0 {
		c.Scan.TargetSessions = 5
	}
	if c.Scan.MinDays == 0 {
		c.Scan.MinDays = 3
	}
	if c.Scan.TopN == 0 {
		c.Scan.TopN = 10
	}
	if c.Scan.Timezone == "" {
		c.Scan.Timezone = "Asia/Kolkata"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 19 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Scan.TargetSessions <= 0 {
		return fmt.Errorf("scan.target_sessions must be positive")
	}
	if c.Scan.LookbackExtra < 0 {
		return fmt.Errorf("scan.lookback_extra must not be negative")
	}
	if c.Scan.MinDays <= 0 {
		return fmt.Errorf("scan.min_days must be positive")
	}
	if c.Scan.TopN <= 0 {
		return fmt.Errorf("scan.top_n must be positive")
	}
	if c.DataSource.RatePerSec < 0 {
		return fmt.Errorf("data_source.rate_per_sec must not be negative")
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether digest delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location resolves the market timezone, falling back to IST when the
// tz database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scan.Timezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}
