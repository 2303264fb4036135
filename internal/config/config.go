// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Slack      `yaml:"slack"`
	Ledger     `yaml:"ledger"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Port        string        `yaml:"port" env:"PORT" env-default:"3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Slack структура с секретами приложения в Slack
type Slack struct {
	SigningSecret string `yaml:"signing_secret" env:"SLACK_SIGNING_SECRET" env-required:"true"`
	BotToken      string `yaml:"bot_token" env:"SLACK_BOT_TOKEN" env-required:"true"`
}

// Ledger структура для настройки доступа к таблице учёта покупок
type Ledger struct {
	SpreadsheetID       string `yaml:"spreadsheet_id" env:"GOOGLE_SHEET_ID" env-required:"true"`
	SheetRange          string `yaml:"sheet_range" env:"GOOGLE_SHEET_RANGE" env-default:"Sheet1!A1:E1"`
	ServiceAccountEmail string `yaml:"service_account_email" env:"GOOGLE_SERVICE_ACCOUNT_EMAIL" env-required:"true"`
	PrivateKey          string `yaml:"private_key" env:"GOOGLE_PRIVATE_KEY" env-required:"true"`
	TimeZone            string `yaml:"timezone" env:"LEDGER_TIMEZONE" env-default:"Asia/Seoul"`
	DateLayout          string `yaml:"date_layout" env:"LEDGER_DATE_LAYOUT" env-default:"2006. 1. 2."`
}

// Address возвращает адрес, который слушает HTTP-сервер.
func (s HTTPServer) Address() string {
	return ":" + s.Port
}

// PrivateKeyPEM возвращает приватный ключ сервисного аккаунта,
// в котором экранированные переводы строк "\n" заменены настоящими.
func (l Ledger) PrivateKeyPEM() []byte {
	return []byte(strings.ReplaceAll(l.PrivateKey, `\n`, "\n"))
}

// Location возвращает часовой пояс для даты в строке таблицы.
// При неизвестном поясе используется UTC.
func (l Ledger) Location() *time.Location {
	loc, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load читает конфиг из файла CONFIG_PATH (если задан) и переменных окружения.
func Load() (*Config, error) {
	var cfg Config

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read env: %w", err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Port: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Slack:\n"+
			"  SigningSecret: %s\n"+
			"  BotToken: %s\n"+
			"Ledger:\n"+
			"  SpreadsheetID: %s\n"+
			"  SheetRange: %s\n"+
			"  ServiceAccountEmail: %s\n"+
			"  PrivateKey: %s\n"+
			"  TimeZone: %s\n"+
			"  DateLayout: %s\n",
		c.Env,
		c.Port,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.SigningSecret),
		mask(c.BotToken),
		c.SpreadsheetID,
		c.SheetRange,
		c.ServiceAccountEmail,
		mask(c.PrivateKey),
		c.TimeZone,
		c.DateLayout,
	)
}
