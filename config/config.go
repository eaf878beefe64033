package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"bithired/models"
)

type Config struct {
	DatabaseURL         string
	JWTSecret           string
	AdminCode           string
	Port                string
	Environment         string
	DailyDepositCeiling int64    // minor units, per target account per day
	DepositAccounts     []string // M-PESA target accounts, rotated per submission
	Telegram            TelegramConfig
	Insight             InsightConfig
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

type InsightConfig struct {
	ProjectionURL string
	RateURL       string
	APIKey        string
}

func Load() *Config {
	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "bithired.db"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminCode:           getEnv("ADMIN_CODE", "BITHIRED_ADMIN_2025"),
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DailyDepositCeiling: getEnvAsInt64("DAILY_DEPOSIT_CEILING", 500000_00),
		DepositAccounts:     getEnvAsList("DEPOSIT_ACCOUNTS", "0700000000,0711111111"),
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: getEnvAsInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
		},
		Insight: InsightConfig{
			ProjectionURL: getEnv("PROJECTION_API_URL", ""),
			RateURL:       getEnv("RATE_API_URL", "https://api.coingecko.com/api/v3/coins/bitcoin"),
			APIKey:        getEnv("PROJECTION_API_KEY", ""),
		},
	}
}

// Machines is the static catalog of hireable virtual miners. Costs and
// earnings are KES minor units.
func Machines() []models.Machine {
	return []models.Machine{
		{Name: "Antminer S9", HashRate: "13.5 TH/s", Cost: 1000_00, DailyEarning: 50_00, DurationDays: 30},
		{Name: "Antminer S19", HashRate: "95 TH/s", Cost: 5000_00, DailyEarning: 280_00, DurationDays: 30},
		{Name: "Antminer S19 Pro", HashRate: "110 TH/s", Cost: 10000_00, DailyEarning: 600_00, DurationDays: 45},
		{Name: "Whatsminer M30S++", HashRate: "112 TH/s", Cost: 20000_00, DailyEarning: 1300_00, DurationDays: 60},
		{Name: "Antminer S21 Hydro", HashRate: "335 TH/s", Cost: 50000_00, DailyEarning: 3500_00, DurationDays: 90},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func ValidateConfig(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		log.Printf("WARNING: JWT_SECRET should be at least 32 characters for security")
	}
	if cfg.Environment == "production" && cfg.AdminCode == "BITHIRED_ADMIN_2025" {
		log.Printf("WARNING: Change ADMIN_CODE in production environment")
	}
	if len(cfg.DepositAccounts) == 0 {
		log.Fatalf("DEPOSIT_ACCOUNTS must list at least one target account")
	}
	if cfg.DailyDepositCeiling <= 0 {
		log.Fatalf("DAILY_DEPOSIT_CEILING must be positive, got %d", cfg.DailyDepositCeiling)
	}
}
