package configs

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
)

type ENV struct {
	DBDriver           string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	Port               string
	APP_ENV            string
	AdminJWTSecret     string
	AppAuthKey         string
	AppEncKey          string
	TelegramBotToken   string
	TelegramChatID     string
	ImagesDir          string
	PricingRulesFile   string
	CORSAllowedOrigins []string
	MetricsPrefix      string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		logger.GetLogger().Warn("no .env file found, using process environment")
	}

	return ENV{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "127.0.0.1"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		Port:               getEnv("APP_PORT", "8080"),
		APP_ENV:            getEnv("APP_ENV", "production"),
		AdminJWTSecret:     os.Getenv("ADMIN_JWT_SECRET"),
		AppAuthKey:         os.Getenv("APP_AUTH_KEY"),
		AppEncKey:          os.Getenv("APP_ENC_KEY"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
		ImagesDir:          getEnv("IMAGES_DIR", "images"),
		PricingRulesFile:   getEnv("PRICING_RULES_FILE", "pricing.yaml"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MetricsPrefix:      getEnv("METRICS_PREFIX", "balloon_store"),
	}

}

func (e ENV) IsDevelopment() bool {
	return e.APP_ENV == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

var LoadENV = LoadEnv()
