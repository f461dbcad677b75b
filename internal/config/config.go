package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	LogLevel              string
	LogDevelopment        bool
	StoreDriver           string
	DatabaseURL           string
	SQLitePath            string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	AdvisorTTLSeconds     int
	AuthSecret            string
	AccessTokenTTLMinutes int
	ShopPIN               string
	GeminiAPIKey          string
	GeminiModel           string
	GeminiBaseURL         string
	AMQPURL               string
	OrderQueue            string
	BusinessName          string
	Timezone              string
	ExpiryWindowDays      int
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	advisorTTL := getEnvInt("ADVISOR_TTL_SECONDS", 300)
	tokenTTL := getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 480)
	expiryWindow := getEnvInt("EXPIRY_WINDOW_DAYS", 90)
	devLog, _ := strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false"))

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:5173"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogDevelopment:        devLog,
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            os.Getenv("SQLITE_PATH"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		AdvisorTTLSeconds:     advisorTTL,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		ShopPIN:               strings.TrimSpace(os.Getenv("SHOP_PIN")),
		GeminiAPIKey:          strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AMQPURL:               os.Getenv("AMQP_URL"),
		OrderQueue:            getEnv("ORDER_QUEUE", "pharmacy.orders"),
		BusinessName:          getEnv("BUSINESS_NAME", "PharmaPulse"),
		Timezone:              getEnv("TZ_NAME", "Local"),
		ExpiryWindowDays:      expiryWindow,
	}
	cfg.StoreDriver = resolveDriver(strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER"))), cfg)

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func resolveDriver(requested string, cfg Config) string {
	switch requested {
	case DriverMemory, DriverSQLite, DriverPostgres:
		return requested
	}
	if cfg.DatabaseURL != "" {
		return DriverPostgres
	}
	if cfg.SQLitePath != "" {
		return DriverSQLite
	}
	return DriverMemory
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
