package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"groupstay_crm/internal/domain"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CRM             domain.CRMConfig
	StatusTTL       time.Duration
	BackfillWorkers int
}

// Load reads the process environment, after an optional .env file in the
// working directory. Values already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/groupstay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CRM:             LoadCRM(),
		StatusTTL:       time.Duration(atoi("CRM_STATUS_TTL_SECONDS", 60)) * time.Second,
		BackfillWorkers: atoi("BACKFILL_WORKERS", 4),
	}
	if c.CRM.Enabled && c.CRM.APIKey == "" {
		log.Warn().Msg("CRM_ENABLED is set but CRM_API_KEY is empty")
	}
	return c
}

// LoadCRM builds the CRM part of the configuration alone; the CRM factory
// uses it as its lazy loader.
func LoadCRM() domain.CRMConfig {
	return domain.CRMConfig{
		Provider:      domain.Provider(env("CRM_PROVIDER", string(domain.ProviderTreadSoft))),
		APIURL:        env("CRM_API_URL", ""),
		APIKey:        env("CRM_API_KEY", ""),
		APISecret:     env("CRM_API_SECRET", ""),
		WebhookSecret: env("CRM_WEBHOOK_SECRET", ""),
		Enabled:       boolEnv("CRM_ENABLED", false),
		RPS:           atoi("CRM_RPS", 5),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
	}
	return def
}

func boolEnv(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-boolean env value")
		return def
	}
	return b
}
