package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	OpenAIKey   string
	MetricsPort string

	AmazonAssociateTag string
	AmazonBaseURL      string

	FlipkartAffiliateID    string
	FlipkartAffiliateToken string
	FlipkartBaseURL        string

	ProviderTimeout time.Duration
	CacheTTL        time.Duration
	PostsPerDay     int
}

func Load() *Config {
	// Tries the project root first, then the current directory.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		AmazonAssociateTag: os.Getenv("AMAZON_ASSOCIATE_TAG"),
		AmazonBaseURL:      getEnv("AMAZON_BASE_URL", "https://www.amazon.com"),

		FlipkartAffiliateID:    os.Getenv("FLIPKART_AFFILIATE_ID"),
		FlipkartAffiliateToken: os.Getenv("FLIPKART_AFFILIATE_TOKEN"),
		FlipkartBaseURL:        getEnv("FLIPKART_BASE_URL", "https://affiliate-api.flipkart.net/affiliate"),

		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 30)) * time.Second,
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_MINUTES", 15)) * time.Minute,
		PostsPerDay:     getEnvInt("POSTS_PER_DAY", 3),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
