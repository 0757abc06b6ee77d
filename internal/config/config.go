package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port string

	LedgerDriver  string
	LedgerFile    string
	UploadDir     string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TwitterBaseURL           string

	PublishMock    bool
	MockTweetsFile string

	NatsURL     string
	HTTPTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := Config{
		Port: getEnv("PORT", "8080"),

		LedgerDriver:  strings.ToLower(getEnv("LEDGER_DRIVER", DriverCSV)),
		LedgerFile:    getEnv("LEDGER_FILE", "posts.csv"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		DatabaseDSN:   getEnv("DATABASE_DSN", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "postdesk"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		TwitterAPIKey:            getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:         getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
		TwitterBaseURL:           getEnv("TWITTER_BASE_URL", "https://api.twitter.com"),

		PublishMock:    getEnvBool("PUBLISH_MOCK", false),
		MockTweetsFile: getEnv("MOCK_TWEETS_FILE", "mock_tweets.txt"),

		NatsURL:     getEnv("NATS_URL", ""),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	twitterRequired := v.When(!c.PublishMock, v.Required)

	return v.ValidateStruct(&c,
		v.Field(&c.Port, v.Required),
		v.Field(&c.LedgerDriver, v.Required, v.In(DriverCSV, DriverPostgres, DriverMongo)),
		v.Field(&c.LedgerFile, v.When(c.LedgerDriver == DriverCSV, v.Required)),
		v.Field(&c.UploadDir, v.Required),
		v.Field(&c.DatabaseDSN, v.When(c.LedgerDriver == DriverPostgres, v.Required)),
		v.Field(&c.MongoURI, v.When(c.LedgerDriver == DriverMongo, v.Required)),
		v.Field(&c.MongoDatabase, v.When(c.LedgerDriver == DriverMongo, v.Required)),
		v.Field(&c.GeminiAPIKey, v.Required),
		v.Field(&c.TwitterAPIKey, twitterRequired),
		v.Field(&c.TwitterAPISecret, twitterRequired),
		v.Field(&c.TwitterAccessToken, twitterRequired),
		v.Field(&c.TwitterAccessTokenSecret, twitterRequired),
		v.Field(&c.MockTweetsFile, v.When(c.PublishMock, v.Required)),
		v.Field(&c.HTTPTimeout, v.Required, v.Min(time.Second)),
	)
}

// String omits secrets so the config can be logged.
func (c Config) String() string {
	return "port=" + c.Port +
		" ledger=" + c.LedgerDriver +
		" uploads=" + c.UploadDir +
		" model=" + c.GeminiModel +
		" publish_mock=" + strconv.FormatBool(c.PublishMock) +
		" nats=" + strconv.FormatBool(c.NatsURL != "")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
