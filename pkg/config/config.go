package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/user/hallucination-cache/pkg/utils"
)

const (
	defaultRequestTimeoutMS = 120000
	minRequestTimeoutMS     = 5000
	defaultRenderMinText    = 20

	// MinIntervalMS is the shortest pause allowed between loop iterations.
	MinIntervalMS = 500
)

// Config holds the application configuration.
type Config struct {
	OpenRouterAPIKey  string `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `mapstructure:"OPENROUTER_BASE_URL"`
	Model             string `mapstructure:"OPENROUTER_MODEL"`
	ModelFallbacks    string `mapstructure:"OPENROUTER_MODEL_FALLBACKS"`
	RequestTimeoutMS  int    `mapstructure:"OPENROUTER_TIMEOUT_MS"`
	SiteURL           string `mapstructure:"OPENROUTER_SITE_URL"`
	AppName           string `mapstructure:"OPENROUTER_APP_NAME"`
	Strict            bool   `mapstructure:"OPENROUTER_STRICT"`

	Chaos       float64 `mapstructure:"CHAOS_LEVEL"`
	Count       int     `mapstructure:"COUNT"`
	Loop        bool    `mapstructure:"LOOP"`
	TargetSize  int     `mapstructure:"TARGET_SIZE"`
	BatchSize   int     `mapstructure:"BATCH_SIZE"`
	Concurrency int     `mapstructure:"CONCURRENCY"`
	IntervalMS  int     `mapstructure:"INTERVAL_MS"`

	RetryBackoffMS      int    `mapstructure:"RETRY_BACKOFF_MS"`
	RenderTimeoutMS     int    `mapstructure:"RENDER_TIMEOUT_MS"`
	RenderMinText       int    `mapstructure:"RENDER_MIN_TEXT"`
	RenderFatalPatterns string `mapstructure:"RENDER_FATAL_PATTERNS"`
	ChromePath          string `mapstructure:"CHROME_PATH"`

	CacheDir      string `mapstructure:"CACHE_DIR"`
	StoreBackend  string `mapstructure:"STORE_BACKEND"` // "file" or "postgres"
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	IdeaStore     string `mapstructure:"IDEA_STORE"` // "memory", "file" or "redis"
	IdeasPath     string `mapstructure:"IDEAS_PATH"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"OPENROUTER_API_KEY":         "",
	"OPENROUTER_BASE_URL":        "https://openrouter.ai/api/v1",
	"OPENROUTER_MODEL":           "openrouter/auto",
	"OPENROUTER_MODEL_FALLBACKS": "",
	"OPENROUTER_TIMEOUT_MS":      defaultRequestTimeoutMS,
	"OPENROUTER_SITE_URL":        "http://localhost",
	"OPENROUTER_APP_NAME":        "Hallucinated Web Cache",
	"OPENROUTER_STRICT":          false,
	"CHAOS_LEVEL":                0.88,
	"COUNT":                      20,
	"LOOP":                       false,
	"TARGET_SIZE":                120,
	"BATCH_SIZE":                 6,
	"CONCURRENCY":                2,
	"INTERVAL_MS":                4000,
	"RETRY_BACKOFF_MS":           250,
	"RENDER_TIMEOUT_MS":          5000,
	"RENDER_MIN_TEXT":            defaultRenderMinText,
	"RENDER_FATAL_PATTERNS":      "SyntaxError,is not defined,Cannot read",
	"CHROME_PATH":                "",
	"CACHE_DIR":                  "cache/pages",
	"STORE_BACKEND":              "file",
	"POSTGRES_URL":               "",
	"IDEA_STORE":                 "file",
	"IDEAS_PATH":                 "cache/used-ideas.json",
	"REDIS_ADDR":                 "localhost:6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"SERVER_PORT":                "8080",
	"LOG_LEVEL":                  "info",
}

// Load reads configuration from an optional env file and environment variables.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		// A missing file is fine: production is configured purely through the environment.
		_ = v.ReadInConfig()
	}
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Chaos = utils.Clamp01(c.Chaos)
	if c.RequestTimeoutMS < minRequestTimeoutMS {
		c.RequestTimeoutMS = defaultRequestTimeoutMS
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
	if c.Count < 0 {
		c.Count = 0
	}
	if c.RenderMinText <= 0 {
		c.RenderMinText = defaultRenderMinText
	}
	if c.IntervalMS < MinIntervalMS {
		c.IntervalMS = MinIntervalMS
	}
}

// Models returns the primary model followed by the configured fallbacks,
// without duplicates.
func (c *Config) Models() []string {
	return utils.SplitCSV(c.Model + "," + c.ModelFallbacks)
}

func (c *Config) FatalPatterns() []string { return utils.SplitCSV(c.RenderFatalPatterns) }

func (c *Config) RequestTimeout() time.Duration { return ms(c.RequestTimeoutMS) }
func (c *Config) RetryBackoff() time.Duration   { return ms(c.RetryBackoffMS) }
func (c *Config) RenderTimeout() time.Duration  { return ms(c.RenderTimeoutMS) }
func (c *Config) Interval() time.Duration       { return ms(c.IntervalMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
