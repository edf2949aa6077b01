package config

import (
	// Go Internal Packages
	"os"
	"strings"

	// Local Packages
	errors "aether/errors"
)

var DefaultConfig = []byte(`
application: "aether"

logger:
  level: "debug"

is_prod_mode: false

mongo:
  uri: "mongodb://localhost:27017"
  database: "aether"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  topic: "transactions"
  records_per_poll: 500
  consumer_name: "aether-ingest"

stream:
  name: "transactions_stream"
  group: "transaction_workers"
  consumer: "worker-1"
  batch_size: 50
  poll_block_ms: 500
  poll_interval_ms: 500
  error_backoff_ms: 1000

analytics:
  lookback_hours: 24
  forecast_steps: 10
  zscore_threshold: 3.0
`)

type Config struct {
	Application string    `koanf:"application"`
	Logger      Logger    `koanf:"logger"`
	IsProdMode  bool      `koanf:"is_prod_mode"`
	Mongo       Mongo     `koanf:"mongo"`
	Redis       Redis     `koanf:"redis"`
	Kafka       Kafka     `koanf:"kafka"`
	Stream      Stream    `koanf:"stream"`
	Analytics   Analytics `koanf:"analytics"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers        []string `koanf:"brokers"`
	Topic          string   `koanf:"topic"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
	ConsumerName   string   `koanf:"consumer_name"`
}

type Stream struct {
	Name           string `koanf:"name"`
	Group          string `koanf:"group"`
	Consumer       string `koanf:"consumer"`
	BatchSize      int64  `koanf:"batch_size"`
	PollBlockMS    int    `koanf:"poll_block_ms"`
	PollIntervalMS int    `koanf:"poll_interval_ms"`
	ErrorBackoffMS int    `koanf:"error_backoff_ms"`
}

type Analytics struct {
	LookbackHours   int     `koanf:"lookback_hours"`
	ForecastSteps   int     `koanf:"forecast_steps"`
	ZScoreThreshold float64 `koanf:"zscore_threshold"`
}

// LoadSecrets overrides config values from the environment. Secrets never
// live in the config file.
func LoadSecrets(c Config) Config {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	if uri := os.Getenv("REDIS_URI"); uri != "" {
		c.Redis.URI = uri
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.IsProdMode = c.IsProdMode || os.Getenv("IS_PROD_MODE") == "true"
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.Stream.Name == "" {
		ve.Add("stream.name", "cannot be empty")
	}
	if c.Stream.Group == "" {
		ve.Add("stream.group", "cannot be empty")
	}
	if c.Stream.BatchSize <= 0 {
		ve.Add("stream.batch_size", "must be positive")
	}
	if len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}

	return ve.Err()
}
