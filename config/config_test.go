package config

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) Config {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()))

	var c Config
	require.NoError(t, k.Unmarshal("", &c))
	return c
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := loadDefaults(t)
	require.NoError(t, c.Validate())

	require.Equal(t, "transactions_stream", c.Stream.Name)
	require.Equal(t, "transaction_workers", c.Stream.Group)
	require.Equal(t, int64(50), c.Stream.BatchSize)
	require.Equal(t, 500, c.Stream.PollBlockMS)
	require.Equal(t, 500, c.Stream.PollIntervalMS)
	require.Equal(t, 1000, c.Stream.ErrorBackoffMS)
	require.Equal(t, 24, c.Analytics.LookbackHours)
	require.Equal(t, 10, c.Analytics.ForecastSteps)
	require.InDelta(t, 3.0, c.Analytics.ZScoreThreshold, 1e-9)
}

func TestValidateCollectsAllFailures(t *testing.T) {
	c := loadDefaults(t)
	c.Mongo.URI = ""
	c.Stream.Group = ""
	c.Stream.BatchSize = 0

	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo.uri")
	require.Contains(t, err.Error(), "stream.group")
	require.Contains(t, err.Error(), "stream.batch_size")
}

func TestLoadSecretsOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://prod:27017")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")

	c := LoadSecrets(loadDefaults(t))
	require.Equal(t, "mongodb://prod:27017", c.Mongo.URI)
	require.Equal(t, []string{"b1:9092", "b2:9092"}, c.Kafka.Brokers)
}
