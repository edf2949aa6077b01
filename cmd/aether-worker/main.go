package main

import (
	// Go Internal Packages
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Local Packages
	config "aether/config"
	mongodb "aether/repositories/mongodb"
	redis "aether/repositories/redis"
	worker "aether/services/worker"
	stream "aether/stream"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"go.uber.org/zap"
)

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() (*koanf.Koanf, string) {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()
	consumerMsg := "Consumer identity within the worker group"
	consumer := kingpin.Flag("consumer", consumerMsg).Default("").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k, *consumer
}

func main() {
	k, consumerFlag := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// The --consumer flag lets several workers share the group, each under
	// its own identity.
	if consumerFlag != "" {
		appKonf.Stream.Consumer = consumerFlag
	}

	appKonf = config.LoadSecrets(appKonf)
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = appKonf.Application + "-worker"
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	txRepo := mongodb.NewTxRepository(mongoClient, appKonf.Mongo.Database)
	txLog := stream.NewLog(redisClient, logger, appKonf.Stream.Name)

	w := worker.New(txLog, txRepo, worker.Config{
		Group:        appKonf.Stream.Group,
		Consumer:     appKonf.Stream.Consumer,
		BatchSize:    appKonf.Stream.BatchSize,
		PollBlock:    time.Duration(appKonf.Stream.PollBlockMS) * time.Millisecond,
		PollInterval: time.Duration(appKonf.Stream.PollIntervalMS) * time.Millisecond,
		ErrorBackoff: time.Duration(appKonf.Stream.ErrorBackoffMS) * time.Millisecond,
	}, logger)

	if err = w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
