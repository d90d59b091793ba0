package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	PushGatewayAddress string
	AuthSecret         string
	OperatorKey        string
	OfferTTL           time.Duration
	OfferPollInterval  time.Duration
	DispatchRadiusKm   float64
	WorkerPoolSize     int
	PollBatchSize      int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultAuthSecret        = "change-me-in-production"
	defaultOfferTTL          = 90 * time.Second
	defaultOfferPollInterval = 5 * time.Second
	defaultDispatchRadiusKm  = 5.0
	defaultWorkerPoolSize    = 4
	defaultPollBatchSize     = 32
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		PushGatewayAddress: getString(lookup, "PUSH_GATEWAY_ADDRESS", ""),
		AuthSecret:         getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		OperatorKey:        getString(lookup, "OPERATOR_KEY", ""),
		OfferTTL:           getDuration(lookup, "OFFER_TTL", defaultOfferTTL),
		OfferPollInterval:  getDuration(lookup, "OFFER_POLL_INTERVAL", defaultOfferPollInterval),
		DispatchRadiusKm:   getFloat(lookup, "DISPATCH_RADIUS_KM", defaultDispatchRadiusKm),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		PollBatchSize:      getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatchSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("ordesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		offerTTLStr        = cfg.OfferTTL.String()
		pollIntervalStr    = cfg.OfferPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PushGatewayAddress, "p", cfg.PushGatewayAddress, "Push gateway base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.OperatorKey, "operator-key", cfg.OperatorKey, "Key guarding operator console endpoints")
	fs.StringVar(&offerTTLStr, "offer-ttl", offerTTLStr, "Time to live of dispatch offers")
	fs.StringVar(&pollIntervalStr, "offer-poll-interval", pollIntervalStr, "Interval between dispatch fan-out polls")
	fs.Float64Var(&cfg.DispatchRadiusKm, "dispatch-radius", cfg.DispatchRadiusKm, "Default dispatch radius in kilometers")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent dispatch workers")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum orders per fan-out batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OfferTTL, err = time.ParseDuration(offerTTLStr); err != nil {
		return nil, fmt.Errorf("invalid offer ttl: %w", err)
	}

	if cfg.OfferPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid offer poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.OfferTTL <= 0 {
		cfg.OfferTTL = defaultOfferTTL
	}

	if cfg.OfferPollInterval <= 0 {
		cfg.OfferPollInterval = defaultOfferPollInterval
	}

	if cfg.DispatchRadiusKm <= 0 {
		cfg.DispatchRadiusKm = defaultDispatchRadiusKm
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatchSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
