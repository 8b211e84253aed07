package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/flashbots/go-utils/cli"
	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/flashbots/mev-protect-demo/session"
	"github.com/flashbots/mev-protect-demo/web"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev" // is set during build process

	// Default values
	defaultDebug            = os.Getenv("DEBUG") == "1"
	defaultLogProd          = os.Getenv("LOG_PROD") == "1"
	defaultLogService       = os.Getenv("LOG_SERVICE")
	defaultPort             = cli.GetEnv("PORT", "8080")
	defaultMetricsPort      = cli.GetEnv("METRICS_PORT", "8088")
	defaultChannelName      = cli.GetEnv("REDIS_CHANNEL_NAME", "feedback")
	defaultRedisEndpoint    = cli.GetEnv("REDIS_ENDPOINT", "")
	defaultPostgresDSN      = cli.GetEnv("POSTGRES_DSN", "")
	defaultPairConfig       = cli.GetEnv("PAIR_CONFIG", "")
	defaultQuoteTimeout     = cli.GetEnv("QUOTE_TIMEOUT", "5s")
	defaultSessionTTL       = cli.GetEnv("SESSION_TTL", "30m")
	defaultSessionKeyPrefix = cli.GetEnv("SESSION_KEY_PREFIX", "demo-session-")

	// Flags
	debugPtr            = flag.Bool("debug", defaultDebug, "print debug output")
	logProdPtr          = flag.Bool("log-prod", defaultLogProd, "log in production mode (json)")
	logServicePtr       = flag.String("log-service", defaultLogService, "'service' tag to logs")
	portPtr             = flag.String("port", defaultPort, "port to listen on")
	metricsPortPtr      = flag.String("metrics-port", defaultMetricsPort, "port for metrics and pprof")
	channelPtr          = flag.String("channel", defaultChannelName, "redis pub/sub channel for accepted feedback")
	redisPtr            = flag.String("redis", defaultRedisEndpoint, "redis url string, sessions are kept in memory when empty")
	postgresDSNPtr      = flag.String("postgres-dsn", defaultPostgresDSN, "postgres dsn, feedback is discarded when empty")
	pairConfigPtr       = flag.String("pair-config", defaultPairConfig, "quote pair config file (yaml)")
	quoteTimeoutPtr     = flag.String("quote-timeout", defaultQuoteTimeout, "upstream quote timeout")
	sessionTTLPtr       = flag.String("session-ttl", defaultSessionTTL, "session lifetime")
	sessionKeyPrefixPtr = flag.String("session-key-prefix", defaultSessionKeyPrefix, "redis key prefix for sessions")
)

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	if *logProdPtr {
		atom := zap.NewAtomicLevel()
		if *debugPtr {
			atom.SetLevel(zap.DebugLevel)
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		logger = zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			atom,
		))
	}
	defer func() { _ = logger.Sync() }()
	if *logServicePtr != "" {
		logger = logger.With(zap.String("service", *logServicePtr))
	}

	logger.Info("Starting mev-protect-demo", zap.String("version", version))

	quoteTimeout, err := time.ParseDuration(*quoteTimeoutPtr)
	if err != nil {
		logger.Fatal("Failed to parse quote timeout", zap.Error(err))
	}
	sessionTTL, err := time.ParseDuration(*sessionTTLPtr)
	if err != nil {
		logger.Fatal("Failed to parse session ttl", zap.Error(err))
	}

	pair := protect.DefaultPairConfig()
	if *pairConfigPtr != "" {
		pair, err = protect.LoadPairConfig(*pairConfigPtr)
		if err != nil {
			logger.Fatal("Failed to load pair config", zap.Error(err))
		}
	}
	quoteService := protect.NewQuoteService(logger, protect.NewJupiterQuoteBackend(pair), quoteTimeout)

	var feedbackStorage protect.FeedbackStorage
	if *postgresDSNPtr != "" {
		dbBackend, err := protect.NewDBBackend(*postgresDSNPtr)
		if err != nil {
			logger.Fatal("Failed to create postgres backend", zap.Error(err))
		}
		defer dbBackend.Close()
		feedbackStorage = dbBackend
	} else {
		logger.Warn("No postgres dsn configured, feedback will be discarded")
		feedbackStorage = protect.NewNopFeedbackStorage(logger)
	}

	var (
		feedbackNotifier protect.FeedbackNotifier
		sessions         session.Store
	)
	if *redisPtr != "" {
		redisOpts, err := redis.ParseURL(*redisPtr)
		if err != nil {
			logger.Fatal("Failed to parse redis url", zap.Error(err))
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		feedbackNotifier = protect.NewRedisFeedbackBackend(redisClient, *channelPtr)
		sessions = session.NewRedisStore(redisClient, sessionTTL, *sessionKeyPrefixPtr)
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
	}

	api := protect.NewAPI(logger, quoteService, feedbackStorage, feedbackNotifier)

	webServer, err := web.NewServer(logger, api, sessions)
	if err != nil {
		logger.Fatal("Failed to create web server", zap.Error(err))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", *portPtr),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	go func() {
		metricsMux.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
		metricsMux.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
		metricsMux.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
		metricsMux.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
		metricsMux.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))

		metricsServer := &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%s", *metricsPortPtr),
			ReadHeaderTimeout: 5 * time.Second,
			Handler:           metricsMux,
		}

		err := metricsServer.ListenAndServe()
		if err != nil {
			logger.Fatal("Failed to start metrics server", zap.Error(err))
		}
	}()

	connectionsClosed := make(chan struct{})
	go func() {
		notifier := make(chan os.Signal, 1)
		signal.Notify(notifier, os.Interrupt, syscall.SIGTERM)
		<-notifier
		logger.Info("Shutting down...")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown server", zap.Error(err))
		}
		close(connectionsClosed)
	}()

	logger.Info("Listening", zap.String("addr", server.Addr), zap.String("quote_endpoint", pair.QuoteEndpoint))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("ListenAndServe: ", zap.Error(err))
	}

	<-connectionsClosed
}
