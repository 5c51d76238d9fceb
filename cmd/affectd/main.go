package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/config"
	"github.com/solien-labs/affective-state/internal/engine"
	"github.com/solien-labs/affective-state/internal/generators"
	"github.com/solien-labs/affective-state/internal/httpapi"
	"github.com/solien-labs/affective-state/internal/store"
	"github.com/solien-labs/affective-state/internal/thresholds"
)

// #region main

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.NewStore(cfg.DBPath, cfg.HistoryDepth)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	if _, err := st.EnsureInitialState(time.Now().UTC()); err != nil {
		logger.Fatal("initial state", zap.Error(err))
	}

	var mirror *store.Mirror
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		mirror = store.NewMirror(rdb, cfg.MirrorTTL)
		logger.Info("live mirror enabled", zap.String("addr", cfg.RedisAddr))
	}

	eng := engine.New(st, mirror, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(logger, httpapi.NewHandlers(logger, eng)),
	}
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", zap.Error(err))
			stop()
		}
	}()

	go runCycleLoop(ctx, eng, cfg, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// #endregion main

// #region cycle-loop

// runCycleLoop ticks the engine. The host-load generator contributes
// self-performance stimuli each cycle when enabled; everything else arrives
// through the HTTP ingest queues.
func runCycleLoop(ctx context.Context, eng *engine.Engine, cfg *config.Config, logger *zap.Logger) {
	var hostLoad *generators.HostLoad
	if cfg.HostLoadEnabled {
		hostLoad = generators.NewHostLoad()
	}
	var lastSample time.Time

	ticker := time.NewTicker(cfg.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var input engine.CycleInput
		if hostLoad != nil && time.Since(lastSample) >= generators.Interval {
			lastSample = time.Now()
			ths, err := eng.Thresholds()
			if err != nil {
				logger.Warn("thresholds unavailable", zap.Error(err))
			} else if stimuli, cpuPct, err := hostLoad.Generate(ctx, ths[thresholds.CPULoadPct]); err != nil {
				logger.Warn("host load sample failed", zap.Error(err))
			} else {
				input.Stimuli = stimuli
				input.Metrics = []engine.MetricSample{{Metric: thresholds.CPULoadPct, Value: cpuPct}}
			}
		}

		res, err := eng.RunCycle(ctx, input)
		if err != nil {
			logger.Error("cycle failed", zap.Error(err))
			continue
		}
		if res.State.Dominant == affect.Disgust && res.Memory.DominantStreak > 6 {
			logger.Warn("mood stuck", zap.Int("streak", res.Memory.DominantStreak))
		}
	}
}

// #endregion cycle-loop

// #region logger

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// #endregion logger
