package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/powforge7000-engine/internal/clock"
	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
	"github.com/goodnatureofminers/powforge7000-engine/internal/difficulty"
	"github.com/goodnatureofminers/powforge7000-engine/internal/hashing"
	"github.com/goodnatureofminers/powforge7000-engine/internal/metrics"
	"github.com/goodnatureofminers/powforge7000-engine/internal/model"
	"github.com/goodnatureofminers/powforge7000-engine/internal/pow"
	"github.com/goodnatureofminers/powforge7000-engine/pkg/safe"
	"github.com/goodnatureofminers/powforge7000-engine/pkg/sampler"
)

type config struct {
	Version      uint32        `long:"version" env:"MINER_VERSION" description:"block version" default:"2"`
	PrevHash     string        `long:"prev-hash" env:"MINER_PREV_HASH" description:"previous block hash, hex"`
	MerkleRoot   string        `long:"merkle-root" env:"MINER_MERKLE_ROOT" description:"merkle root, hex"`
	Bits         string        `long:"bits" env:"MINER_BITS" description:"compact target bits, hex" default:"0x1f00ffff"`
	Algorithm    string        `long:"algorithm" env:"MINER_ALGORITHM" description:"hash algorithm" default:"sha256d" choice:"sha256" choice:"sha256d" choice:"sha512" choice:"memory-hard"`
	MaxAttempts  int64         `long:"max-attempts" env:"MINER_MAX_ATTEMPTS" description:"nonce attempt bound" default:"10000000"`
	BatchSize    int           `long:"batch-size" env:"MINER_BATCH_SIZE" description:"attempts per cooperative batch" default:"100"`
	MetricsAddr  string        `long:"metrics-addr" env:"MINER_METRICS_ADDR" description:"prometheus listen address" default:":9090"`
	MetricsLingr time.Duration `long:"metrics-linger" env:"MINER_METRICS_LINGER" description:"keep /metrics up after the search finishes" default:"0s"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("miner failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	bits, err := compact.Parse(cfg.Bits)
	if err != nil {
		return fmt.Errorf("parse bits: %w", err)
	}
	algorithm, err := hashing.Parse(cfg.Algorithm)
	if err != nil {
		return fmt.Errorf("parse algorithm: %w", err)
	}
	timestamp, err := safe.UnixUint32(time.Now())
	if err != nil {
		return fmt.Errorf("header timestamp: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if serveErr := srv.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(serveErr))
		}
	}()
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()

	info := difficulty.Info(bits)
	logger.Info("difficulty",
		zap.String("bits", bits.String()),
		zap.String("target", info.Target),
		zap.Float64("difficulty", info.Difficulty),
		zap.Float64("expected_hashes", info.ExpectedHashes))

	search := pow.NewSearch(pow.Config{
		Header: model.BlockHeader{
			Version:           cfg.Version,
			PreviousBlockHash: cfg.PrevHash,
			MerkleRoot:        cfg.MerkleRoot,
			Timestamp:         timestamp,
			Bits:              bits,
		},
		MaxAttempts: cfg.MaxAttempts,
		Algorithm:   algorithm,
		BatchSize:   cfg.BatchSize,
		Logger:      logger,
		Metrics:     metrics.NewMiner(algorithm.String()),
	})

	progress := sampler.New(logger, func(_ context.Context, snap pow.Snapshot) {
		logger.Info("search progress",
			zap.Uint32("nonce", snap.Nonce),
			zap.Uint64("hashes", snap.Stats.HashesComputed),
			zap.Duration("elapsed", snap.Stats.Elapsed),
			zap.Float64("hash_rate", snap.Stats.HashRate))
	}, time.Second, 2)
	progress.Start(ctx)

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for snap := range search.Events() {
			progress.Offer(snap)
		}
	}()

	result, err := search.Run(ctx)
	<-consumed
	progress.Stop()
	if err != nil {
		return fmt.Errorf("run search: %w", err)
	}

	if result.Success {
		logger.Info("nonce found",
			zap.Uint32("nonce", result.Nonce),
			zap.String("digest", result.Digest.DisplayHex()),
			zap.Int("leading_zero_bits", pow.CountLeadingZeroBits(result.Digest.DisplayHex())),
			zap.Uint64("hashes", result.Stats.HashesComputed),
			zap.Duration("elapsed", result.Stats.Elapsed),
			zap.Float64("hash_rate", result.Stats.HashRate))
	} else {
		logger.Warn("search ended without a qualifying digest",
			zap.String("state", result.State.String()),
			zap.Uint64("hashes", result.Stats.HashesComputed),
			zap.Duration("elapsed", result.Stats.Elapsed))
	}

	if cfg.MetricsLingr > 0 {
		logger.Info("keeping metrics endpoint up", zap.Duration("linger", cfg.MetricsLingr))
		if err := clock.SleepWithContext(ctx, cfg.MetricsLingr); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	return nil
}
