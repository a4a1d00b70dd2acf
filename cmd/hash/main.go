package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/powforge7000-engine/internal/hashing"
	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
	"github.com/goodnatureofminers/powforge7000-engine/internal/pow"
)

var config struct {
	Algorithm string `long:"algorithm" env:"HASH_ALGORITHM" description:"hash algorithm" default:"sha256d" choice:"sha256" choice:"sha256d" choice:"sha512" choice:"memory-hard"`
	Data      string `long:"data" env:"HASH_DATA" description:"input data as text"`
	DataHex   string `long:"data-hex" env:"HASH_DATA_HEX" description:"input data as hex, takes precedence over --data"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, logger); err != nil {
		logger.Fatal("hash failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	algorithm, err := hashing.Parse(config.Algorithm)
	if err != nil {
		return fmt.Errorf("parse algorithm: %w", err)
	}

	data := []byte(config.Data)
	if config.DataHex != "" {
		decoded, err := hexutil.Decode(config.DataHex)
		if err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		data = decoded
	}

	digest, err := hashing.NewEngine().Compute(ctx, algorithm, data)
	if err != nil {
		return fmt.Errorf("compute digest: %w", err)
	}

	logger.Info("digest computed",
		zap.String("algorithm", algorithm.String()),
		zap.Int("output_bits", algorithm.OutputBits()),
		zap.Bool("memory_hard", algorithm.IsMemoryHard()),
		zap.String("raw", digest.RawHex()),
		zap.String("display", digest.DisplayHex()),
		zap.Int("leading_zero_bits", pow.CountLeadingZeroBits(digest.DisplayHex())),
		zap.Duration("elapsed", digest.Elapsed))

	return nil
}
