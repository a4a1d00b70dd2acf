package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
	"github.com/goodnatureofminers/powforge7000-engine/internal/difficulty"
)

var config struct {
	Bits       string  `long:"bits" env:"DIFFICULTY_INFO_BITS" description:"compact target bits, hex"`
	Difficulty float64 `long:"difficulty" env:"DIFFICULTY_INFO_DIFFICULTY" description:"difficulty to re-encode as bits"`
}

func main() {
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

	if err := run(logger); err != nil {
		logger.Fatal("difficulty-info failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	var bits compact.Bits
	switch {
	case config.Bits != "":
		parsed, err := compact.Parse(config.Bits)
		if err != nil {
			return fmt.Errorf("parse bits: %w", err)
		}
		bits = parsed
	case config.Difficulty != 0:
		encoded, err := difficulty.ToBits(config.Difficulty)
		if err != nil {
			return fmt.Errorf("encode difficulty: %w", err)
		}
		bits = encoded
	default:
		return errors.New("either --bits or --difficulty is required")
	}

	info := difficulty.Info(bits)
	logger.Info("difficulty info",
		zap.String("bits", info.Bits.String()),
		zap.String("target", info.Target),
		zap.Float64("difficulty", info.Difficulty),
		zap.Float64("expected_hashes", info.ExpectedHashes),
		zap.Float64("probability", info.Probability))

	return nil
}
