// Package main implements the main entry point for a CHIP-8 family interpreter
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/chip8/internal/cli"
	"github.com/retroenv/chip8/internal/config"
	"github.com/retroenv/chip8/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	switch {
	case opts.List:
		err = fileprocessor.PrintDialects(os.Stdout)
	case opts.Quirks:
		err = fileprocessor.PrintQuirks(os.Stdout, opts)
	default:
		if !opts.Disasm {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
		}
		err = fileprocessor.ProcessFile(ctx, logger, opts, os.Stdout)
	}
	if err == nil {
		return
	}

	// Handle context cancellation (Ctrl+C) gracefully
	if errors.Is(err, context.Canceled) {
		logger.Info("Operation cancelled")
		return
	}
	logger.Error("Running program failed", log.Err(err))
	os.Exit(1)
}
