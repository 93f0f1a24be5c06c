// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/chip8/internal/dialect"
	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/frontend/headless"
	"github.com/retroenv/chip8/internal/frontend/terminal"
	"github.com/retroenv/chip8/internal/frontend/wavrecord"
	"github.com/retroenv/chip8/internal/options"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreatePalette creates the palette of the dialect. The colour options
// replace the colours of monochrome palettes.
func CreatePalette(d dialect.Dialect, opts options.Program) (palette.Palette, error) {
	pal, err := palette.New(d.Palette)
	if err != nil {
		return nil, fmt.Errorf("creating palette: %w", err)
	}

	mono, ok := pal.(palette.Monochrome)
	if !ok {
		return pal, nil
	}
	if opts.Foreground != "" {
		if mono.On, err = palette.ParseRGB(opts.Foreground); err != nil {
			return nil, fmt.Errorf("parsing foreground colour: %w", err)
		}
	}
	if opts.Background != "" {
		if mono.Off, err = palette.ParseRGB(opts.Background); err != nil {
			return nil, fmt.Errorf("parsing background colour: %w", err)
		}
	}
	return mono, nil
}

// CreateDevice creates the frontend device for a screen of the given size.
// The device is wrapped in an audio recorder if a WAV file is set.
func CreateDevice(logger *log.Logger, opts options.Program, width, height int) (frontend.Device, error) {
	var device frontend.Device
	switch opts.Frontend {
	case options.FrontendTerminal:
		device = terminal.New(width, height)
	case options.FrontendHeadless:
		device = headless.New(width, height)
	default:
		return nil, fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}

	if opts.Wav != "" {
		device = wavrecord.New(logger, device, opts.Wav)
	}
	return device, nil
}
