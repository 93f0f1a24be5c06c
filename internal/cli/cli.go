// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/chip8/internal/dialect"
	"github.com/retroenv/chip8/internal/options"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/chip8/internal/runner"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.NeedsInput()) {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" && len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and the defaults of all flags.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8 [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if _, err := dialect.Lookup(opts.Mode); err != nil {
		return fmt.Errorf("selecting mode: %w", err)
	}

	opts.Frontend = strings.ToLower(opts.Frontend)
	switch opts.Frontend {
	case options.FrontendTerminal, options.FrontendHeadless:
	default:
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s, %s",
			opts.Frontend, options.FrontendTerminal, options.FrontendHeadless)
	}

	if opts.Frequency < 0 {
		return fmt.Errorf("invalid instruction frequency %d", opts.Frequency)
	}

	for _, color := range []string{opts.Foreground, opts.Background} {
		if color == "" {
			continue
		}
		if _, err := palette.ParseRGB(color); err != nil {
			return fmt.Errorf("parsing colour: %w", err)
		}
	}

	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the program file to run")
	flags.StringVar(&opts.Mode, "m", dialect.Default, "dialect to emulate, -list shows all supported dialects")
	flags.StringVar(&opts.Frontend, "frontend", options.FrontendTerminal, "frontend to use (terminal/headless)")
	flags.StringVar(&opts.Wav, "wav", "", "name of a WAV file to record the audio output to")
	flags.StringVar(&opts.Foreground, "fg", "", "foreground colour of monochrome dialects as #rrggbb")
	flags.StringVar(&opts.Background, "bg", "", "background colour of monochrome dialects as #rrggbb")
	flags.IntVar(&opts.Frequency, "hz", runner.DefaultFrequency, "instructions per second, 0 runs unthrottled")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after the given number of cycles, 0 runs until the program halts")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses a time based seed")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program instead of running it")
	flags.BoolVar(&opts.List, "list", false, "list the supported dialects")
	flags.BoolVar(&opts.Quirks, "quirks", false, "print the instruction set and quirks of the selected dialect")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed opcode, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
