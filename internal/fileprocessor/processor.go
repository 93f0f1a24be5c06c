// Package fileprocessor handles program loading and execution workflows
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8/internal/capability"
	"github.com/retroenv/chip8/internal/config"
	"github.com/retroenv/chip8/internal/dialect"
	"github.com/retroenv/chip8/internal/disasm"
	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/hardware"
	"github.com/retroenv/chip8/internal/interpreter"
	"github.com/retroenv/chip8/internal/loader"
	"github.com/retroenv/chip8/internal/options"
	"github.com/retroenv/chip8/internal/runner"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete program workflow: the program file is
// loaded into the hardware of the selected dialect and is then either
// disassembled to w or executed on the selected frontend.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, w io.Writer) error {
	d, err := dialect.Lookup(opts.Mode)
	if err != nil {
		return fmt.Errorf("selecting dialect: %w", err)
	}

	program, err := loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	hw, err := setupHardware(logger, d, opts, program)
	if err != nil {
		return err
	}

	if opts.Disasm {
		start := int(d.Hardware.ProgramStart)
		if err := disasm.Listing(w, hw.Memory, start, start+len(program)); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}
		return nil
	}

	return execute(ctx, logger, d, opts, hw)
}

// PrintDialects writes the names and descriptions of all dialects.
func PrintDialects(w io.Writer) error {
	var b strings.Builder
	for _, d := range dialect.All() {
		fmt.Fprintf(&b, "%-12s %s\n", d.Name, d.Description)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing dialect list: %w", err)
	}
	return nil
}

// PrintQuirks writes the instruction set and quirks of the selected dialect.
func PrintQuirks(w io.Writer, opts options.Program) error {
	d, err := dialect.Lookup(opts.Mode)
	if err != nil {
		return fmt.Errorf("selecting dialect: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n\n", d.Name, d.Description); err != nil {
		return fmt.Errorf("writing dialect header: %w", err)
	}
	if err := capability.Dump(w, d.InstructionSet, d.Quirks); err != nil {
		return fmt.Errorf("dumping capabilities: %w", err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("chip8", log.String("version", buildinfo.Version(version, commit, date)))
}

func setupHardware(logger *log.Logger, d dialect.Dialect, opts options.Program, program []byte) (*hardware.Hardware, error) {
	pal, err := config.CreatePalette(d, opts)
	if err != nil {
		return nil, err
	}

	hw, err := hardware.New(d.Hardware, pal)
	if err != nil {
		return nil, fmt.Errorf("creating hardware: %w", err)
	}

	loaded := hw.Load(program)
	if loaded < len(program) {
		logger.Warn("Program does not fit into memory, truncating",
			log.Int("size", len(program)),
			log.Int("loaded", loaded))
	}
	logger.Debug("Program loaded",
		log.String("dialect", d.Name),
		log.Hex("start", d.Hardware.ProgramStart),
		log.Int("size", loaded))
	return hw, nil
}

func execute(ctx context.Context, logger *log.Logger, d dialect.Dialect, opts options.Program, hw *hardware.Hardware) (rerr error) {
	interpOpts := []interpreter.Option{
		interpreter.WithLogger(logger),
		interpreter.WithTrace(opts.Trace),
	}
	if opts.Seed != 0 {
		interpOpts = append(interpOpts, interpreter.WithSeed(opts.Seed))
	}
	interp, err := interpreter.New(hw, d.InstructionSet, d.Quirks, interpOpts...)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	device, err := config.CreateDevice(logger, opts, hw.Width(), hw.Height())
	if err != nil {
		return fmt.Errorf("creating frontend: %w", err)
	}
	if s, ok := device.(interface{ Start() }); ok {
		s.Start()
	}
	if c, ok := device.(interface{ Cancel() }); ok {
		stop := context.AfterFunc(ctx, c.Cancel)
		defer stop()
	}
	defer func() {
		if err := device.Close(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("closing frontend: %w", err))
		}
	}()

	hw.Redraw(device)
	run := runner.New(logger, interp, device, runner.Options{
		Frequency: opts.Frequency,
		MaxCycles: opts.Cycles,
	})
	result, err := run.Run(ctx)
	logger.Info("Execution finished",
		log.Int("cycles", int(result.Cycles)),
		log.Int("addresses", result.Addresses))
	if err != nil {
		logger.Error("Machine state", log.String("state", hw.String()))
		return fmt.Errorf("running program: %w", err)
	}

	if opts.Frontend == options.FrontendHeadless && !opts.Quiet {
		logScreen(logger, device)
	}
	return nil
}

// logScreen prints the final framebuffer of headless runs.
func logScreen(logger *log.Logger, device frontend.Device) {
	screen, ok := device.(fmt.Stringer)
	if !ok {
		return
	}
	logger.Info("Final screen\n" + screen.String())
}
