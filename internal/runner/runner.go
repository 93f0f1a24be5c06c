// Package runner drives the interpreter: it passes the device input to the
// interpreter, executes cycles at the configured instruction frequency and
// presents the screen updates of the device.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/hardware"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// DefaultFrequency is the default number of executed instructions per second.
const DefaultFrequency = 1000

// refreshRate is the number of device refreshes per second.
const refreshRate = 60

// Machine is the interpreter interface that the runner uses.
type Machine interface {
	Execute(f frontend.Frontend) (bool, error)
	SetKeys(keypad1, keypad2 frontend.Keypad)
	Hardware() *hardware.Hardware
}

// Options controls the execution loop.
type Options struct {
	Frequency int    // instructions per second, 0 runs without throttling
	MaxCycles uint64 // cycles to execute before stopping, 0 is unlimited
}

// Result contains the statistics of a finished run.
type Result struct {
	Cycles    uint64 // executed cycles
	Addresses int    // number of distinct opcode addresses that were executed
}

// Runner executes a program on a device.
type Runner struct {
	logger  *log.Logger
	machine Machine
	device  frontend.Device
	opts    Options

	visited set.Set[uint16]
	result  Result
}

// New returns a new runner for the machine and device.
func New(logger *log.Logger, machine Machine, device frontend.Device, opts Options) *Runner {
	return &Runner{
		logger:  logger,
		machine: machine,
		device:  device,
		opts:    opts,
		visited: set.New[uint16](),
	}
}

// Run executes cycles until the program halts, the device requests to quit,
// the cycle limit is reached or the context is cancelled. Execution errors
// end the run and are returned.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var tick <-chan time.Time
	refreshEvery := uint64(1)
	if r.opts.Frequency > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.opts.Frequency))
		defer ticker.Stop()
		tick = ticker.C
		refreshEvery = uint64(max(1, r.opts.Frequency/refreshRate))
	}

	for {
		if err := ctx.Err(); err != nil {
			return r.result, fmt.Errorf("running program: %w", err)
		}
		if r.device.QuitRequested() {
			r.logger.Info("Quit requested")
			return r.result, nil
		}

		running, err := r.cycle()
		if err != nil {
			return r.result, err
		}
		if !running {
			r.logger.Info("Program halted", log.Int("cycles", int(r.result.Cycles)))
			return r.result, r.refresh()
		}

		if r.result.Cycles%refreshEvery == 0 {
			if err := r.refresh(); err != nil {
				return r.result, err
			}
		}
		if r.opts.MaxCycles > 0 && r.result.Cycles >= r.opts.MaxCycles {
			r.logger.Info("Cycle limit reached", log.Int("cycles", int(r.result.Cycles)))
			return r.result, r.refresh()
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
}

// cycle passes the device input to the machine and executes one cycle.
func (r *Runner) cycle() (bool, error) {
	keypad1, keypad2 := r.device.Keys()
	r.machine.SetKeys(keypad1, keypad2)

	pc := r.machine.Hardware().PC
	if !r.visited.Contains(pc) {
		r.visited.Add(pc)
		r.result.Addresses++
	}

	running, err := r.machine.Execute(r.device)
	r.result.Cycles++
	if err != nil {
		return false, fmt.Errorf("executing cycle %d: %w", r.result.Cycles, err)
	}
	return running, nil
}

func (r *Runner) refresh() error {
	if err := r.device.Refresh(); err != nil {
		return fmt.Errorf("refreshing device: %w", err)
	}
	return nil
}
