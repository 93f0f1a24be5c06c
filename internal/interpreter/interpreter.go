// Package interpreter implements the fetch, decode and execute cycle of
// the CHIP-8 family. The behavior of a dialect is selected by the enabled
// instruction set extensions and quirks.
package interpreter

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/chip8/internal/capability"
	"github.com/retroenv/chip8/internal/disasm"
	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/hardware"
	"github.com/retroenv/retrogolib/log"
)

// Errors that abort the execution of a program.
var (
	ErrDecode         = errors.New("unknown opcode")
	ErrUnimplemented  = errors.New("opcode not implemented")
	ErrInvalidOperand = errors.New("invalid operand")
	ErrBounds         = hardware.ErrBounds
)

// TimerInterval is the period of the delay and sound timers.
const TimerInterval = time.Second / 60

// State is the execution state of the interpreter.
type State int

// Execution states.
const (
	Running State = iota
	WaitingForKey
	WaitingForTimer
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	case WaitingForTimer:
		return "waiting for timer"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state %d", int(s))
	}
}

// handler executes the opcode if it belongs to its table and reports
// whether it did.
type handler func(f frontend.Frontend, op opcode) (bool, error)

// Interpreter executes programs on the simulated hardware.
type Interpreter struct {
	hw     *hardware.Hardware
	set    capability.InstructionSet
	quirks capability.Quirks

	logger *log.Logger
	trace  bool
	now    func() time.Time
	rng    *rand.Rand

	handlers     []handler
	state        State
	waitRegister int
	skip         bool
	lastTick     time.Time
	fault        error
	cycles       uint64
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithClock sets the time source of the timers.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		i.now = now
	}
}

// WithSeed makes the random number opcode deterministic.
func WithSeed(seed uint64) Option {
	return func(i *Interpreter) {
		i.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithLogger sets the logger that traced opcodes are written to.
func WithLogger(logger *log.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithTrace enables debug logging of every executed opcode.
func WithTrace(trace bool) Option {
	return func(i *Interpreter) {
		i.trace = trace
	}
}

// New returns a new interpreter for the hardware. The instruction set and
// quirks are validated for conflicts.
func New(hw *hardware.Hardware, set capability.InstructionSet, quirks capability.Quirks, opts ...Option) (*Interpreter, error) {
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("validating instruction set: %w", err)
	}
	if err := quirks.Validate(); err != nil {
		return nil, fmt.Errorf("validating quirks: %w", err)
	}

	i := &Interpreter{
		hw:     hw,
		set:    set,
		quirks: quirks,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.rng == nil {
		seed := uint64(time.Now().UnixNano())
		i.rng = rand.New(rand.NewPCG(seed, seed>>32))
	}

	i.handlers = i.buildHandlers()
	i.lastTick = i.now()
	return i, nil
}

// buildHandlers returns the opcode tables of the enabled extensions in
// dispatch order, the common table is always last.
func (i *Interpreter) buildHandlers() []handler {
	var handlers []handler
	if i.set.Chip8E {
		handlers = append(handlers, i.executeChip8E)
	}
	if i.set.Chip8X {
		handlers = append(handlers, i.executeChip8X)
	}
	if i.set.XOChip {
		handlers = append(handlers, i.executeXOChip)
	}
	if i.set.Chip8Run {
		handlers = append(handlers, i.executeChip8Run)
	}
	if i.set.SuperChip10 {
		handlers = append(handlers, i.executeSuperChip10)
	}
	if i.set.SuperChip11 {
		handlers = append(handlers, i.executeSuperChip11)
	}
	if i.set.ScrollUp00BN {
		handlers = append(handlers, i.executeScrollUp00BN)
	}
	if i.set.SetRD0FXF2 {
		handlers = append(handlers, i.executeSetRD0)
	}
	if i.set.Stop0000 {
		handlers = append(handlers, i.executeStop0000)
	}
	return append(handlers, i.executeCommon)
}

// Hardware returns the machine state.
func (i *Interpreter) Hardware() *hardware.Hardware {
	return i.hw
}

// State returns the execution state.
func (i *Interpreter) State() State {
	return i.state
}

// Cycles returns the number of executed opcodes.
func (i *Interpreter) Cycles() uint64 {
	return i.cycles
}

// SetKeys updates the keypad state, it has to be called between Execute
// calls.
func (i *Interpreter) SetKeys(keypad1, keypad2 frontend.Keypad) {
	i.hw.SetKeys(keypad1, keypad2)
}

// Reset puts the interpreter and the hardware into the initial state.
// Loaded programs have to be loaded again.
func (i *Interpreter) Reset() {
	i.hw.Reset()
	i.state = Running
	i.skip = false
	i.fault = nil
	i.cycles = 0
	i.lastTick = i.now()
}

// Execute runs one cycle: the timers are updated and, unless the
// interpreter is blocked, one opcode is executed. It returns false once
// the program halted. Errors are fatal, every following call returns the
// same error.
func (i *Interpreter) Execute(f frontend.Frontend) (bool, error) {
	if i.fault != nil {
		return false, i.fault
	}
	if i.state == Halted {
		return false, nil
	}

	i.tickTimers(f)
	if !i.resolveWait() {
		return true, nil
	}

	if err := i.step(f); err != nil {
		i.fault = err
		i.state = Halted
		return false, err
	}
	return i.state != Halted, nil
}

// tickTimers decrements the timers when a timer period passed since the
// last decrement.
func (i *Interpreter) tickTimers(f frontend.Frontend) {
	now := i.now()
	if now.Sub(i.lastTick) < TimerInterval {
		return
	}
	i.lastTick = now

	if i.hw.SoundTimer == 1 {
		f.SetAudioState(false)
	}
	if i.hw.DelayTimer > 0 {
		i.hw.DelayTimer--
	}
	if i.hw.SoundTimer > 0 {
		i.hw.SoundTimer--
	}
}

// resolveWait returns whether an opcode can be executed in this cycle.
func (i *Interpreter) resolveWait() bool {
	switch i.state {
	case WaitingForKey:
		key, ok := i.hw.PressedKey()
		if !ok {
			return false
		}
		i.hw.V[i.waitRegister] = key
		i.state = Running

	case WaitingForTimer:
		if i.hw.DelayTimer > 0 {
			return false
		}
		i.state = Running
	}
	return true
}

// step executes the opcode at PC.
func (i *Interpreter) step(f frontend.Frontend) error {
	if i.skip {
		i.skip = false
		if err := i.skipInstruction(); err != nil {
			return err
		}
	}

	pc := i.hw.PC
	raw, err := i.hw.ReadWord(int(pc))
	if err != nil {
		return fmt.Errorf("fetching opcode at address %04X: %w", pc, err)
	}
	i.hw.PC += 2
	i.cycles++

	if i.trace && i.logger != nil {
		i.logger.Debug("Executing opcode",
			log.Hex("address", pc),
			log.String("instruction", disasm.Instruction(raw)))
	}

	op := decode(raw)
	for _, h := range i.handlers {
		handled, err := h(f, op)
		if err != nil {
			return fmt.Errorf("executing opcode %04X at address %04X: %w", raw, pc, err)
		}
		if handled {
			return nil
		}
	}
	return fmt.Errorf("%w %04X at address %04X", ErrDecode, raw, pc)
}

// skipInstruction advances PC past the next instruction, which is 4 bytes
// long for the XO-CHIP long I load.
func (i *Interpreter) skipInstruction() error {
	size := uint16(2)
	if i.set.XOChip {
		next, err := i.hw.ReadWord(int(i.hw.PC))
		if err != nil {
			return fmt.Errorf("skipping opcode at address %04X: %w", i.hw.PC, err)
		}
		if next == 0xf000 {
			size = 4
		}
	}
	i.hw.PC += size
	return nil
}

func (i *Interpreter) skipIf(condition bool) {
	if condition {
		i.skip = true
	}
}

func (i *Interpreter) halt() {
	i.state = Halted
}
