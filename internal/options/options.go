// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Parameters contains file and selection options.
type Parameters struct {
	Input      string `flag:"i" usage:"program file to run"`
	Mode       string `flag:"m" usage:"dialect preset to emulate" default:"chip8"`
	Frontend   string `flag:"frontend" usage:"frontend: terminal, headless" default:"terminal"`
	Wav        string `flag:"wav" usage:"record the audio output to a WAV file"`
	Foreground string `flag:"fg" usage:"foreground colour of monochrome dialects as #rrggbb"`
	Background string `flag:"bg" usage:"background colour of monochrome dialects as #rrggbb"`
}

// Flags contains behavior options.
type Flags struct {
	Frequency int    `flag:"hz" usage:"instructions per second, 0 runs unthrottled" default:"1000"`
	Cycles    uint64 `flag:"cycles" usage:"stop after the number of cycles, 0 is unlimited"`
	Seed      uint64 `flag:"seed" usage:"seed of the random number opcode, 0 is time based"`
	Disasm    bool   `flag:"disasm" usage:"print a disassembly of the program instead of running it"`
	List      bool   `flag:"list" usage:"list the supported dialects"`
	Quirks    bool   `flag:"quirks" usage:"print the instruction set and quirks of the dialect"`
	Trace     bool   `flag:"trace" usage:"log every executed opcode, implies -debug"`
	Debug     bool   `flag:"debug" usage:"enable debug logging"`
	Quiet     bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
}

// NeedsInput returns whether the selected operation requires a program
// file.
func (p Program) NeedsInput() bool {
	return !p.List && !p.Quirks
}
