// Package loader handles program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrLoad is returned when a program file can not be read.
var ErrLoad = errors.New("loading program failed")

// Load reads the raw program bytes from the file. CHIP-8 programs have no
// header, the whole file is the program image.
func Load(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no file name given", ErrLoad)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file %s: %w", ErrLoad, path, err)
	}
	defer func() { _ = file.Close() }()

	return Read(file)
}

// Read reads the raw program bytes from the reader.
func Read(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading program: %w", ErrLoad, err)
	}
	return data, nil
}
