package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
)

const (
	dumpExt       = ".dump"
	kotlinExt     = ".kt"
	mapExt        = ".map"
	outputDirPerm = 0o750
	outputPerm    = 0o644

	// binarySniffLength is how far into a file a NUL byte marks it as binary.
	binarySniffLength = 8000
)

var (
	// ErrNoInputs is returned when the arguments name no dump files.
	ErrNoInputs = errors.New("no " + dumpExt + " files found")
	// ErrBinaryInput is returned for an input that is not text.
	ErrBinaryInput = errors.New("input is not a text tree dump")
)

// readUnits loads every argument as a unit. Directories contribute their
// *.dump files, recursively and in lexical order. batch reports whether the
// arguments name more than one unit or any directory.
func readUnits(args []string) (units []transpiler.Unit, batch bool, err error) {
	var paths []string

	batch = len(args) > 1

	for _, arg := range args {
		info, statErr := os.Stat(arg)
		if statErr != nil {
			return nil, false, fmt.Errorf("read input: %w", statErr)
		}

		if !info.IsDir() {
			paths = append(paths, arg)

			continue
		}

		batch = true

		found, findErr := findDumps(arg)
		if findErr != nil {
			return nil, false, findErr
		}

		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, false, fmt.Errorf("%w in %s", ErrNoInputs, strings.Join(args, ", "))
	}

	units = make([]transpiler.Unit, 0, len(paths))

	for _, path := range paths {
		unit, readErr := readUnit(path)
		if readErr != nil {
			return nil, false, readErr
		}

		units = append(units, unit)
	}

	return units, batch, nil
}

func findDumps(root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() && filepath.Ext(path) == dumpExt {
			found = append(found, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	slices.Sort(found)

	return found, nil
}

func readUnit(path string) (transpiler.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transpiler.Unit{}, fmt.Errorf("read input: %w", err)
	}

	if isBinary(data) {
		return transpiler.Unit{}, fmt.Errorf("%w: %s", ErrBinaryInput, path)
	}

	return transpiler.Unit{Name: path, Text: string(data)}, nil
}

func isBinary(data []byte) bool {
	sniff := data[:min(len(data), binarySniffLength)]

	return bytes.IndexByte(sniff, 0) >= 0
}

// countLines counts newline-terminated lines plus a trailing partial one.
func countLines(text string) int {
	if text == "" {
		return 0
	}

	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}

	return lines
}

// outputPath places the .kt file for input next to it, or inside dir.
func outputPath(input, dir string) string {
	name := strings.TrimSuffix(input, filepath.Ext(input)) + kotlinExt
	if dir == "" {
		return name
	}

	return filepath.Join(dir, filepath.Base(name))
}

func writeOutput(path, text string) error {
	err := os.MkdirAll(filepath.Dir(path), outputDirPerm)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = os.WriteFile(path, []byte(text), outputPerm)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
