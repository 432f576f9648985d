package feed

import (
	"fmt"
	"os"
	"path/filepath"
)

// File names inside the runtime directory.
const (
	BankFile   = "bank.txt"
	MarketFile = "market.txt"
	StatusFile = "status.txt"
)

// Runtime locates the three queue files inside one runtime directory.
type Runtime struct {
	Dir string
}

// NewRuntime ensures the runtime directory and all three files exist.
func NewRuntime(dir string) (*Runtime, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}
	rt := &Runtime{Dir: dir}
	for _, name := range []string{BankFile, MarketFile, StatusFile} {
		f, err := os.OpenFile(rt.Path(name), os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close %s: %w", name, err)
		}
	}
	return rt, nil
}

// Path returns the absolute path of a runtime file.
func (r *Runtime) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// Reset truncates all three queue files. Generators and benchmarks call
// this before writing a fresh dataset.
func (r *Runtime) Reset() error {
	for _, name := range []string{BankFile, MarketFile, StatusFile} {
		if err := os.Truncate(r.Path(name), 0); err != nil {
			return fmt.Errorf("truncate %s: %w", name, err)
		}
	}
	return nil
}

// appendLine appends one line to a runtime file with a single write call.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return nil
}
