package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/class-schedule/internal/record"
)

// WriteCSVFile writes records to path as CSV.
// Empty input fails with ErrEmptyInput before anything is created on disk.
func WriteCSVFile(path string, records []record.Record) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}
	return writeFile(path, func(w io.Writer) error {
		return ToCSV(w, records)
	})
}

// WriteJSONFile writes records to path as a JSON array
func WriteJSONFile(path string, records []record.Record) error {
	return writeFile(path, func(w io.Writer) error {
		return JSONDump(w, records)
	})
}

// ExpandPath expands a leading "~/" to the user's home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// writeFile streams output into a temp file next to path and renames it into place
func writeFile(path string, write func(io.Writer) error) (err error) {
	path, err = ExpandPath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()        // nolint:errcheck
			os.Remove(tmpName) // nolint:errcheck
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
