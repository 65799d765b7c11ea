package restorelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Encode writes entries to w, one line each.
func Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.String() + "\n"); err != nil {
			return fmt.Errorf("failed to write restore log entry: %w", err)
		}
	}
	return bw.Flush()
}

// Decode reads every entry from r. Blank lines are ignored.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read restore log: %w", err)
	}

	return entries, nil
}

// Write creates (or truncates) the log file at path.
func Write(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create restore log: %w", err)
	}

	if err := Encode(f, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close restore log: %w", err)
	}
	return nil
}

// Read loads the log file at path.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open restore log: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// DefaultPath returns the temp-directory log location for a run started at now.
func DefaultPath(now time.Time) string {
	return filepath.Join(os.TempDir(), "modkill-restore-"+strconv.FormatInt(now.UnixMilli(), 10)+".log")
}

// Count returns how many entries of each kind are in entries.
func Count(entries []Entry) (deleted, skipped int) {
	for _, e := range entries {
		switch e.Kind {
		case KindDeleted:
			deleted++
		case KindSkipped:
			skipped++
		}
	}
	return deleted, skipped
}
