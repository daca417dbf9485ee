package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is one executed command line as recorded in the journal.
type Entry struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"ts"`
	Line     string    `json:"line"`
	Stages   []string  `json:"stages,omitempty"` // command name per stage
	ExitCode int       `json:"exit_code"`
	Duration float64   `json:"duration_ms"`
	Cwd      string    `json:"cwd"`
}

// Journal is an append-only JSONL log of executed command lines.
type Journal struct {
	mu   sync.Mutex
	path string
	seq  uint64
}

// OpenJournal opens or creates the journal at path and resumes its sequence
// numbering from the last entry.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	j := &Journal{path: path}
	if data, err := os.ReadFile(path); err == nil {
		lines := splitLines(data)
		if len(lines) > 0 {
			var last Entry
			if err := json.Unmarshal(lines[len(lines)-1], &last); err == nil {
				j.seq = last.Seq
			}
		}
	}
	return j, nil
}

// Record appends an entry for one executed line.
func (j *Journal) Record(line string, stages []string, exitCode int, duration time.Duration, cwd string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	entry := Entry{
		Seq:      j.seq,
		Time:     time.Now().UTC(),
		Line:     line,
		Stages:   stages,
		ExitCode: exitCode,
		Duration: float64(duration.Microseconds()) / 1000.0,
		Cwd:      cwd,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Tail returns the last n well-formed entries from the journal at path. A
// missing journal yields no entries.
func Tail(path string, n int) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}

	lines := splitLines(data)
	if n > len(lines) {
		n = len(lines)
	}

	entries := make([]Entry, 0, n)
	for _, line := range lines[len(lines)-n:] {
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Restore loads the most recent journal lines into h, filling at most half
// of its capacity so new lines still fit.
func Restore(h *History, path string) error {
	entries, err := Tail(path, max(h.Cap()/2, 1))
	if err != nil {
		return err
	}
	for _, e := range entries {
		h.Add(e.Line)
	}
	return nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
