package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// HeredocPrompt is written before each body line.
const HeredocPrompt = "heredoc> "

// HeredocReader captures heredoc bodies from the shell's own input.
type HeredocReader struct {
	// In is the shell's shared buffered input. Sharing it keeps lines the
	// editor has already buffered from being lost.
	In *bufio.Reader

	// Prompt receives HeredocPrompt before each line; nil disables it.
	Prompt io.Writer

	// TempDir holds the backing file; empty means os.TempDir.
	TempDir string
}

// Capture reads lines until one equals delim (after removing its line
// ending) or input ends. The returned file holds every other line verbatim,
// is already unlinked, and is positioned at the start. The caller closes it.
func (h *HeredocReader) Capture(delim string) (*os.File, error) {
	if h == nil || h.In == nil {
		return nil, errors.New("heredoc: no input")
	}
	f, err := os.CreateTemp(h.TempDir, "gosh-heredoc-*")
	if err != nil {
		return nil, fmt.Errorf("heredoc: %w", err)
	}
	// Unlinked straight away; the descriptor keeps the data alive.
	os.Remove(f.Name())

	if err := h.copyBody(f, delim); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("heredoc: %w", err)
	}
	return f, nil
}

func (h *HeredocReader) copyBody(w io.Writer, delim string) error {
	for {
		if h.Prompt != nil {
			fmt.Fprint(h.Prompt, HeredocPrompt)
		}
		line, err := h.In.ReadString('\n')
		if line != "" {
			if strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r") == delim {
				return nil
			}
			if _, werr := io.WriteString(w, line); werr != nil {
				return fmt.Errorf("heredoc: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("heredoc: %w", err)
		}
	}
}
