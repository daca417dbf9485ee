package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/marcelocantos/gosh/internal/history"
)

// DefaultJournalLines is how many entries RunJournal shows by default.
const DefaultJournalLines = 20

// RunJournal prints the last n journal entries, as indented JSON when
// asJSON is set.
func RunJournal(w io.Writer, path string, n int, asJSON bool) int {
	if n <= 0 {
		n = DefaultJournalLines
	}
	entries, err := history.Tail(path, n)
	if err != nil {
		fmt.Fprintf(w, "gosh journal: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no journal entries")
		return 0
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	for _, e := range entries {
		if asJSON {
			if err := enc.Encode(e); err != nil {
				return 1
			}
			continue
		}
		fmt.Fprintf(w, "%5d  %s  %3d  %s\n", e.Seq, e.Time.Local().Format("2006-01-02 15:04:05"), e.ExitCode, e.Line)
	}
	return 0
}
