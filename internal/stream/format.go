// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes the coalesced journal as a human-readable table.
func FormatTable(j *Journal, w io.Writer) {
	snap := j.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(w, "No updates.")
		return
	}

	fmt.Fprintf(w, "%-28s  %-10s  %-10s  %s\n", "Step", "Type", "Status", "Message")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, d := range snap {
		fmt.Fprintf(w, "%-28s  %-10s  %-10s  %s\n",
			truncate(d.ID, 28), truncate(d.Type, 10), string(d.Status), truncate(d.Message, 60))
	}

	fmt.Fprintf(w, "\n%d entries", len(snap))
	if completed, total, done, ok := j.Progress(); ok {
		fmt.Fprintf(w, "; %d/%d steps completed", completed, total)
		if done {
			fmt.Fprint(w, " (research complete)")
		}
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the coalesced journal as indented JSON.
func FormatJSON(j *Journal, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.Snapshot())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
