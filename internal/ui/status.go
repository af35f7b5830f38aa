package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Aman-CERP/filescout/internal/fsindex"
)

// StatusRenderer displays index health.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{out: out, styles: GetStyles(noColor)}
}

// Render displays index status to the terminal.
func (r *StatusRenderer) Render(st fsindex.Status) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Index: "+st.Root))

	_, _ = fmt.Fprintf(r.out, "  State:    %s\n", r.renderState(st.State))
	_, _ = fmt.Fprintf(r.out, "  Entries:  %d (%d files, %d dirs)\n",
		st.IndexedEntries, st.ScannedFiles, st.ScannedDirs)
	if !st.FinishedAt.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Built:    %s\n", formatTime(st.FinishedAt))
	}
	if !st.LastUpdateAt.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Updated:  %s\n", formatTime(st.LastUpdateAt))
	}
	if st.RescanCount > 0 {
		_, _ = fmt.Fprintf(r.out, "  Rescans:  %d\n", st.RescanCount)
	}
	if st.Errors > 0 {
		_, _ = fmt.Fprintf(r.out, "  Errors:   %s\n",
			r.styles.Warning.Render(fmt.Sprintf("%d unreadable entries", st.Errors)))
	}
	if st.LastError != "" {
		_, _ = fmt.Fprintf(r.out, "  Last error: %s\n", r.styles.Error.Render(st.LastError))
	}

	watcher := "disabled"
	if st.WatcherEnabled {
		watcher = "running"
	}
	_, _ = fmt.Fprintf(r.out, "  Watcher:  %s\n", r.renderWatcher(watcher))
	if len(st.IgnoredPaths) > 0 {
		_, _ = fmt.Fprintf(r.out, "  Ignored:  %v\n", st.IgnoredPaths)
	}
	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(st fsindex.Status) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func (r *StatusRenderer) renderState(state fsindex.State) string {
	s := string(state)
	switch state {
	case fsindex.StateReady:
		return r.styles.Success.Render(s)
	case fsindex.StateBuilding:
		return r.styles.Warning.Render(s)
	case fsindex.StateError:
		return r.styles.Error.Render(s)
	default:
		return s
	}
}

func (r *StatusRenderer) renderWatcher(status string) string {
	if status == "running" {
		return r.styles.Success.Render(status)
	}
	return r.styles.Dim.Render(status)
}

// formatTime renders a time as a relative age for recent instants.
func formatTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02 15:04")
	}
}
