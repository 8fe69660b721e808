package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/runner"
)

func Human(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// PrintSummary writes the end-of-run report.
func PrintSummary(w io.Writer, s runner.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Chapters: %d\n", s.Chapters)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:  %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "Pages:    %d\n", s.Pages)
	if s.FailedPages > 0 {
		fmt.Fprintf(w, "Failed:   %d\n", s.FailedPages)
	}
	fmt.Fprintf(w, "Data:     %s\n", Human(s.Bytes))
	fmt.Fprintf(w, "Time:     %s\n", s.Elapsed.Round(time.Second))
}
