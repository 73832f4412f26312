package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

const none = "(none)"

// printReport writes the transcription, summary bullets and hashtags.
func printReport(w io.Writer, report domain.Report) {
	result := report.Result

	fmt.Fprintln(w, "=== Transcription ===")
	fmt.Fprintln(w, orNone(strings.TrimSpace(report.Transcript)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Summary ===")
	switch {
	case len(result.Summary.Points) > 0:
		for _, p := range result.Summary.Points {
			fmt.Fprintf(w, "- %s\n", p)
		}
	case result.Summary.Text != "":
		fmt.Fprintf(w, "- %s\n", result.Summary.Text)
	default:
		fmt.Fprintln(w, none)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Hashtags ===")
	fmt.Fprintln(w, orNone(strings.Join(result.Hashtags, " ")))
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
