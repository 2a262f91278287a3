package report

import (
	"fmt"
	"io"

	"github.com/IvanShishkin/filemonitor/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	countStyle = lipgloss.NewStyle().Align(lipgloss.Right).Width(8)
)

// PrintSummary prints scan statistics and per-folder counts
func PrintSummary(w io.Writer, results *models.ScanResults) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("SCAN SUMMARY"))
	fmt.Fprintln(w)

	line := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label+":"), value)
	}
	line("Path", results.ScanPath)
	line("Range", fmt.Sprintf("%s .. %s",
		results.Begin.Format(models.TimestampLayout),
		results.End.Format(models.TimestampLayout)))
	line("Duration", FormatDuration(results.Duration))
	if results.ReportPath != "" {
		line("Report", results.ReportPath)
	}

	if results.Stats != nil {
		line("Files", humanize.Comma(int64(results.Stats.TotalFiles)))
		line("Folders", humanize.Comma(int64(results.Stats.TotalDirs)))
		line("Matched", fmt.Sprintf("%s (%s)",
			humanize.Comma(int64(results.Stats.MatchedFiles)),
			humanize.Bytes(uint64(results.Stats.MatchedSize))))
		if results.Stats.SkippedEntries > 0 {
			line("Skipped", humanize.Comma(int64(results.Stats.SkippedEntries)))
		}
	}

	counts := Summarize(results.Records)
	if len(counts) == 0 {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s %s\n", countStyle.Render(humanize.Comma(int64(c.Files))), c.Folder)
	}
	fmt.Fprintln(w)
}
