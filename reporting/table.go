package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

const maxErrorWidth = 60

// TableReporter renders a round's results as a table
type TableReporter struct {
	title string
	color bool
}

// NewTableReporter creates a table reporter. Colored styles are only applied when color is set.
func NewTableReporter(title string, color bool) *TableReporter {
	return &TableReporter{title: title, color: color}
}

// Render returns the table for the given results
func (tr *TableReporter) Render(results []types.Result, summary Summary) string {
	t := table.NewWriter()
	title := tr.title
	if summary.RunID != "" {
		title = fmt.Sprintf("%s (%s)", title, summary.RunID)
	}
	t.SetTitle(title)

	t.AppendHeader(table.Row{"#", "Language", "Status", "Duration", "Timestamp", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: maxErrorWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, r := range results {
		t.AppendRow(table.Row{
			i + 1,
			r.Language,
			statusString(r.Status),
			durationCell(r),
			r.Timestamp,
			firstLine(r.Error),
		})
	}

	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("TOTAL %d", summary.Total),
		fmt.Sprintf("%d/%d ok", summary.Succeeded, summary.Total),
		formatDuration(summary.WallTime),
		"",
		"",
	})

	t.SetStyle(tr.style(summary))
	return t.Render() + "\n"
}

// Print writes the rendered table to w
func (tr *TableReporter) Print(w io.Writer, results []types.Result, summary Summary) error {
	_, err := io.WriteString(w, tr.Render(results, summary))
	return err
}

func (tr *TableReporter) style(summary Summary) table.Style {
	if !tr.color {
		return table.StyleLight
	}
	switch summary.Result() {
	case "clean":
		return table.StyleColoredBlackOnGreenWhite
	case "partial":
		return table.StyleColoredBlackOnYellowWhite
	default:
		return table.StyleColoredBlackOnRedWhite
	}
}

// statusString returns a display string for a status
func statusString(status types.Status) string {
	switch status {
	case types.StatusSuccess:
		return "✓ success"
	case types.StatusSkipped:
		return "- skipped"
	case types.StatusMissingToolchain:
		return "? missing toolchain"
	default:
		return "✗ failed"
	}
}

func durationCell(r types.Result) string {
	if r.Status != types.StatusSuccess {
		return "-"
	}
	return formatSeconds(r.DurationSeconds)
}

// firstLine keeps tables compact; the full diagnostic stays in the results file
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
