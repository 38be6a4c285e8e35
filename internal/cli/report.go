package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/tui"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// renderReport formats the outcome of a successful run. Plain output is one
// "key value" pair per line so it can be grepped from logs.
func renderReport(r fxload.PipelineResult, styled bool) string {
	rows := [][2]string{
		{"run", r.RunID.String()},
		{"pipeline", r.Pipeline},
		{"mode", r.Mode.String()},
		{"worksheets", fmt.Sprint(r.Worksheets)},
		{"rows", fmt.Sprint(r.Rows)},
	}
	for _, a := range r.Artifacts {
		rows = append(rows, [2]string{"artifact", fmt.Sprintf("%s (%d rows, %d bytes, sha256 %s)",
			a.Locator, a.Rows, a.Bytes, shortDigest(a.SHA256))})
	}
	rows = append(rows,
		[2]string{"copied", fmt.Sprint(r.Load.RowsCopied)},
		[2]string{"inserted", fmt.Sprint(r.Load.RowsUpserted)},
		[2]string{"duration", r.Duration.Round(time.Millisecond).String()},
	)

	if !styled {
		return "succeeded\n" + plainTable(rows)
	}
	title := tui.SuccessStyle.Render(tui.SymbolCheck) + " " + tui.TitleStyle.Render("Run succeeded")
	return tui.BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", styledTable(rows))) + "\n"
}

// renderSummary formats the effective configuration.
func renderSummary(fields []config.Field, styled bool) string {
	rows := make([][2]string, len(fields))
	for i, f := range fields {
		rows[i] = [2]string{f.Name, f.Value}
	}

	if !styled {
		return "configuration valid\n" + plainTable(rows)
	}
	title := tui.SuccessStyle.Render(tui.SymbolCheck) + " " + tui.TitleStyle.Render("Configuration valid")
	return tui.BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", styledTable(rows))) + "\n"
}

func plainTable(rows [][2]string) string {
	width := labelWidth(rows)
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r[0], r[1])
	}
	return b.String()
}

func styledTable(rows [][2]string) string {
	width := labelWidth(rows)
	label := tui.LabelStyle.Width(width + 2)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, label.Render(r[0]), tui.ValueStyle.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func labelWidth(rows [][2]string) int {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	return width
}

func shortDigest(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
